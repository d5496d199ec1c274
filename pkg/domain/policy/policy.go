package policy

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DomainPolicy is the per-hostname configuration consumed by the
// classification pipeline. It is created and edited by the administrative
// surface; the classifier only ever reads it.
type DomainPolicy struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Hostname            string    `json:"hostname" gorm:"uniqueIndex"`
	TargetURL           string    `json:"target_url"`
	IsActive            bool      `json:"is_active"`
	LockdownMode        bool      `json:"lockdown_mode"`
	LockdownContentRef  string    `json:"lockdown_content_ref"`
	DefaultContentRef   string    `json:"default_content_ref"`
	RequireClickID      bool      `json:"require_click_id"`
	MobileOnly          bool      `json:"mobile_only"`
	BlockDatacenterIPs  bool      `json:"block_datacenter_ips"`
	BlockCommonNetworks bool      `json:"block_common_networks"`
	PassQueryParams     bool      `json:"pass_query_params"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (p *DomainPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p.Validate()
}

func (p *DomainPolicy) BeforeUpdate(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return p.Validate()
}

func (p *DomainPolicy) Validate() error {
	if p.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}
	if p.TargetURL == "" {
		return fmt.Errorf("target_url is required")
	}
	if _, err := url.Parse(p.TargetURL); err != nil {
		return fmt.Errorf("invalid target_url: %w", err)
	}
	return nil
}

// LockdownContent resolves the content to serve under lockdown. A lockdown
// policy without its own content ref is a configuration-error state; it
// falls back to the default content rather than failing the request.
func (p *DomainPolicy) LockdownContent() string {
	if p.LockdownContentRef != "" {
		return p.LockdownContentRef
	}
	return p.DefaultContentRef
}

func (p *DomainPolicy) TableName() string {
	return "public.domain_policies"
}

// AsnBlock blocks a single autonomous system, stored as "AS15169".
type AsnBlock struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID    uuid.UUID `json:"policy_id" gorm:"type:uuid;index"`
	ASN         string    `json:"asn"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AsnBlock) TableName() string { return "public.asn_blocks" }

type CountryBlock struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID    uuid.UUID `json:"policy_id" gorm:"type:uuid;index"`
	CountryCode string    `json:"country_code"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CountryBlock) TableName() string { return "public.country_blocks" }

type StateBlock struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID    uuid.UUID `json:"policy_id" gorm:"type:uuid;index"`
	CountryCode string    `json:"country_code"`
	StateCode   string    `json:"state_code"`
	CreatedAt   time.Time `json:"created_at"`
}

func (StateBlock) TableName() string { return "public.state_blocks" }

type IpBlock struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID    uuid.UUID `json:"policy_id" gorm:"type:uuid;index"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (IpBlock) TableName() string { return "public.ip_blocks" }

// Blocklists bundles the four per-policy blocklists read once per request.
type Blocklists struct {
	ASNs      []AsnBlock
	Countries []CountryBlock
	States    []StateBlock
	IPs       []IpBlock
}

// HasIP reports whether the address is blocked by exact match.
func (b *Blocklists) HasIP(address string) bool {
	for _, e := range b.IPs {
		if e.Address == address {
			return true
		}
	}
	return false
}

func (b *Blocklists) HasCountry(code string) bool {
	for _, e := range b.Countries {
		if e.CountryCode == code {
			return true
		}
	}
	return false
}

func (b *Blocklists) HasState(countryCode, stateCode string) bool {
	for _, e := range b.States {
		if e.CountryCode == countryCode && e.StateCode == stateCode {
			return true
		}
	}
	return false
}

func (b *Blocklists) HasASN(asn string) bool {
	for _, e := range b.ASNs {
		if e.ASN == asn {
			return true
		}
	}
	return false
}
