package accesslog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessLog records one classification outcome. Geo fields are best effort.
type AccessLog struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PolicyID  uuid.UUID `json:"policy_id" gorm:"type:uuid;index"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Country   string    `json:"country"`
	State     string    `json:"state"`
	ASN       string    `json:"asn"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (l *AccessLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	return nil
}

func (AccessLog) TableName() string { return "public.access_logs" }

type Repository interface {
	Save(ctx context.Context, entry *AccessLog) error
}

// Recorder persists entries fire-and-forget: a Record call never blocks the
// caller and its failures never surface to the visitor.
type Recorder interface {
	Record(entry *AccessLog)
}
