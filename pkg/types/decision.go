package types

type Outcome string

const (
	OutcomeRedirected Outcome = "redirected"
	OutcomeBlocked    Outcome = "blocked"
)

type BlockReason string

const (
	BlockDomainInactive BlockReason = "domain_inactive"
	BlockLockdownMode   BlockReason = "lockdown_mode"
	BlockMissingClickID BlockReason = "missing_click_id"
	BlockNotMobile      BlockReason = "not_mobile"
	BlockIPBlocked      BlockReason = "ip_blocked"
	BlockCountryBlocked BlockReason = "country_blocked"
	BlockStateBlocked   BlockReason = "state_blocked"
	BlockPingableIP     BlockReason = "pingable_ip"
	BlockCommonASN      BlockReason = "common_asn_blocked"
	BlockASNBlocked     BlockReason = "asn_blocked"
)

// AccessDecision is the single terminal outcome of classifying one request.
// RedirectURL is set iff the outcome is Redirected; BlockReason and
// ContentRef are set iff the outcome is Blocked. Geo fields are best effort
// and may be "Unknown".
type AccessDecision struct {
	Outcome     Outcome
	BlockReason BlockReason
	RedirectURL string
	ContentRef  string
	Country     string
	State       string
	ASN         string
}

// Action renders the decision the way access logs store it, e.g.
// "blocked:lockdown_mode" or "redirected".
func (d *AccessDecision) Action() string {
	if d.Outcome == OutcomeBlocked && d.BlockReason != "" {
		return string(d.Outcome) + ":" + string(d.BlockReason)
	}
	return string(d.Outcome)
}
