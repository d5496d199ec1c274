package botdetect

type Kind string

const (
	KindUserAgent   Kind = "user_agent"
	KindASN         Kind = "asn"
	KindHeaders     Kind = "headers"
	KindTiming      Kind = "timing"
	KindFingerprint Kind = "fingerprint"
)

// Signal is one analyzer's verdict for a request. Signals are produced fresh
// per request and never persisted; only the aggregate score outlives them.
type Signal struct {
	Kind    Kind   `json:"kind"`
	Matched bool   `json:"matched"`
	Score   int    `json:"score"`
	Reason  string `json:"reason,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// signalWeights reflect how reliable each signal is in practice: the user
// agent and fingerprint rarely lie, header heuristics often do.
var signalWeights = map[Kind]float64{
	KindUserAgent:   3.0,
	KindASN:         2.5,
	KindHeaders:     1.5,
	KindTiming:      2.0,
	KindFingerprint: 2.5,
}
