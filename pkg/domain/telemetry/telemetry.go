package telemetry

import "context"

// Timing holds interaction timings collected by the browser-side script.
// Durations are milliseconds since page load. Pointer fields distinguish
// "never happened" from zero.
type Timing struct {
	TimeToFirstClick     *int64 `json:"timeToFirstClick"`
	TimeToFirstScroll    *int64 `json:"timeToFirstScroll"`
	TimeToFirstMouseMove *int64 `json:"timeToFirstMouseMove"`
	TimeOnPage           int64  `json:"timeOnPage"`
	MouseMovements       int    `json:"mouseMovements"`
	Clicks               int    `json:"clicks"`
	Scrolls              int    `json:"scrolls"`
	ScrollPattern        string `json:"scrollPattern"`
}

const (
	ScrollPatternLinear  = "linear"
	ScrollPatternNatural = "natural"
	ScrollPatternUnknown = "unknown"
)

// Fingerprint holds browser environment data collected client side.
type Fingerprint struct {
	Webdriver    bool     `json:"webdriver"`
	Headless     bool     `json:"headless"`
	Automation   bool     `json:"automation"`
	Plugins      []string `json:"plugins"`
	Languages    []string `json:"languages"`
	ScreenWidth  int      `json:"screenWidth"`
	ScreenHeight int      `json:"screenHeight"`
	Timezone     string   `json:"timezone"`
	Platform     string   `json:"platform"`
}

// ClientTelemetry is the payload submitted by the collector script. Either
// section may be missing; consumers must work without it entirely.
type ClientTelemetry struct {
	Timing      *Timing      `json:"timing"`
	Fingerprint *Fingerprint `json:"fingerprint"`
}

// Store keeps telemetry payloads per client IP for a bounded time window so
// a later classification of the same visitor can pick them up.
type Store interface {
	SaveTelemetry(ctx context.Context, clientIP string, data *ClientTelemetry) error
	// GetTelemetry returns (nil, nil) when nothing is stored for the IP.
	GetTelemetry(ctx context.Context, clientIP string) (*ClientTelemetry, error)
}
