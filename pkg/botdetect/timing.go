package botdetect

import (
	"strings"

	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
)

const (
	timingMatchThreshold = 40
	fastFirstClickMs     = 100
	fastFirstScrollMs    = 50
	idleMouseWindowMs    = 5000
)

func analyzeTiming(data *telemetry.Timing) Signal {
	sig := Signal{Kind: KindTiming}
	var reasons []string
	score := 0

	if data.TimeToFirstClick != nil && *data.TimeToFirstClick < fastFirstClickMs {
		reasons = append(reasons, "fast_first_click")
		score += 40
	}
	if data.TimeToFirstScroll != nil && *data.TimeToFirstScroll < fastFirstScrollMs {
		reasons = append(reasons, "fast_first_scroll")
		score += 35
	}
	if data.MouseMovements == 0 && data.TimeOnPage > idleMouseWindowMs {
		reasons = append(reasons, "no_mouse_movement")
		score += 60
	}
	if data.ScrollPattern == telemetry.ScrollPatternLinear {
		reasons = append(reasons, "linear_scroll_pattern")
		score += 45
	}

	if score > 100 {
		score = 100
	}

	sig.Score = score
	sig.Matched = score > timingMatchThreshold
	sig.Reason = strings.Join(reasons, ",")
	return sig
}
