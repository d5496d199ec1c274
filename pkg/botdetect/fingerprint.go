package botdetect

import (
	"strings"

	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
)

const fingerprintMatchThreshold = 40

// Default headless-browser window size.
const (
	defaultScreenWidth  = 800
	defaultScreenHeight = 600
)

func analyzeFingerprint(data *telemetry.Fingerprint) Signal {
	sig := Signal{Kind: KindFingerprint}
	var reasons []string
	score := 0

	if data.Webdriver {
		reasons = append(reasons, "webdriver_detected")
		score += 90
	}
	if data.Headless {
		reasons = append(reasons, "headless_detected")
		score += 95
	}
	if len(data.Plugins) == 0 {
		reasons = append(reasons, "no_plugins")
		score += 30
	}
	if len(data.Languages) == 0 {
		reasons = append(reasons, "no_languages")
		score += 25
	}
	if data.ScreenWidth == defaultScreenWidth && data.ScreenHeight == defaultScreenHeight {
		reasons = append(reasons, "default_resolution")
		score += 40
	}
	if data.Automation {
		reasons = append(reasons, "automation_detected")
		score += 85
	}

	if score > 100 {
		score = 100
	}

	sig.Score = score
	sig.Matched = score > fingerprintMatchThreshold
	sig.Reason = strings.Join(reasons, ",")
	return sig
}
