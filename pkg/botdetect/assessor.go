package botdetect

import (
	"context"
	"math"

	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
	"github.com/edgecloak/edgecloak/pkg/types"
	"github.com/sirupsen/logrus"
)

const botScoreThreshold = 70

type Confidence string

const (
	ConfidenceVeryLow  Confidence = "very_low"
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// Assessment is the aggregate bot-probability judgment for one request.
type Assessment struct {
	Score      int        `json:"score"`
	Confidence Confidence `json:"confidence"`
	IsBot      bool       `json:"is_bot"`
	Signals    []Signal   `json:"signals"`
}

// Assessor combines whichever signals are available for a request into one
// weighted confidence score. It never blocks by itself; policy decides
// whether to consult it.
type Assessor struct {
	logger   *logrus.Logger
	resolver geoip.Resolver
}

func NewAssessor(logger *logrus.Logger, resolver geoip.Resolver) *Assessor {
	return &Assessor{logger: logger, resolver: resolver}
}

func (a *Assessor) Assess(ctx context.Context, req *types.RequestContext) Assessment {
	signals := []Signal{
		analyzeUserAgent(req.UserAgent),
		analyzeASN(ctx, a.resolver, req.ClientIP),
		analyzeHeaders(req),
	}

	// Timing and fingerprint need client telemetry; when it is absent the
	// signals are excluded from the weighted sum, not scored as zero.
	if req.Telemetry != nil {
		if req.Telemetry.Timing != nil {
			signals = append(signals, analyzeTiming(req.Telemetry.Timing))
		}
		if req.Telemetry.Fingerprint != nil {
			signals = append(signals, analyzeFingerprint(req.Telemetry.Fingerprint))
		}
	}

	score := combine(signals)

	a.logger.WithFields(logrus.Fields{
		"ip":      req.ClientIP,
		"score":   score,
		"signals": len(signals),
	}).Debug("computed bot assessment")

	return Assessment{
		Score:      score,
		Confidence: confidenceFor(score),
		IsBot:      score > botScoreThreshold,
		Signals:    signals,
	}
}

// combine is a pure weighted average over the signals that were produced, so
// the result is invariant to signal order.
func combine(signals []Signal) int {
	var total, weights float64
	for _, sig := range signals {
		w, ok := signalWeights[sig.Kind]
		if !ok {
			continue
		}
		total += float64(sig.Score) * w
		weights += w
	}
	if weights == 0 {
		return 0
	}
	return int(math.Round(total / weights))
}

func confidenceFor(score int) Confidence {
	switch {
	case score >= 90:
		return ConfidenceVeryHigh
	case score >= 70:
		return ConfidenceHigh
	case score >= 50:
		return ConfidenceMedium
	case score >= 30:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}
