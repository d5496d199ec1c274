package botdetect

import (
	"strconv"
	"strings"

	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/types"
)

const (
	headersMatchThreshold = 30
	maxForwardedHops      = 3
	lowEdgeBotScore       = 30
)

func analyzeHeaders(req *types.RequestContext) Signal {
	sig := Signal{Kind: KindHeaders}
	var reasons []string
	score := 0

	if req.Header("Accept-Language") == "" {
		reasons = append(reasons, "missing_accept_language")
		score += 20
	}
	if req.Header("Accept-Encoding") == "" {
		reasons = append(reasons, "missing_accept_encoding")
		score += 15
	}

	if fwd := req.Header(common.ForwardedForHeader); fwd != "" {
		if len(strings.Split(fwd, ",")) > maxForwardedHops {
			reasons = append(reasons, "multiple_proxies")
			score += 30
		}
	}

	for _, header := range automationHeaders {
		if req.Header(header) != "" {
			reasons = append(reasons, "automation_header")
			score += 40
		}
	}

	if raw := req.Header(common.BotScoreHeader); raw != "" {
		if edgeScore, err := strconv.Atoi(raw); err == nil && edgeScore < lowEdgeBotScore {
			reasons = append(reasons, "edge_bot_score_low")
			score += 50
		}
	}

	if score > 100 {
		score = 100
	}

	sig.Score = score
	sig.Matched = score > headersMatchThreshold
	sig.Reason = strings.Join(reasons, ",")
	return sig
}
