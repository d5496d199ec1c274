package botdetect

import "strings"

const (
	minUserAgentLength = 20
	maxUserAgentLength = 500
)

func analyzeUserAgent(userAgent string) Signal {
	sig := Signal{Kind: KindUserAgent}

	if userAgent == "" {
		sig.Matched = true
		sig.Score = 80
		sig.Reason = "missing_user_agent"
		return sig
	}

	for _, token := range CrawlerUserAgents {
		if strings.Contains(userAgent, token) {
			sig.Matched = true
			sig.Score = 95
			sig.Reason = "crawler_user_agent"
			sig.Detail = token
			return sig
		}
	}

	ua := strings.ToLower(userAgent)
	for _, indicator := range headlessIndicators {
		if strings.Contains(ua, indicator) {
			sig.Matched = true
			sig.Score = 90
			sig.Reason = "headless_browser"
			sig.Detail = indicator
			return sig
		}
	}

	if len(userAgent) < minUserAgentLength || len(userAgent) > maxUserAgentLength {
		sig.Matched = true
		sig.Score = 60
		sig.Reason = "suspicious_ua_length"
		return sig
	}

	return sig
}
