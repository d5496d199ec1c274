package common

import "time"

const (
	HostPolicyCacheTTL = 24 * time.Hour
	TelemetryTTL       = 10 * time.Minute

	// Edge-network supplied headers, preferred over self-computed values.
	ConnectingIPHeader = "CF-Connecting-IP"
	CountryHintHeader  = "CF-IPCountry"
	BotScoreHeader     = "CF-Bot-Score"
	ForwardedForHeader = "X-Forwarded-For"
	RealIPHeader       = "X-Real-IP"

	// UnknownCountryHint is what the edge network sends when it could not
	// geolocate the client; treated the same as no hint at all.
	UnknownCountryHint = "XX"

	SystemPathPrefix = "/__/"
)
