package botdetect

import (
	"context"
	"strings"

	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
)

func analyzeASN(ctx context.Context, resolver geoip.Resolver, ip string) Signal {
	sig := Signal{Kind: KindASN}

	res := resolver.Resolve(ctx, ip)
	if !res.Resolved() {
		sig.Reason = "lookup_unavailable"
		return sig
	}

	if CrawlerASNs[res.ASN] {
		sig.Matched = true
		sig.Score = 95
		sig.Reason = "crawler_asn"
		sig.Detail = res.ASN
		return sig
	}

	org := strings.ToLower(res.Org)
	for _, keyword := range crawlerOrgKeywords {
		if strings.Contains(org, keyword) {
			sig.Matched = true
			sig.Score = 85
			sig.Reason = "crawler_org"
			sig.Detail = res.Org
			return sig
		}
	}

	return sig
}
