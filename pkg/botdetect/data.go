package botdetect

// CrawlerUserAgents are tokens used by crawler and ad-review agents. Matched
// case-sensitively against the raw user agent, the way the agents send them.
var CrawlerUserAgents = []string{
	"AdsBot-Google",
	"AdsBot-Google-Mobile",
	"Mediapartners-Google",
	"Google-AMPHTML",
	"Googlebot",
	"Googlebot-Image",
	"Googlebot-News",
	"Googlebot-Video",
	"APIs-Google",
	"Google-InspectionTool",
	"GoogleOther",
	"Google-Extended",
	"Google-Safety",
}

// headlessIndicators mark browser-automation frameworks; matched against the
// lowercased user agent.
var headlessIndicators = []string{
	"headless",
	"phantom",
	"selenium",
	"webdriver",
	"puppeteer",
	"playwright",
}

// CrawlerASNs are autonomous systems operated by crawler and ad-review
// infrastructure.
var CrawlerASNs = map[string]bool{
	"AS15169":  true, // Google LLC (primary)
	"AS16550":  true, // Google Private Cloud
	"AS19527":  true,
	"AS36040":  true,
	"AS36384":  true,
	"AS36385":  true,
	"AS36492":  true,
	"AS41264":  true,
	"AS43515":  true,
	"AS396982": true,
	"AS139190": true, // Asia
	"AS45566":  true, // APAC
	"AS55023":  true, // Google Cloud
}

// crawlerOrgKeywords match operator names when the ASN itself is not listed.
var crawlerOrgKeywords = []string{
	"google",
}

// automationHeaders only appear on automated clients.
var automationHeaders = []string{
	"X-Requested-With",
	"X-Devtools-Emulate-Network-Conditions-Client-Id",
}
