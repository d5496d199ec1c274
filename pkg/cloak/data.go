package cloak

// datacenterKeywords flag hosting/VPN/proxy infrastructure in a resolved
// organization or reverse hostname.
var datacenterKeywords = []string{
	"hosting", "datacenter", "cloud", "server", "vpn", "proxy",
	"amazon", "aws", "google", "azure", "digitalocean", "linode",
	"ovh", "hetzner", "vultr",
}

// CommonNetworkASNs are well-known scraper/datacenter autonomous systems
// blocked when a policy enables the common-network check.
var CommonNetworkASNs = map[string]bool{
	"AS15169":  true, // Google
	"AS16509":  true, // Amazon AWS
	"AS14618":  true, // Amazon AWS
	"AS13335":  true, // Cloudflare
	"AS8075":   true, // Microsoft Azure
	"AS32934":  true, // Facebook
	"AS396982": true, // Google Cloud
	"AS45102":  true, // Alibaba
	"AS14061":  true, // DigitalOcean
	"AS20473":  true, // Choopa/Vultr
	"AS63949":  true, // Linode
	"AS24940":  true, // Hetzner
	"AS16276":  true, // OVH
	"AS12876":  true, // Online SAS
	"AS51167":  true, // Contabo
	"AS62567":  true, // DigitalOcean
	"AS54113":  true, // Fastly
	"AS19551":  true, // Incapsula
	"AS209242": true, // Cloudflare
	"AS394536": true, // Cloudflare
}
