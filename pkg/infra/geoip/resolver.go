package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/edgecloak/edgecloak/pkg/infra/prometheus"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

type Status string

const (
	// StatusResolved means the lookup produced usable data.
	StatusResolved Status = "resolved"
	// StatusUnavailable means the lookup failed or timed out. Callers must
	// treat it as "no match" for whatever they were checking (fail open).
	StatusUnavailable Status = "unavailable"
)

// Result is the outcome of one IP-intelligence lookup. ASN is normalized to
// the "AS15169" form; Org is the operator name without the ASN prefix.
type Result struct {
	Status   Status `json:"status"`
	IP       string `json:"ip"`
	Country  string `json:"country"`
	State    string `json:"state"`
	ASN      string `json:"asn"`
	Org      string `json:"org"`
	Hostname string `json:"hostname"`
}

func (r Result) Resolved() bool {
	return r.Status == StatusResolved
}

// Resolver maps an IP to geo/ASN data. Resolve never returns an error: on
// failure it yields an unavailable Result so every caller fails open.
type Resolver interface {
	Resolve(ctx context.Context, ip string) Result
}

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

type ipinfoResolver struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string
	timeout time.Duration
	cache   *expirable.LRU[string, Result]
	breaker *gobreaker.CircuitBreaker
}

func NewIPInfoResolver(logger *logrus.Logger, cfg Config) Resolver {
	settings := gobreaker.Settings{
		Name:        "geoip_lookup",
		MaxRequests: 5,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 10
		},
	}
	return &ipinfoResolver{
		logger:  logger,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		cache:   expirable.NewLRU[string, Result](cfg.CacheSize, nil, cfg.CacheTTL),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (r *ipinfoResolver) Resolve(ctx context.Context, ip string) Result {
	if ip == "" {
		return Result{Status: StatusUnavailable}
	}

	if cached, ok := r.cache.Get(ip); ok {
		prometheus.ResolverLookupTotal.WithLabelValues("cache_hit").Inc()
		return cached
	}

	res, err := r.breaker.Execute(func() (interface{}, error) {
		return r.lookup(ctx, ip)
	})
	if err != nil {
		r.logger.WithError(err).WithField("ip", ip).Debug("geoip lookup failed")
		prometheus.ResolverLookupTotal.WithLabelValues("unavailable").Inc()
		return Result{Status: StatusUnavailable, IP: ip}
	}

	result, ok := res.(Result)
	if !ok {
		return Result{Status: StatusUnavailable, IP: ip}
	}

	// Only resolved results are cached; a transient failure should not
	// poison an IP for the full TTL.
	r.cache.Add(ip, result)
	prometheus.ResolverLookupTotal.WithLabelValues("resolved").Inc()
	return result
}

type ipinfoResponse struct {
	Country  string `json:"country"`
	Region   string `json:"region"`
	Org      string `json:"org"`
	Hostname string `json:"hostname"`
}

func (r *ipinfoResolver) lookup(ctx context.Context, ip string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/%s/json", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read lookup response: %w", err)
	}

	var payload ipinfoResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Result{}, fmt.Errorf("failed to parse lookup response: %w", err)
	}

	asn, org := splitOrg(payload.Org)

	return Result{
		Status:   StatusResolved,
		IP:       ip,
		Country:  payload.Country,
		State:    payload.Region,
		ASN:      asn,
		Org:      org,
		Hostname: payload.Hostname,
	}, nil
}

// splitOrg separates "AS15169 Google LLC" into its ASN and operator name.
func splitOrg(org string) (string, string) {
	org = strings.TrimSpace(org)
	if org == "" {
		return "", ""
	}
	parts := strings.SplitN(org, " ", 2)
	if !strings.HasPrefix(parts[0], "AS") {
		return "", org
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
