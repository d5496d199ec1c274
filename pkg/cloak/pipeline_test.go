package cloak_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/edgecloak/edgecloak/pkg/cloak"
	"github.com/edgecloak/edgecloak/pkg/domain/accesslog"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
	"github.com/edgecloak/edgecloak/pkg/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chromeDesktopUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iphoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

type fakePolicyRepo struct {
	blocklists    *policy.Blocklists
	blocklistsErr error
}

func (f *fakePolicyRepo) GetByHostname(ctx context.Context, hostname string) (*policy.DomainPolicy, error) {
	return nil, policy.ErrPolicyNotFound
}

func (f *fakePolicyRepo) GetByID(ctx context.Context, id uuid.UUID) (*policy.DomainPolicy, error) {
	return nil, policy.ErrPolicyNotFound
}

func (f *fakePolicyRepo) GetBlocklists(ctx context.Context, policyID uuid.UUID) (*policy.Blocklists, error) {
	if f.blocklistsErr != nil {
		return nil, f.blocklistsErr
	}
	if f.blocklists == nil {
		return &policy.Blocklists{}, nil
	}
	return f.blocklists, nil
}

type stubResolver struct {
	result geoip.Result
	calls  int
}

func (s *stubResolver) Resolve(ctx context.Context, ip string) geoip.Result {
	s.calls++
	return s.result
}

type captureRecorder struct {
	entries []*accesslog.AccessLog
}

func (c *captureRecorder) Record(entry *accesslog.AccessLog) {
	c.entries = append(c.entries, entry)
}

func testPolicy() *policy.DomainPolicy {
	return &policy.DomainPolicy{
		ID:                uuid.New(),
		Hostname:          "promo.example.com",
		TargetURL:         "https://offer.example.net/landing",
		IsActive:          true,
		DefaultContentRef: "default",
	}
}

func testRequest() *types.RequestContext {
	return &types.RequestContext{
		ClientIP:  "203.0.113.10",
		UserAgent: chromeDesktopUA,
		Query:     url.Values{},
		Headers:   map[string]string{},
	}
}

func newTestPipeline(repo *fakePolicyRepo, resolver *stubResolver, rec *captureRecorder) *cloak.Pipeline {
	return cloak.NewPipeline(logrus.New(), repo, resolver, rec, "gclid")
}

func TestPipeline_RedirectsCleanVisitor(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{
		Status:  geoip.StatusResolved,
		Country: "US",
		State:   "California",
		ASN:     "AS7922",
		Org:     "Comcast Cable",
	}}
	rec := &captureRecorder{}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, rec)

	decision, err := p.Classify(context.Background(), testPolicy(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
	assert.Equal(t, "https://offer.example.net/landing", decision.RedirectURL)
	assert.Equal(t, "US", decision.Country)
	assert.Equal(t, "California", decision.State)
	assert.Equal(t, "AS7922", decision.ASN)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "redirected", rec.entries[0].Action)
	assert.Equal(t, "203.0.113.10", rec.entries[0].IPAddress)
}

func TestPipeline_InactiveDomainBlocksBeforeAnythingElse(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	rec := &captureRecorder{}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, rec)

	pol := testPolicy()
	pol.IsActive = false
	pol.LockdownMode = true
	pol.LockdownContentRef = "maintenance"

	decision, err := p.Classify(context.Background(), pol, testRequest())
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeBlocked, decision.Outcome)
	assert.Equal(t, types.BlockDomainInactive, decision.BlockReason)
	assert.Equal(t, "default", decision.ContentRef)
	assert.Zero(t, resolver.calls, "inactive domains must not trigger lookups")
}

func TestPipeline_LockdownSupersedesAllOtherChecks(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	rec := &captureRecorder{}
	repo := &fakePolicyRepo{blocklistsErr: errors.New("db down")}
	p := newTestPipeline(repo, resolver, rec)

	pol := testPolicy()
	pol.LockdownMode = true
	pol.LockdownContentRef = "maintenance"
	pol.RequireClickID = true
	pol.MobileOnly = true

	decision, err := p.Classify(context.Background(), pol, testRequest())
	require.NoError(t, err)

	assert.Equal(t, types.BlockLockdownMode, decision.BlockReason)
	assert.Equal(t, "maintenance", decision.ContentRef)
	assert.Zero(t, resolver.calls)
}

func TestPipeline_LockdownFallsBackToDefaultContent(t *testing.T) {
	p := newTestPipeline(&fakePolicyRepo{}, &stubResolver{}, &captureRecorder{})

	pol := testPolicy()
	pol.LockdownMode = true
	pol.LockdownContentRef = ""

	decision, err := p.Classify(context.Background(), pol, testRequest())
	require.NoError(t, err)
	assert.Equal(t, "default", decision.ContentRef)
}

func TestPipeline_MissingClickID(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	rec := &captureRecorder{}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, rec)

	pol := testPolicy()
	pol.RequireClickID = true

	t.Run("blocks without the parameter", func(t *testing.T) {
		decision, err := p.Classify(context.Background(), pol, testRequest())
		require.NoError(t, err)
		assert.Equal(t, types.BlockMissingClickID, decision.BlockReason)
	})

	t.Run("passes with the parameter", func(t *testing.T) {
		req := testRequest()
		req.Query.Set("gclid", "abc123")
		decision, err := p.Classify(context.Background(), pol, req)
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
	})
}

func TestPipeline_MobileOnly(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, &captureRecorder{})

	pol := testPolicy()
	pol.MobileOnly = true

	t.Run("blocks desktop", func(t *testing.T) {
		decision, err := p.Classify(context.Background(), pol, testRequest())
		require.NoError(t, err)
		assert.Equal(t, types.BlockNotMobile, decision.BlockReason)
	})

	t.Run("passes phone", func(t *testing.T) {
		req := testRequest()
		req.UserAgent = iphoneUA
		decision, err := p.Classify(context.Background(), pol, req)
		require.NoError(t, err)
		assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
	})
}

func TestPipeline_BlocklistOrdering(t *testing.T) {
	pol := testPolicy()
	pol.BlockDatacenterIPs = true
	pol.BlockCommonNetworks = true

	blocked := &policy.Blocklists{
		IPs:       []policy.IpBlock{{Address: "203.0.113.10"}},
		Countries: []policy.CountryBlock{{CountryCode: "DE"}},
		States:    []policy.StateBlock{{CountryCode: "US", StateCode: "Nevada"}},
		ASNs:      []policy.AsnBlock{{ASN: "AS64500"}},
	}

	tests := []struct {
		name   string
		geo    geoip.Result
		req    func() *types.RequestContext
		reason types.BlockReason
	}{
		{
			name: "ip block wins over country block",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "DE"},
			req:  testRequest,
			reason: types.BlockIPBlocked,
		},
		{
			name: "country block",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "DE"},
			req: func() *types.RequestContext {
				r := testRequest()
				r.ClientIP = "198.51.100.7"
				return r
			},
			reason: types.BlockCountryBlocked,
		},
		{
			name: "state block",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "US", State: "Nevada"},
			req: func() *types.RequestContext {
				r := testRequest()
				r.ClientIP = "198.51.100.7"
				return r
			},
			reason: types.BlockStateBlocked,
		},
		{
			name: "datacenter org",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "US", State: "Oregon", Org: "Amazon AWS", ASN: "AS16509"},
			req: func() *types.RequestContext {
				r := testRequest()
				r.ClientIP = "198.51.100.7"
				return r
			},
			reason: types.BlockPingableIP,
		},
		{
			name: "common network asn",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "US", State: "Oregon", Org: "Example Carrier", ASN: "AS13335"},
			req: func() *types.RequestContext {
				r := testRequest()
				r.ClientIP = "198.51.100.7"
				return r
			},
			reason: types.BlockCommonASN,
		},
		{
			name: "custom asn",
			geo:  geoip.Result{Status: geoip.StatusResolved, Country: "US", State: "Oregon", Org: "Example Carrier", ASN: "AS64500"},
			req: func() *types.RequestContext {
				r := testRequest()
				r.ClientIP = "198.51.100.7"
				return r
			},
			reason: types.BlockASNBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(&fakePolicyRepo{blocklists: blocked}, &stubResolver{result: tt.geo}, &captureRecorder{})
			decision, err := p.Classify(context.Background(), pol, tt.req())
			require.NoError(t, err)
			assert.Equal(t, types.OutcomeBlocked, decision.Outcome)
			assert.Equal(t, tt.reason, decision.BlockReason)
		})
	}
}

func TestPipeline_FailsOpenWhenResolverUnavailable(t *testing.T) {
	pol := testPolicy()
	pol.BlockDatacenterIPs = true
	pol.BlockCommonNetworks = true

	blocked := &policy.Blocklists{
		Countries: []policy.CountryBlock{{CountryCode: "DE"}},
		ASNs:      []policy.AsnBlock{{ASN: "AS64500"}},
	}
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusUnavailable}}
	rec := &captureRecorder{}
	p := newTestPipeline(&fakePolicyRepo{blocklists: blocked}, resolver, rec)

	decision, err := p.Classify(context.Background(), pol, testRequest())
	require.NoError(t, err)

	assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
	assert.Equal(t, "Unknown", decision.Country)
	assert.Equal(t, "Unknown", decision.State)
	assert.Equal(t, "Unknown", decision.ASN)
}

func TestPipeline_CountryHintUsedWhenLookupFails(t *testing.T) {
	blocked := &policy.Blocklists{
		Countries: []policy.CountryBlock{{CountryCode: "DE"}},
	}
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusUnavailable}}
	p := newTestPipeline(&fakePolicyRepo{blocklists: blocked}, resolver, &captureRecorder{})

	req := testRequest()
	req.CountryHint = "DE"

	decision, err := p.Classify(context.Background(), testPolicy(), req)
	require.NoError(t, err)
	assert.Equal(t, types.BlockCountryBlocked, decision.BlockReason)
}

func TestPipeline_HintPreferredOverLookupCountry(t *testing.T) {
	blocked := &policy.Blocklists{
		Countries: []policy.CountryBlock{{CountryCode: "FR"}},
	}
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved, Country: "FR"}}
	p := newTestPipeline(&fakePolicyRepo{blocklists: blocked}, resolver, &captureRecorder{})

	req := testRequest()
	req.CountryHint = "US"

	decision, err := p.Classify(context.Background(), testPolicy(), req)
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
}

func TestPipeline_BlocklistReadFailureIsFatal(t *testing.T) {
	repo := &fakePolicyRepo{blocklistsErr: errors.New("db down")}
	rec := &captureRecorder{}
	p := newTestPipeline(repo, &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}, rec)

	decision, err := p.Classify(context.Background(), testPolicy(), testRequest())
	require.Error(t, err)
	assert.Nil(t, decision)
	assert.Empty(t, rec.entries)
}

func TestPipeline_PassQueryParamsMergesIntoTarget(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, &captureRecorder{})

	pol := testPolicy()
	pol.TargetURL = "https://offer.example.net/landing?src=default"
	pol.PassQueryParams = true

	req := testRequest()
	req.Query.Set("gclid", "abc123")
	req.Query.Set("src", "ads")

	decision, err := p.Classify(context.Background(), pol, req)
	require.NoError(t, err)

	u, err := url.Parse(decision.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "abc123", u.Query().Get("gclid"))
	assert.Equal(t, "ads", u.Query().Get("src"), "inbound value overrides target default")
}

func TestPipeline_InspectDoesNotRecord(t *testing.T) {
	resolver := &stubResolver{result: geoip.Result{Status: geoip.StatusResolved}}
	rec := &captureRecorder{}
	p := newTestPipeline(&fakePolicyRepo{}, resolver, rec)

	decision, err := p.Inspect(context.Background(), testPolicy(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, types.OutcomeRedirected, decision.Outcome)
	assert.Empty(t, rec.entries)
}

func TestIsMobileUserAgent(t *testing.T) {
	assert.True(t, cloak.IsMobileUserAgent(iphoneUA))
	assert.False(t, cloak.IsMobileUserAgent(chromeDesktopUA))
	assert.False(t, cloak.IsMobileUserAgent(""))
}
