package cloak

import (
	"context"
	"strings"

	"github.com/avct/uasurfer"
	"github.com/edgecloak/edgecloak/pkg/domain/accesslog"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
	"github.com/edgecloak/edgecloak/pkg/infra/prometheus"
	"github.com/edgecloak/edgecloak/pkg/types"
	"github.com/sirupsen/logrus"
)

const unknownField = "Unknown"

// Classifier turns one request into exactly one AccessDecision.
type Classifier interface {
	// Classify evaluates the policy rules, records the decision in the
	// access log and returns it. The only error path is a blocklist read
	// failure, which is fatal for the request.
	Classify(ctx context.Context, pol *policy.DomainPolicy, req *types.RequestContext) (*types.AccessDecision, error)
	// Inspect is Classify without the access-log side effect, used by the
	// debug endpoint to show what the classifier sees.
	Inspect(ctx context.Context, pol *policy.DomainPolicy, req *types.RequestContext) (*types.AccessDecision, error)
}

// evalContext accumulates per-request state as the rule chain advances.
type evalContext struct {
	policy     *policy.DomainPolicy
	req        *types.RequestContext
	blocklists *policy.Blocklists
	geo        geoip.Result
	country    string
	state      string
}

func (ec *evalContext) block(reason types.BlockReason, contentRef string) *types.AccessDecision {
	asn := unknownField
	if ec.geo.Resolved() && ec.geo.ASN != "" {
		asn = ec.geo.ASN
	}
	return &types.AccessDecision{
		Outcome:     types.OutcomeBlocked,
		BlockReason: reason,
		ContentRef:  contentRef,
		Country:     ec.country,
		State:       ec.state,
		ASN:         asn,
	}
}

// rule returns a terminal decision or nil to pass to the next check.
type rule func(*evalContext) *types.AccessDecision

type Pipeline struct {
	logger       *logrus.Logger
	policies     policy.Repository
	resolver     geoip.Resolver
	recorder     accesslog.Recorder
	clickIDParam string
	preGeoRules  []rule
	geoRules     []rule
}

func NewPipeline(
	logger *logrus.Logger,
	policies policy.Repository,
	resolver geoip.Resolver,
	recorder accesslog.Recorder,
	clickIDParam string,
) *Pipeline {
	p := &Pipeline{
		logger:       logger,
		policies:     policies,
		resolver:     resolver,
		recorder:     recorder,
		clickIDParam: clickIDParam,
	}
	// Fixed evaluation order, first match wins. The split marks where geo
	// resolution and blocklist reads happen: lockdown and the other cheap
	// checks must short-circuit before any lookup.
	p.preGeoRules = []rule{
		p.checkActive,
		p.checkLockdown,
		p.checkClickID,
		p.checkDeviceType,
	}
	p.geoRules = []rule{
		p.checkIPBlock,
		p.checkCountryBlock,
		p.checkStateBlock,
		p.checkDatacenterIP,
		p.checkCommonNetwork,
		p.checkCustomASN,
	}
	return p
}

func (p *Pipeline) Classify(
	ctx context.Context,
	pol *policy.DomainPolicy,
	req *types.RequestContext,
) (*types.AccessDecision, error) {
	decision, err := p.evaluate(ctx, pol, req)
	if err != nil {
		return nil, err
	}

	p.record(pol, req, decision)
	prometheus.DecisionTotal.WithLabelValues(string(decision.Outcome), string(decision.BlockReason)).Inc()

	return decision, nil
}

func (p *Pipeline) Inspect(
	ctx context.Context,
	pol *policy.DomainPolicy,
	req *types.RequestContext,
) (*types.AccessDecision, error) {
	return p.evaluate(ctx, pol, req)
}

func (p *Pipeline) evaluate(
	ctx context.Context,
	pol *policy.DomainPolicy,
	req *types.RequestContext,
) (*types.AccessDecision, error) {
	ec := &evalContext{
		policy:  pol,
		req:     req,
		country: unknownField,
		state:   unknownField,
	}

	for _, check := range p.preGeoRules {
		if decision := check(ec); decision != nil {
			return decision, nil
		}
	}

	p.resolveGeo(ctx, ec)

	blocklists, err := p.policies.GetBlocklists(ctx, pol.ID)
	if err != nil {
		return nil, err
	}
	ec.blocklists = blocklists

	for _, check := range p.geoRules {
		if decision := check(ec); decision != nil {
			return decision, nil
		}
	}

	return p.pass(ec), nil
}

// resolveGeo fills country/state from the edge hint and the external lookup.
// Resolution failure leaves both fields "Unknown" and never blocks.
func (p *Pipeline) resolveGeo(ctx context.Context, ec *evalContext) {
	ec.geo = p.resolver.Resolve(ctx, ec.req.ClientIP)

	if ec.req.CountryHint != "" {
		ec.country = ec.req.CountryHint
	} else if ec.geo.Resolved() && ec.geo.Country != "" {
		ec.country = ec.geo.Country
	}

	if ec.geo.Resolved() && ec.geo.State != "" {
		ec.state = ec.geo.State
	}
}

func (p *Pipeline) checkActive(ec *evalContext) *types.AccessDecision {
	if ec.policy.IsActive {
		return nil
	}
	return ec.block(types.BlockDomainInactive, ec.policy.DefaultContentRef)
}

// checkLockdown supersedes every remaining check: an operator enabling
// lockdown must see it take effect unconditionally.
func (p *Pipeline) checkLockdown(ec *evalContext) *types.AccessDecision {
	if !ec.policy.LockdownMode {
		return nil
	}
	return ec.block(types.BlockLockdownMode, ec.policy.LockdownContent())
}

func (p *Pipeline) checkClickID(ec *evalContext) *types.AccessDecision {
	if !ec.policy.RequireClickID {
		return nil
	}
	if ec.req.Query.Get(p.clickIDParam) != "" {
		return nil
	}
	return ec.block(types.BlockMissingClickID, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkDeviceType(ec *evalContext) *types.AccessDecision {
	if !ec.policy.MobileOnly {
		return nil
	}
	if IsMobileUserAgent(ec.req.UserAgent) {
		return nil
	}
	return ec.block(types.BlockNotMobile, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkIPBlock(ec *evalContext) *types.AccessDecision {
	if !ec.blocklists.HasIP(ec.req.ClientIP) {
		return nil
	}
	return ec.block(types.BlockIPBlocked, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkCountryBlock(ec *evalContext) *types.AccessDecision {
	if ec.country == unknownField || !ec.blocklists.HasCountry(ec.country) {
		return nil
	}
	return ec.block(types.BlockCountryBlocked, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkStateBlock(ec *evalContext) *types.AccessDecision {
	if ec.country == unknownField || ec.state == unknownField {
		return nil
	}
	if !ec.blocklists.HasState(ec.country, ec.state) {
		return nil
	}
	return ec.block(types.BlockStateBlocked, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkDatacenterIP(ec *evalContext) *types.AccessDecision {
	if !ec.policy.BlockDatacenterIPs || !ec.geo.Resolved() {
		return nil
	}
	org := strings.ToLower(ec.geo.Org)
	host := strings.ToLower(ec.geo.Hostname)
	for _, keyword := range datacenterKeywords {
		if strings.Contains(org, keyword) || strings.Contains(host, keyword) {
			return ec.block(types.BlockPingableIP, ec.policy.DefaultContentRef)
		}
	}
	return nil
}

func (p *Pipeline) checkCommonNetwork(ec *evalContext) *types.AccessDecision {
	if !ec.policy.BlockCommonNetworks || !ec.geo.Resolved() {
		return nil
	}
	if !CommonNetworkASNs[ec.geo.ASN] {
		return nil
	}
	return ec.block(types.BlockCommonASN, ec.policy.DefaultContentRef)
}

func (p *Pipeline) checkCustomASN(ec *evalContext) *types.AccessDecision {
	if !ec.geo.Resolved() || ec.geo.ASN == "" {
		return nil
	}
	if !ec.blocklists.HasASN(ec.geo.ASN) {
		return nil
	}
	return ec.block(types.BlockASNBlocked, ec.policy.DefaultContentRef)
}

func (p *Pipeline) pass(ec *evalContext) *types.AccessDecision {
	targetURL := ec.policy.TargetURL
	if ec.policy.PassQueryParams && len(ec.req.Query) > 0 {
		merged, err := MergeRedirectURL(targetURL, ec.req.Query)
		if err != nil {
			p.logger.WithError(err).WithField("policy_id", ec.policy.ID).
				Warn("failed to merge query params into target url")
		} else {
			targetURL = merged
		}
	}

	asn := unknownField
	if ec.geo.Resolved() && ec.geo.ASN != "" {
		asn = ec.geo.ASN
	}

	return &types.AccessDecision{
		Outcome:     types.OutcomeRedirected,
		RedirectURL: targetURL,
		Country:     ec.country,
		State:       ec.state,
		ASN:         asn,
	}
}

func (p *Pipeline) record(pol *policy.DomainPolicy, req *types.RequestContext, decision *types.AccessDecision) {
	p.recorder.Record(&accesslog.AccessLog{
		PolicyID:  pol.ID,
		IPAddress: req.ClientIP,
		UserAgent: req.UserAgent,
		Country:   decision.Country,
		State:     decision.State,
		ASN:       decision.ASN,
		Action:    decision.Action(),
	})
}

// IsMobileUserAgent reports whether the agent is a phone or a mobile OS.
func IsMobileUserAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}
	ua := uasurfer.Parse(userAgent)
	if ua.DeviceType == uasurfer.DevicePhone {
		return true
	}
	return ua.OS.Name == uasurfer.OSiOS || ua.OS.Name == uasurfer.OSAndroid
}
