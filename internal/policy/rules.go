// Package policy implements the identity-aware access decision core.
//
// The corporate data-sharing rules are expressed as CEL predicates over the
// current identity and the requested scope, compiled once at engine
// construction and evaluated in order, first match wins. The decision is
// computed in-process before anything reaches the answer engine; the engine
// is conditioned by the rendered policy context but is never the enforcement
// point.
package policy

import "github.com/ashureev/saleswizz/internal/domain"

// Effect is what a matched rule grants or refuses.
type Effect int

const (
	// EffectDeny refuses the request.
	EffectDeny Effect = iota
	// EffectAllowOwn grants visibility into the identity's own region.
	EffectAllowOwn
	// EffectAllowAll grants visibility into every region.
	EffectAllowAll
)

// Rule is one ordered access rule. Expression is a CEL predicate over the
// `identity` and `request` activation variables.
type Rule struct {
	Name       string
	Expression string
	Effect     Effect
	Reason     string
}

// DefaultRules returns the corporate sales-data access policy. Order
// matters: the contractor lockout precedes every role grant, so a Director
// flagged as a contractor is still denied.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:       "contractor-lockout",
			Expression: `identity.contractor`,
			Effect:     EffectDeny,
			Reason:     "contractors are never granted data access",
		},
		{
			Name:       "director-global",
			Expression: `identity.role == "Director"`,
			Effect:     EffectAllowAll,
			Reason:     "directors have global access to sales data",
		},
		{
			Name:       "ae-own-region",
			Expression: `identity.role == "Account Executive" && (request.own_region || request.region == identity.region)`,
			Effect:     EffectAllowOwn,
			Reason:     "account executives may access their own region",
		},
		{
			Name:       "ae-cross-region",
			Expression: `identity.role == "Account Executive"`,
			Effect:     EffectDeny,
			Reason:     "cross-region access is not permitted; please refer to your manager",
		},
	}
}

// DefaultDenyReason is used when no rule matches.
const DefaultDenyReason = "your role is not authorized for sales data access; please refer to your manager"

// Request is one requested data scope, extracted from a question. A
// question spanning several regions decomposes into one Request per region.
type Request struct {
	// Region is the literally requested region. Ignored when OwnRegion.
	Region domain.Region
	// OwnRegion marks "my region" phrasing; it resolves to the identity's
	// own region, never to a literal region name.
	OwnRegion bool
}

// Decision is the outcome of evaluating one Request. Derived, never
// stored; recomputed per query.
type Decision struct {
	Allowed bool
	// Scope is the set of regions the decision grants visibility into:
	// empty, the identity's own region, or all regions.
	Scope  []domain.Region
	Reason string
	// Rule names the matched rule, for logs.
	Rule string
}
