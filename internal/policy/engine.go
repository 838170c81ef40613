package policy

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/ashureev/saleswizz/internal/domain"
	"github.com/google/cel-go/cel"
)

// Engine evaluates the access rules. Programs are compiled once at
// construction and immutable afterwards, so Decide is safe for concurrent
// use and needs no locking.
type Engine struct {
	rules    []Rule
	programs []cel.Program
	logger   *slog.Logger
}

// NewEngine compiles the default corporate rules.
func NewEngine(logger *slog.Logger) (*Engine, error) {
	return NewEngineWithRules(DefaultRules(), logger)
}

// NewEngineWithRules compiles a custom ordered rule set.
func NewEngineWithRules(rules []Rule, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	env, err := cel.NewEnv(
		cel.Variable("identity", cel.DynType),
		cel.Variable("request", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	programs := make([]cel.Program, 0, len(rules))
	for _, rule := range rules {
		ast, issues := env.Compile(rule.Expression)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("compile rule %s: %w", rule.Name, issues.Err())
		}
		// Cost limit guards against runaway expressions in custom rule sets.
		prog, err := env.Program(ast, cel.CostLimit(1_000_000))
		if err != nil {
			return nil, fmt.Errorf("program for rule %s: %w", rule.Name, err)
		}
		programs = append(programs, prog)
	}

	return &Engine{rules: rules, programs: programs, logger: logger}, nil
}

// Rules returns the ordered rule set the engine was built with.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// Decide evaluates one requested scope against the identity. It is pure and
// total: malformed input and evaluation failures resolve to DENY, never to
// a panic or a default allow.
func (e *Engine) Decide(identity domain.Identity, req Request) Decision {
	if !req.OwnRegion && !req.Region.Valid() {
		e.logger.Warn("policy request with invalid region, failing closed",
			"region", string(req.Region))
		return Decision{
			Allowed: false,
			Reason:  fmt.Sprintf("%v: %q", domain.ErrInvalidRegion, string(req.Region)),
			Rule:    "invalid-request",
		}
	}

	activation := map[string]any{
		"identity": map[string]any{
			"role":            string(identity.Role),
			"region":          string(identity.Region),
			"employment_type": string(identity.EmploymentType),
			"contractor":      identity.IsContractor(),
		},
		"request": map[string]any{
			"region":     string(req.Region),
			"own_region": req.OwnRegion,
		},
	}

	for i, prog := range e.programs {
		rule := e.rules[i]
		out, _, err := prog.Eval(activation)
		if err != nil {
			e.logger.Warn("policy rule evaluation failed, failing closed",
				"rule", rule.Name, "error", err)
			return Decision{Allowed: false, Reason: DefaultDenyReason, Rule: rule.Name}
		}

		matched, ok := out.Value().(bool)
		if !ok || !matched {
			continue
		}

		return e.apply(rule, identity, req)
	}

	return Decision{Allowed: false, Reason: DefaultDenyReason, Rule: "default-deny"}
}

func (e *Engine) apply(rule Rule, identity domain.Identity, req Request) Decision {
	switch rule.Effect {
	case EffectAllowAll:
		return Decision{Allowed: true, Scope: domain.Regions(), Reason: rule.Reason, Rule: rule.Name}
	case EffectAllowOwn:
		// An own-region grant is only meaningful when the identity has a
		// well-formed region of its own.
		if !identity.Region.Valid() {
			e.logger.Warn("own-region grant for identity with invalid region, failing closed",
				"rule", rule.Name, "region", string(identity.Region))
			return Decision{Allowed: false, Reason: DefaultDenyReason, Rule: rule.Name}
		}
		return Decision{Allowed: true, Scope: []domain.Region{identity.Region}, Reason: rule.Reason, Rule: rule.Name}
	default:
		return Decision{Allowed: false, Reason: rule.Reason, Rule: rule.Name}
	}
}

// Evaluation aggregates per-request decisions for one question.
type Evaluation struct {
	// Granted is the union of allowed scopes, in canonical region order.
	Granted []domain.Region
	// Denied holds the decisions for refused sub-requests. Their portions
	// of the answer are omitted, not merely caveated.
	Denied []Decision
	// Decisions holds every decision in request order.
	Decisions []Decision
}

// Evaluate decomposes a multi-region question: each sub-request is decided
// independently and the granted scopes are unioned.
func (e *Engine) Evaluate(identity domain.Identity, requests []Request) Evaluation {
	var ev Evaluation
	granted := make(map[domain.Region]bool)

	for _, req := range requests {
		d := e.Decide(identity, req)
		ev.Decisions = append(ev.Decisions, d)
		if !d.Allowed {
			ev.Denied = append(ev.Denied, d)
			continue
		}
		for _, region := range d.Scope {
			granted[region] = true
		}
	}

	for _, region := range domain.Regions() {
		if granted[region] {
			ev.Granted = append(ev.Granted, region)
		}
	}
	return ev
}
