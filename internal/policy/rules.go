package policy

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
)

// Rule is one entry of a rules file. A field set to "*" matches anything;
// the principal "anonymous" matches unauthenticated calls.
type Rule struct {
	// Principal is the caller subject this rule applies to.
	Principal string `yaml:"principal"`
	// Adapter is the adapter name this rule applies to.
	Adapter string `yaml:"adapter"`
	// Capabilities lists capability IDs this rule applies to.
	Capabilities []string `yaml:"capabilities"`
	// Effect is "allow" or "deny".
	Effect string `yaml:"effect"`
}

// RulesDocument is the on-disk shape of a rules file.
type RulesDocument struct {
	// Default is the effect applied when no rule matches ("allow"/"deny").
	Default string `yaml:"default"`
	// Rules are evaluated top-down; the first match wins.
	Rules []Rule `yaml:"rules"`
}

// RulesPolicy authorizes requests against an ordered rule list. Evaluation
// is first-match-wins with a configurable default, so rule files read
// top-down like firewall lists.
type RulesPolicy struct {
	defaultAllow bool
	rules        []Rule
}

// NewRulesPolicy validates a document and builds a policy from it.
func NewRulesPolicy(doc RulesDocument) (*RulesPolicy, error) {
	defaultAllow, err := parseEffect(doc.Default)
	if err != nil {
		return nil, fmt.Errorf("default effect: %w", err)
	}
	for i, r := range doc.Rules {
		if _, err := parseEffect(r.Effect); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return &RulesPolicy{defaultAllow: defaultAllow, rules: doc.Rules}, nil
}

// LoadRulesFile reads and parses a YAML rules file.
func LoadRulesFile(path string) (*RulesPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var doc RulesDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return NewRulesPolicy(doc)
}

// Authorize implements adapter.AuthorizationPolicy.
func (p *RulesPolicy) Authorize(_ context.Context, cc *callctx.Context, a adapter.Adapter, cap adapter.Capability) (bool, error) {
	subject := subjectOf(cc)
	adapterName := a.Info().ID

	for _, r := range p.rules {
		if !match(r.Principal, subject) {
			continue
		}
		if !match(r.Adapter, adapterName) {
			continue
		}
		if !matchCapability(r.Capabilities, cap.ID()) {
			continue
		}
		allow, _ := parseEffect(r.Effect) // validated at construction
		return allow, nil
	}
	return p.defaultAllow, nil
}

func match(pattern, value string) bool {
	return pattern == "*" || pattern == value
}

func matchCapability(patterns []string, id string) bool {
	for _, p := range patterns {
		if match(p, id) {
			return true
		}
	}
	return false
}

func parseEffect(effect string) (bool, error) {
	switch strings.ToLower(effect) {
	case "allow":
		return true, nil
	case "deny", "":
		return false, nil
	default:
		return false, ErrInvalidEffect
	}
}
