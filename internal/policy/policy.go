// Package policy provides authorization policies for the capability
// resolver: allow/deny null objects, a YAML rule policy for file-driven
// hosts, and a SQLite-backed grant store with API-key verification.
//
// Every policy keeps denial and evaluation failure apart: "no" is a value,
// an error means the policy could not be evaluated at all.
package policy

import (
	"context"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/callctx"
)

// PolicyError is a policy-layer error with a machine-readable code.
type PolicyError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *PolicyError) Error() string {
	return e.Message
}

// Common policy errors.
var (
	ErrUnknownPrincipal = &PolicyError{Code: "UNKNOWN_PRINCIPAL", Message: "principal not found"}
	ErrInvalidAPIKey    = &PolicyError{Code: "INVALID_API_KEY", Message: "invalid API key"}
	ErrInvalidEffect    = &PolicyError{Code: "INVALID_EFFECT", Message: "rule effect must be \"allow\" or \"deny\""}
)

// AllowAll authorizes every request. Intended for development hosts and
// tests.
type AllowAll struct{}

// Authorize implements adapter.AuthorizationPolicy.
func (AllowAll) Authorize(context.Context, *callctx.Context, adapter.Adapter, adapter.Capability) (bool, error) {
	return true, nil
}

// DenyAll denies every request.
type DenyAll struct{}

// Authorize implements adapter.AuthorizationPolicy.
func (DenyAll) Authorize(context.Context, *callctx.Context, adapter.Adapter, adapter.Capability) (bool, error) {
	return false, nil
}

// subjectOf returns the rule-matchable subject for a call: the principal's
// subject, or "anonymous" for unauthenticated calls.
func subjectOf(cc *callctx.Context) string {
	if cc == nil || cc.Principal() == nil {
		return "anonymous"
	}
	return cc.Principal().Subject
}
