// Package callctx carries per-call state through adapter operations: the
// caller's identity, correlation metadata, locale, a concurrent property bag,
// and a handle for resolving ambient services.
//
// A Context is created once per inbound call and never reused across calls.
// Pipeline stages of the same call may touch it from different goroutines,
// so the item bag is safe for concurrent use.
package callctx

import (
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Principal is an authenticated caller identity.
type Principal struct {
	// Subject is the stable identifier of the caller (user name, client ID).
	Subject string `json:"subject"`
	// Roles holds the caller's role names, if any.
	Roles []string `json:"roles,omitempty"`
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Context carries the per-call state. Construct one with New for every
// inbound call; identifiers not supplied by the caller are generated so
// every call is traceable even without upstream instrumentation.
type Context struct {
	principal     *Principal
	connectionID  string
	correlationID string
	locale        language.Tag
	items         *Items
	services      ServiceResolver
}

// Option configures a Context during construction.
type Option func(*Context)

// WithPrincipal sets the authenticated caller. A nil principal leaves the
// call anonymous.
func WithPrincipal(p *Principal) Option {
	return func(c *Context) { c.principal = p }
}

// WithConnectionID sets the caller-supplied connection identifier.
func WithConnectionID(id string) Option {
	return func(c *Context) {
		if id != "" {
			c.connectionID = id
		}
	}
}

// WithCorrelationID sets the caller-supplied correlation identifier.
func WithCorrelationID(id string) Option {
	return func(c *Context) {
		if id != "" {
			c.correlationID = id
		}
	}
}

// WithLocale sets the caller's locale.
func WithLocale(tag language.Tag) Option {
	return func(c *Context) {
		if tag != language.Und {
			c.locale = tag
		}
	}
}

// WithServices sets the ambient service resolver. A nil resolver is replaced
// by one that resolves nothing, so downstream code never nil-checks the
// handle itself, only its lookup results.
func WithServices(r ServiceResolver) Option {
	return func(c *Context) {
		if r != nil {
			c.services = r
		}
	}
}

// New creates a call context. Connection and correlation identifiers default
// to fresh UUIDs, the locale defaults to the ambient system locale, and the
// service resolver defaults to one that resolves nothing.
func New(opts ...Option) *Context {
	c := &Context{
		locale:   systemLocale(),
		items:    NewItems(),
		services: nopResolver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.connectionID == "" {
		c.connectionID = uuid.New().String()
	}
	if c.correlationID == "" {
		c.correlationID = uuid.New().String()
	}
	return c
}

// Principal returns the authenticated caller, or nil for anonymous calls.
func (c *Context) Principal() *Principal { return c.principal }

// IsAuthenticated reports whether the call carries a caller identity.
func (c *Context) IsAuthenticated() bool { return c.principal != nil }

// ConnectionID returns the connection identifier for this call.
func (c *Context) ConnectionID() string { return c.connectionID }

// CorrelationID returns the correlation identifier for this call.
func (c *Context) CorrelationID() string { return c.correlationID }

// Locale returns the caller's locale.
func (c *Context) Locale() language.Tag { return c.locale }

// Items returns the per-call property bag.
func (c *Context) Items() *Items { return c.items }

// Services returns the ambient service resolver. Never nil.
func (c *Context) Services() ServiceResolver { return c.services }

// systemLocale derives the ambient locale from the environment, falling back
// to English when nothing usable is set.
func systemLocale() language.Tag {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		// Strip encoding suffixes like ".UTF-8".
		if i := strings.IndexByte(v, '.'); i > 0 {
			v = v[:i]
		}
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return language.English
}
