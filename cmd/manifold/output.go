package main

import (
	"context"

	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/manifold/internal/policy"
	"github.com/normanking/manifold/pkg/health"
)

// policyStore aliases the grant store for the admin commands.
type policyStore = policy.Store

var (
	styleName      = lipgloss.NewStyle().Bold(true)
	styleDim       = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleHealthy   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleDegraded  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleUnhealthy = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func renderStatus(s health.Status) string {
	switch s {
	case health.StatusHealthy:
		return styleHealthy.Render("●")
	case health.StatusDegraded:
		return styleDegraded.Render("●")
	default:
		return styleUnhealthy.Render("●")
	}
}

func renderBool(b bool) string {
	if b {
		return styleHealthy.Render("yes")
	}
	return styleUnhealthy.Render("no")
}

// grantFromArgs maps the <principal> <adapter> <capability> argument triple
// onto a grant.
func grantFromArgs(args []string) policy.Grant {
	return policy.Grant{Principal: args[0], Adapter: args[1], Capability: args[2]}
}

// withStore opens the grant store, runs fn, and closes the store again. The
// admin commands require the "store" policy mode so they operate on the same
// database the resolver consults.
func withStore(ctx context.Context, fn func(context.Context, *policyStore) error) error {
	if cfg.Policy.Mode != "store" {
		return errStoreMode
	}
	store, db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, store)
}

var errStoreMode = &policy.PolicyError{
	Code:    "POLICY_MODE",
	Message: "this command requires policy mode \"store\" (set policy.mode in the config)",
}
