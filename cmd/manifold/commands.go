package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/normanking/manifold/pkg/adapter"
	"github.com/normanking/manifold/pkg/health"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("manifold v%s\n", version)
		},
	}
}

func adaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List registered adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildRegistry()
			if err != nil {
				return err
			}

			names := registry.Names()
			if len(names) == 0 {
				fmt.Println("no adapters registered")
				return nil
			}

			for _, name := range names {
				a, _ := registry.Adapter(name)
				info := a.Info()
				fmt.Printf("%s  %s\n", styleName.Render(name), styleDim.Render("v"+info.Version))
				if info.Description != "" {
					fmt.Printf("    %s\n", info.Description)
				}
				fmt.Printf("    %s %d\n", styleDim.Render("capabilities:"), a.Features().Len())
			}
			return nil
		},
	}
}

func capabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities <adapter>",
		Short: "List the capabilities of an adapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildRegistry()
			if err != nil {
				return err
			}

			a, ok := registry.Adapter(args[0])
			if !ok {
				return fmt.Errorf("adapter %q is not registered", args[0])
			}

			for cap := range a.Features().Capabilities() {
				if cap.IsExtension() {
					fmt.Printf("%s %s\n", styleName.Render(cap.ID()), styleDim.Render("(extension)"))
				} else {
					fmt.Println(styleName.Render(cap.ID()))
				}
			}
			return nil
		},
	}
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <adapter> <capability>",
		Short: "Resolve a capability for a caller and show the outcome",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildRegistry()
			if err != nil {
				return err
			}
			authz, closeStore, err := buildPolicy()
			if err != nil {
				return err
			}
			defer closeStore()

			resolver := adapter.NewResolver(registry, authz, log)
			cc := newCallContext()

			cap := capabilityByID(registry, args[0], args[1])
			result, err := resolver.Resolve(cmd.Context(), cc, args[0], cap)
			if err != nil {
				return err
			}

			fmt.Printf("adapter resolved:  %s\n", renderBool(result.AdapterResolved()))
			fmt.Printf("feature resolved:  %s\n", renderBool(result.FeatureResolved()))
			fmt.Printf("authorized:        %s\n", renderBool(result.Authorized()))
			if result.ExtensionFeature() {
				fmt.Printf("%s\n", styleDim.Render("resolved feature is an extension capability"))
			}
			fmt.Printf("%s %s\n", styleDim.Render("correlation:"), cc.CorrelationID())
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health [adapter...]",
		Short: "Run a health sweep over all or selected adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := buildRegistry()
			if err != nil {
				return err
			}

			names := args
			if len(names) == 0 {
				names = registry.Names()
			}

			cc := newCallContext()
			for _, name := range names {
				a, ok := registry.Adapter(name)
				if !ok {
					return fmt.Errorf("adapter %q is not registered", name)
				}
				result, err := adapter.AdapterHealth(cmd.Context(), cc, a)
				if err != nil {
					return err
				}
				printHealth(result, 0)
			}
			return nil
		},
	}
}

func grantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <principal> <adapter> <capability>",
		Short: "Grant a principal access to a capability (store policy only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *policyStore) error {
				return store.AddGrant(ctx, grantFromArgs(args))
			})
		},
	}
}

func revokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <principal> <adapter> <capability>",
		Short: "Revoke a previously granted capability (store policy only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *policyStore) error {
				return store.RemoveGrant(ctx, grantFromArgs(args))
			})
		},
	}
}

func apikeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage principal API keys (store policy only)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <principal> <key>",
		Short: "Set (or rotate) a principal's API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *policyStore) error {
				return store.SetAPIKey(ctx, args[0], args[1])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "verify <principal> <key>",
		Short: "Verify a principal's API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, store *policyStore) error {
				if err := store.VerifyAPIKey(ctx, args[0], args[1]); err != nil {
					return err
				}
				fmt.Println(styleHealthy.Render("key valid"))
				return nil
			})
		},
	})
	return cmd
}

// capabilityByID finds the capability descriptor with the given ID in the
// adapter's collection, so extensions resolve with their extension class.
// Unknown IDs fall back to a core descriptor, which resolves feature-absent.
func capabilityByID(registry adapter.Registry, adapterName, id string) adapter.Capability {
	if a, ok := registry.Adapter(adapterName); ok {
		for cap := range a.Features().Capabilities() {
			if cap.ID() == id {
				return cap
			}
		}
	}
	return adapter.NewCapability(id)
}

func printHealth(r health.Result, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s", indent, renderStatus(r.Status), styleName.Render(r.Name))
	if r.Description != "" {
		fmt.Printf("  %s", styleDim.Render(r.Description))
	}
	fmt.Println()
	for _, key := range r.DataKeys() {
		fmt.Printf("%s  %s\n", indent, styleDim.Render(key+"="+r.Data[key]))
	}
	for _, child := range r.Children {
		printHealth(child, depth+1)
	}
}
