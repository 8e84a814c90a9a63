package cli

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	API         string
	Format      string // "json" | "text"
	Verbose     bool
	SessionFile string

	// Tests swap these in; nil means file storage and the default client.
	storage    session.Storage
	httpClient *http.Client
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the cartctl command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Browse the menu and manage your cart",
		Long: `cartctl is a terminal storefront. Every change is applied to the local
cart at once and then synchronized with the storefront service.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.API, "api", config.API(), "storefront service base URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.SessionFile, "session-file", "", "where the guest session id is kept (default: user config dir)")

	cmd.AddCommand(newMenuCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newRemoveCommand(opts))
	cmd.AddCommand(newCheckoutCommand(opts))
	cmd.AddCommand(newSessionCommand(opts))

	return cmd
}
