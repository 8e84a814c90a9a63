package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cartsync"
)

func newCartCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			snap, err := a.withEngine(cmd.Context(), func(e *cartsync.Engine) error { return nil })
			if err != nil {
				return err
			}
			return a.out.snapshot(snap)
		},
	}
}

func newAddCommand(rootOpts *RootOptions) *cobra.Command {
	var qty int

	cmd := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			p, err := a.catalog.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			snap, err := a.withEngine(cmd.Context(), func(e *cartsync.Engine) error {
				_, err := e.Add(p, qty)
				return err
			})
			if err != nil {
				return err
			}
			return a.out.snapshot(snap)
		},
	}

	cmd.Flags().IntVarP(&qty, "qty", "q", 1, "quantity to add")
	return cmd
}

func newSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <line-id|product-id> <qty>",
		Short: "Change the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			snap, err := a.withEngine(cmd.Context(), func(e *cartsync.Engine) error {
				l, err := findLine(e.Snapshot(), args[0])
				if err != nil {
					return err
				}
				e.SetQuantity(l.ID, qty)
				return nil
			})
			if err != nil {
				return err
			}
			return a.out.snapshot(snap)
		},
	}
}

func newRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id|product-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			snap, err := a.withEngine(cmd.Context(), func(e *cartsync.Engine) error {
				l, err := findLine(e.Snapshot(), args[0])
				if err != nil {
					return err
				}
				e.Remove(l.ID)
				return nil
			})
			if err != nil {
				return err
			}
			return a.out.snapshot(snap)
		},
	}
}

// findLine accepts a line id or the id of the product on the line.
func findLine(s cartsync.Snapshot, ref string) (cartsync.Line, error) {
	for _, l := range s.Lines {
		if l.ID.String() == ref {
			return l, nil
		}
	}
	if l, ok := s.LineForProduct(ref); ok {
		return l, nil
	}
	return cartsync.Line{}, fmt.Errorf("no cart line %q", ref)
}
