package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/dto"
)

func newCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name  string
		phone string
		table int
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for everything in the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			if table < 1 {
				return errors.New("--table must be at least 1")
			}
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			sid, err := a.sessions.SessionID()
			if err != nil {
				return err
			}

			req := dto.CheckoutRequest{CustomerName: name, TableNumber: table}
			if phone != "" {
				req.CustomerPhone = &phone
			}
			order, err := a.orders.Checkout(cmd.Context(), sid, req)
			if err != nil {
				return err
			}
			return a.out.order(order)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "customer phone (optional)")
	cmd.Flags().IntVar(&table, "table", 0, "table number")
	return cmd
}
