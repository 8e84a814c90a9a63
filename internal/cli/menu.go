package cli

import (
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

func newMenuCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the products that can be ordered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}

			var filter *product.Category
			if category != "" {
				c, err := product.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = &c
			}

			list, err := a.catalog.ListProducts(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return a.out.products(list)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show makanan or minuman")
	return cmd
}
