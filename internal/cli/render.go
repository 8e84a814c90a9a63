package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cartsync"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/product"
)

// Response is the JSON shape of every command's output.
type Response struct {
	Status        string                  `json:"status"`
	Data          any                     `json:"data,omitempty"`
	Notifications []cartsync.Notification `json:"notifications,omitempty"`
}

func (o *output) writeJSON(data any) error {
	enc := json.NewEncoder(o.cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(Response{Status: "ok", Data: data, Notifications: o.notifications()})
}

func (o *output) products(list []product.Product) error {
	if o.format == "json" {
		return o.writeJSON(list)
	}
	w := tabwriter.NewWriter(o.cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, money.IDR(p.Price))
	}
	return w.Flush()
}

func (o *output) snapshot(s cartsync.Snapshot) error {
	if o.format == "json" {
		return o.writeJSON(s)
	}
	out := o.cmd.OutOrStdout()
	if len(s.Lines) == 0 {
		fmt.Fprintln(out, "Keranjang kosong")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
	for _, l := range s.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Product.Name, l.Quantity, money.IDR(l.Product.Price), money.IDR(l.Subtotal()))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return totals(out, s)
}

func totals(w io.Writer, s cartsync.Snapshot) error {
	_, err := fmt.Fprintf(w, "\nItems: %d\nTotal: %s\n", s.TotalItems, money.IDR(s.TotalAmount))
	return err
}

func (o *output) order(ord checkout.Order) error {
	if o.format == "json" {
		return o.writeJSON(ord)
	}
	out := o.cmd.OutOrStdout()
	fmt.Fprintf(out, "Order %s (%s)\n", ord.ID, ord.Status)
	fmt.Fprintf(out, "%s, meja %d\n", ord.CustomerName, ord.TableNumber)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, it := range ord.Items {
		fmt.Fprintf(w, "%s\tx%d\t%s\n", it.ProductName, it.Quantity, money.IDR(it.Subtotal))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "Total: %s\n", money.IDR(ord.TotalAmount))
	return err
}

func (o *output) text(format string, args ...any) error {
	_, err := fmt.Fprintf(o.cmd.OutOrStdout(), format, args...)
	return err
}
