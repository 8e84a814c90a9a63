package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cartsync"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

// app is what one command invocation needs: the session, the service
// clients and the output.
type app struct {
	log      *logrus.Logger
	sessions *session.Provider
	carts    *clients.CartClient
	catalog  *clients.CatalogClient
	orders   *clients.OrderClient
	out      *output
}

func newApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log := logging.NewText(cmd.ErrOrStderr(), level)

	storage := opts.storage
	if storage == nil {
		path := opts.SessionFile
		if path == "" {
			var err error
			if path, err = session.DefaultPath(); err != nil {
				return nil, fmt.Errorf("locate session file: %w", err)
			}
		}
		storage = session.NewFileStorage(path)
	}

	// Cart reconciliation runs without a deadline; only one-shot catalog
	// and order calls are bounded.
	syncClient, callClient := opts.httpClient, opts.httpClient
	if syncClient == nil {
		syncClient = clients.NewHTTPClient(0)
		callClient = clients.NewHTTPClient(10 * time.Second)
	}
	syncBase, err := clients.NewClient("storefront-service", opts.API, syncClient)
	if err != nil {
		return nil, err
	}
	base, err := clients.NewClient("storefront-service", opts.API, callClient)
	if err != nil {
		return nil, err
	}

	return &app{
		log:      log,
		sessions: session.NewProvider(storage),
		carts:    clients.NewCartClient(syncBase, log),
		catalog:  clients.NewCatalogClient(base),
		orders:   clients.NewOrderClient(base),
		out:      newOutput(cmd, opts.Format),
	}, nil
}

// withEngine runs fn against a freshly loaded engine for the current
// session, waits for every reconciliation to settle and returns the final
// snapshot.
func (a *app) withEngine(ctx context.Context, fn func(e *cartsync.Engine) error) (cartsync.Snapshot, error) {
	sid, err := a.sessions.SessionID()
	if err != nil {
		return cartsync.Snapshot{}, err
	}

	e := cartsync.New(sid, a.carts, a.log, cartsync.WithNotifier(a.out))
	defer e.Close()

	e.Load(ctx)
	if err := fn(e); err != nil {
		return e.Snapshot(), err
	}
	e.Wait()
	return e.Snapshot(), nil
}

// output renders results as text or JSON. It also collects the engine's
// notifications; in text mode they go to stderr as they arrive.
type output struct {
	cmd    *cobra.Command
	format string

	mu    sync.Mutex
	notes []cartsync.Notification
}

func newOutput(cmd *cobra.Command, format string) *output {
	return &output{cmd: cmd, format: format}
}

func (o *output) Notify(n cartsync.Notification) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.notes = append(o.notes, n)
	if o.format == "text" {
		mark := "+"
		if n.Level == cartsync.LevelError {
			mark = "!"
		}
		fmt.Fprintf(o.cmd.ErrOrStderr(), "%s %s: %s\n", mark, n.Title, n.Message)
	}
}

func (o *output) notifications() []cartsync.Notification {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]cartsync.Notification(nil), o.notes...)
}
