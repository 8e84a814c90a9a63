package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCommand(rootOpts *RootOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show the guest session id",
		Long: `Show the guest session id this client uses. With --reset a new id is
created; the cart stored under the old id is no longer reachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, rootOpts)
			if err != nil {
				return err
			}
			if reset {
				if err := a.sessions.Clear(); err != nil {
					return err
				}
			}
			sid, err := a.sessions.SessionID()
			if err != nil {
				return err
			}
			if rootOpts.Format == "json" {
				return a.out.writeJSON(map[string]string{"session_id": sid})
			}
			return a.out.text("%s\n", sid)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "forget the current id and create a new one")
	return cmd
}
