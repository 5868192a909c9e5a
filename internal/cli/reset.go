package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the persisted snapshot",
		Long: `Delete the persisted snapshot. The next server start falls back to the
seed. A running server keeps its in-memory state; use POST
/api/v1/admin/reset-state for that.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			adapter, err := s.requireAdapter()
			if err != nil {
				return err
			}
			if err := adapter.Reset(cmd.Context()); err != nil {
				return err
			}
			return s.out.Success(map[string]string{"backend": adapter.Name()}, func(w io.Writer) {
				fmt.Fprintf(w, "Cleared persisted snapshot in %s\n", adapter.Name())
			})
		},
	}
}
