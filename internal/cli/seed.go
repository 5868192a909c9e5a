package cli

import (
	"fmt"
	"io"

	"coown-backend/internal/infrastructure/seed"

	"github.com/spf13/cobra"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Save the seed snapshot to the configured backend",
		Long: `Overwrite the persisted snapshot with the seed catalogue (SEED_FILE,
or the embedded one).`,
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
			snap, err := seed.Load(s.cfg.SeedFile)
			if err != nil {
				return err
			}
			if err := adapter.Save(cmd.Context(), snap); err != nil {
				return err
			}
			data := map[string]interface{}{"backend": adapter.Name(), "properties": len(snap.Properties), "reservations": len(snap.Reservations)}
			return s.out.Success(data, func(w io.Writer) {
				fmt.Fprintf(w, "Seeded %d properties into %s\n", len(snap.Properties), adapter.Name())
			})
		},
	}
}
