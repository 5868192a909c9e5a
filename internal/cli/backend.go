package cli

import (
	"context"
	"errors"

	"coown-backend/bootstrap"
	"coown-backend/internal/config"
	"coown-backend/internal/infrastructure/persistence"

	"github.com/spf13/cobra"
)

var ErrNoBackend = errors.New("no persistence backend configured (set PERSISTENCE_BACKEND)")

// session is one command's view of the configured backend.
type session struct {
	cfg       *config.Config
	resources bootstrap.Resources
	adapter   persistence.Adapter
	out       *OutputFormatter
}

func openSession(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, err
	}
	res, err := bootstrap.OpenResources(cfg)
	if err != nil {
		return nil, err
	}
	adapter, err := bootstrap.NewAdapter(ctx, cfg, res)
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	s := &session{
		cfg:       cfg,
		resources: res,
		adapter:   adapter,
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}
	if adapter != nil {
		s.out.VerboseLog("backend: %s", adapter.Name())
	} else {
		s.out.VerboseLog("backend: none")
	}
	return s, nil
}

func (s *session) requireAdapter() (persistence.Adapter, error) {
	if s.adapter == nil {
		return nil, ErrNoBackend
	}
	return s.adapter, nil
}

func (s *session) Close() error {
	return s.resources.Close()
}
