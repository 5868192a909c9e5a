package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"coown-backend/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:                "test",
		PersistenceBackend: config.BackendDatabase,
		DatabaseURL:        "sqlite:" + filepath.Join(t.TempDir(), "demand.db"),
		SnapshotKey:        "cli-test",
		PersistTimeout:     time.Second,
	}
}

func newRoot(cfg *config.Config) *cobra.Command {
	return NewRootCommandWith(&RootOptions{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
	})
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := newRoot(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "demandctl", cmd.Use)
	for _, name := range []string{"report", "seed", "reset"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("format").DefValue)

	report, _, _ := cmd.Find([]string{"report"})
	assert.Equal(t, "10", report.Flags().Lookup("top").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, sqliteConfig(t), "report", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestReportFallsBackToSeed(t *testing.T) {
	out, err := execute(t, sqliteConfig(t), "report", "--format", "json", "--top", "3")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Source        string        `json:"source"`
			Properties    int           `json:"properties"`
			PriorityBoard []interface{} `json:"priority_board"`
			Funnel        struct {
				VotingOpen int `json:"voting_open"`
			} `json:"funnel"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "seed", resp.Data.Source)
	assert.Equal(t, 36, resp.Data.Properties)
	assert.Len(t, resp.Data.PriorityBoard, 3)
	assert.Positive(t, resp.Data.Funnel.VotingOpen)
}

func TestSeedReportReset(t *testing.T) {
	cfg := sqliteConfig(t)

	out, err := execute(t, cfg, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 36 properties into database")

	out, err = execute(t, cfg, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot: database (36 properties")
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "KR-서울")

	out, err = execute(t, cfg, "reset", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"ok","data":{"backend":"database"}}`, out)

	out, err = execute(t, cfg, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Snapshot: seed")
}

func TestSeedNeedsBackend(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.PersistenceBackend = config.BackendNone

	_, err := execute(t, cfg, "seed")
	assert.ErrorIs(t, err, ErrNoBackend)
	_, err = execute(t, cfg, "reset")
	assert.ErrorIs(t, err, ErrNoBackend)
}

func TestReportRejectsNonPositiveTop(t *testing.T) {
	_, err := execute(t, sqliteConfig(t), "report", "--top", "0")
	assert.Error(t, err)
}
