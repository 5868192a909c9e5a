package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"coown-backend/bootstrap"
	"coown-backend/internal/application/analytics"

	"github.com/spf13/cobra"
)

const defaultTop = 10

// Report is the JSON payload of `demandctl report`.
type Report struct {
	Source     string `json:"source"`
	Properties int    `json:"properties"`
	Events     int    `json:"events"`
	analytics.Dashboard
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print KPI, funnel, regions and the priority board",
		Long: `Load the persisted snapshot (or the seed when nothing usable is stored)
and print the analytics the dashboard shows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top <= 0 {
				return fmt.Errorf("--top must be positive, got %d", top)
			}
			return runReport(rootOpts, cmd, top)
		},
	}
	cmd.Flags().IntVar(&top, "top", defaultTop, "number of priority board rows")
	return cmd
}

func runReport(opts *RootOptions, cmd *cobra.Command, top int) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, opts, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, source, err := bootstrap.InitialSnapshot(ctx, s.adapter, s.cfg.SeedFile)
	if err != nil {
		return err
	}
	s.out.VerboseLog("snapshot source: %s", source)

	report := Report{
		Source:     source,
		Properties: len(snap.Properties),
		Events:     len(snap.DemandEvents),
		Dashboard:  analytics.BuildDashboard(snap, top),
	}
	return s.out.Success(report, func(w io.Writer) { writeReport(w, report) })
}

func writeReport(w io.Writer, r Report) {
	fmt.Fprintf(w, "Snapshot: %s (%d properties, %d events)\n\n", r.Source, r.Properties, r.Events)

	k := r.Kpi
	fmt.Fprintln(w, "KPI")
	fmt.Fprintf(w, "  total intent         %.0f\n", k.TotalIntent)
	fmt.Fprintf(w, "  unique participants  %d\n", k.UniqueParticipants)
	fmt.Fprintf(w, "  goal met             %d\n", k.VotingMetCount)
	fmt.Fprintf(w, "  offer success rate   %.1f%%\n", k.OfferSuccessRate)
	fmt.Fprintf(w, "  fulfillment rate     %.1f%%\n\n", k.FulfillmentRate)

	f := r.Funnel
	fmt.Fprintln(w, "Funnel")
	fmt.Fprintf(w, "  VOTING_OPEN %d > VOTING_MET %d > PUBLIC_OFFER %d > TRADABLE %d\n\n",
		f.VotingOpen, f.VotingMet, f.PublicOffer, f.Tradable)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tPROPERTIES\tINTENT\tPARTICIPANTS\tHOTNESS")
	for _, rg := range r.Regions {
		fmt.Fprintf(tw, "%s\t%d\t%.0f\t%d\t%.2f\n", rg.RegionCode, rg.PropertyCount, rg.IntentTotal, rg.UniqueParticipants, rg.HotnessScore)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPROPERTY\tSTATUS\tCOVERAGE\tGROWTH_7D\tTOP5\tSCORE")
	for i, p := range r.PriorityBoard {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			i+1, p.Property.Name, p.Property.Status, p.Coverage, p.Growth7d, p.ConcentrationTop5, p.PriorityScore)
	}
	_ = tw.Flush()
}
