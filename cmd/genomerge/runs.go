package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/genomerge/internal/duckdb"
	"github.com/inodb/genomerge/internal/merge"
)

func (a *app) newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List merge runs recorded in the history store",
		Long: `List merge runs recorded in the DuckDB history store (--db or store.path).
The INPUTS column reports whether both input files still match the size and
modification time captured when the run was recorded.`,
		Example: `  genomerge runs --db history.duckdb
  genomerge runs show <id>
  genomerge runs show <id> --rsid rs4477212
  genomerge runs clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(a.listRuns)
		},
	}

	var rsid string
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show bucket counts and classified markers of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *duckdb.Store) error {
				if rsid != "" {
					return a.showCall(s, args[0], rsid)
				}
				return a.showRun(s, args[0])
			})
		},
	}
	showCmd.Flags().StringVar(&rsid, "rsid", "", "Show the merged call of one marker")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(s *duckdb.Store) error {
				if err := s.ClearRuns(); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Cleared run history in %s\n", a.v.GetString("store.path"))
				return nil
			})
		},
	}

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}

// withStore opens the configured history store for the duration of fn.
func (a *app) withStore(fn func(s *duckdb.Store) error) error {
	path := a.v.GetString("store.path")
	if path == "" {
		return &UsageError{Message: "no history store configured (use --db or set store.path)"}
	}

	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func (a *app) listRuns(s *duckdb.Store) error {
	runs, err := s.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.stdout, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPRIMARY\tSECONDARY\tOUTPUT\tSNPS\tORIENTATION\tINPUTS")
	for _, r := range runs {
		orientation := "-"
		if r.OrientationIssue {
			orientation = r.Pattern
		}
		inputs := "changed"
		if r.Primary.Matches() && r.Secondary.Matches() {
			inputs = "unchanged"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s (%s)\t%s (%s)\t%s\t%d\t%s\t%s\n",
			r.ID, r.Created.Format("2006-01-02 15:04:05"),
			r.Primary.Path, r.PrimaryFormat,
			r.Secondary.Path, r.SecondaryFormat,
			r.OutputPath, r.TotalMarkers, orientation, inputs)
	}
	return tw.Flush()
}

// findRun returns the stored run with the given id.
func findRun(s *duckdb.Store, id string) (duckdb.Run, error) {
	runs, err := s.ListRuns()
	if err != nil {
		return duckdb.Run{}, err
	}
	for _, r := range runs {
		if r.ID == id {
			return r, nil
		}
	}
	return duckdb.Run{}, fmt.Errorf("run %q not found", id)
}

func (a *app) showRun(s *duckdb.Store, id string) error {
	run, err := findRun(s, id)
	if err != nil {
		return err
	}
	counts, err := s.BucketCounts(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Run %s (%s)\n", run.ID, run.Created.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(a.stdout, "- Primary: %s (%s)\n", run.Primary.Path, run.PrimaryFormat)
	fmt.Fprintf(a.stdout, "- Secondary: %s (%s)\n", run.Secondary.Path, run.SecondaryFormat)
	fmt.Fprintf(a.stdout, "- Output: %s\n", run.OutputPath)
	fmt.Fprintf(a.stdout, "- Total SNPs: %d\n", run.TotalMarkers)
	for _, b := range merge.ReportBuckets {
		fmt.Fprintf(a.stdout, "- %s: %d\n", b, counts[b])
	}

	for _, b := range merge.ReportBuckets {
		if counts[b] == 0 {
			continue
		}
		entries, err := s.Classifications(id, b)
		if err != nil {
			return err
		}

		fmt.Fprintf(a.stdout, "\n%s\n", b)
		tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RSID\tCHROM\tPOS\tPRIMARY\tSECONDARY\tCHOSEN")
		for _, c := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				c.ID, c.Chrom, c.Pos, c.Primary, c.Secondary, c.Chosen)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) showCall(s *duckdb.Store, id, rsid string) error {
	if _, err := findRun(s, id); err != nil {
		return err
	}
	m, ok, err := s.LookupCall(id, rsid)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("marker %s not found in run %s", rsid, id)
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RSID\tCHROM\tPOS\tGENOTYPE\tSOURCE\tBUCKET")
	fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
		m.ID, m.Chrom, m.Pos, m.Genotype, m.Provenance, m.Bucket)
	return tw.Flush()
}
