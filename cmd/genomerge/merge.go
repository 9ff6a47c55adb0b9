package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/genomerge/internal/duckdb"
	"github.com/inodb/genomerge/internal/merge"
	"github.com/inodb/genomerge/internal/output"
	"github.com/inodb/genomerge/internal/rawdata"
)

type mergeOptions struct {
	primary   string
	secondary string
	output    string
	storePath string
	summary   bool
	atomic    bool
}

// summaryPath returns the path of the YAML run summary for outputPath.
func summaryPath(outputPath string) string {
	return outputPath + ".summary.yaml"
}

func (a *app) runMerge(opts mergeOptions) error {
	for _, p := range []string{opts.primary, opts.secondary} {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return &MissingInputError{Path: p}
		}
	}

	reader := rawdata.NewReader()
	reader.SetLogger(a.logger)

	var primary, secondary *rawdata.Result
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		primary, err = a.load(reader, "primary", opts.primary)
		return err
	})
	g.Go(func() error {
		var err error
		secondary, err = a.load(reader, "secondary", opts.secondary)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	resolver := merge.NewResolver()
	resolver.SetLogger(a.logger)
	res := resolver.Merge(primary.Records, secondary.Records)
	a.logger.Info("merged inputs",
		zap.Int("overlap", res.Overlap),
		zap.Int("total", len(res.Merged)))

	info := &output.RunInfo{
		PrimaryPath:      opts.primary,
		SecondaryPath:    opts.secondary,
		OutputPath:       opts.output,
		PrimaryFormat:    primary.Format,
		SecondaryFormat:  secondary.Format,
		PrimaryBanner:    primary.Banner(),
		SecondaryBanner:  secondary.Banner(),
		PrimaryRecords:   len(primary.Records),
		SecondaryRecords: len(secondary.Records),
		PrimarySkipped:   primary.SkipCount(),
		SecondarySkipped: secondary.SkipCount(),
		Generated:        a.now(),
		Result:           res,
	}

	reports, err := output.WriteAll(info, opts.atomic)
	if err != nil {
		return err
	}

	if opts.summary {
		path := summaryPath(opts.output)
		err := output.WriteFile(path, opts.atomic, func(w io.Writer) error {
			return output.WriteSummaryYAML(w, output.NewSummary(info))
		})
		if err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		a.logger.Debug("wrote summary", zap.String("path", path))
	}

	if opts.storePath != "" {
		if err := a.recordRun(opts.storePath, info); err != nil {
			return err
		}
	}

	output.WriteConsoleReport(a.stdout, info, reports)
	return nil
}

// load parses one input file and logs what was found.
func (a *app) load(reader *rawdata.Reader, role, path string) (*rawdata.Result, error) {
	a.logger.Info("parsing "+role+" file", zap.String("path", path))
	res, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Info("detected format",
		zap.String("role", role),
		zap.String("format", string(res.Format)),
		zap.Int("snps", len(res.Records)))
	return res, nil
}

// recordRun appends the run to the DuckDB history store at path.
func (a *app) recordRun(path string, info *output.RunInfo) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	primaryFP, err := duckdb.StatFile(info.PrimaryPath)
	if err != nil {
		return err
	}
	secondaryFP, err := duckdb.StatFile(info.SecondaryPath)
	if err != nil {
		return err
	}

	id, err := store.RecordRun(duckdb.Run{
		Created:         info.Generated,
		Primary:         primaryFP,
		PrimaryFormat:   string(info.PrimaryFormat),
		Secondary:       secondaryFP,
		SecondaryFormat: string(info.SecondaryFormat),
		OutputPath:      info.OutputPath,
	}, info.Result)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	a.logger.Info("recorded run", zap.String("id", id), zap.String("store", path))
	return nil
}
