package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"Gallerist/internal/cli/bootstrap"
	"Gallerist/internal/config"
	"Gallerist/internal/media"
)

// mediaStore собирает media store из конфигурации; в тестах подменяется.
var mediaStore = media.FromConfig

type sweepCmd struct{}

func (sweepCmd) Name() string { return "sweep-orphans" }
func (sweepCmd) Description() string {
	return "Delete stored images no gallery item references"
}
func (sweepCmd) Usage() string { return "sweep-orphans [--dry-run]" }

func (sweepCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("sweep-orphans", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	dryRun := fs.Bool("dry-run", false, "only report orphans")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}

	store, err := mediaStore(cfg)
	if err != nil {
		return err
	}
	db, closeDB, err := bootstrap.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	svc := bootstrap.NewReconcileService(db, store, cfg, bootstrap.Logger())
	report, err := svc.Sweep(ctx, *dryRun)
	if err != nil {
		return err
	}

	fmt.Fprintf(Out, "Scanned %d objects: %d referenced, %d too young, %d orphaned\n",
		report.Scanned, report.Referenced, report.Young, len(report.Orphans))
	if *dryRun {
		for _, h := range report.Orphans {
			fmt.Fprintf(Out, "  orphan %s\n", h)
		}
		return nil
	}
	for _, h := range report.Deleted {
		fmt.Fprintf(Out, "  deleted %s\n", h)
	}
	for _, h := range report.Failed {
		fmt.Fprintf(Out, "  failed %s\n", h)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d orphans could not be deleted", len(report.Failed))
	}
	return nil
}

func init() { RegisterCmd(sweepCmd{}) }
