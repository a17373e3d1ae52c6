package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"indoor-network/internal/app"
	"indoor-network/internal/config"
	"indoor-network/internal/database"
	"indoor-network/internal/logger"
	"indoor-network/internal/reference"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type globalOptions struct {
	referenceDir string
}

// errFailed marks a run that completed with a non-success status. The
// result has already been printed.
var errFailed = errors.New("run did not succeed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts globalOptions

	root := &cobra.Command{
		Use:           "netimport",
		Short:         "Import, reconcile and export the indoor network",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.referenceDir, "reference-dir", "",
		"Read IMDF reference collections from <Collection>.json files in this directory instead of MongoDB")

	root.AddCommand(
		newNetworkCmd(&opts),
		newPedestrianCmd(&opts),
		newExportCmd(&opts),
		newSchemaCmd(&opts),
	)
	return root
}

// env is everything a subcommand needs, opened from the process environment.
type env struct {
	cfg  *config.Config
	logr *logger.Logger
	db   *bun.DB
	refs reference.Store
	app  *app.App

	closeRefs func(context.Context) error
}

func openEnv(ctx context.Context, opts *globalOptions) (*env, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logr := logger.New(cfg)

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, logr: logr, db: db, closeRefs: func(context.Context) error { return nil }}
	if opts.referenceDir != "" {
		mem, err := reference.LoadDir(opts.referenceDir)
		if err != nil {
			db.Close()
			return nil, err
		}
		e.refs = mem
	} else {
		mongo, err := reference.Connect(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			db.Close()
			return nil, err
		}
		e.refs = mongo
		e.closeRefs = mongo.Close
	}

	e.app, err = app.New(db, e.refs, cfg, logr)
	if err != nil {
		e.Close(ctx)
		return nil, err
	}
	return e, nil
}

func (e *env) Close(ctx context.Context) {
	if err := e.closeRefs(ctx); err != nil {
		e.logr.Warn("reference store close failed", zap.Error(err))
	}
	_ = e.db.Close()
	e.logr.Sync()
}

// printResult writes v as indented JSON and turns a failed status into errFailed.
func printResult(w io.Writer, v interface{}, ok bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	if !ok {
		return errFailed
	}
	return nil
}
