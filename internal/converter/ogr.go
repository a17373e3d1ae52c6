package converter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoadRequest loads a vector dataset into a PostGIS holding table.
type LoadRequest struct {
	Source       string
	Layer        string // optional; required for geodatabases
	Table        string
	GeometryType string
	TargetSRS    string
}

// ExportRequest writes the result of a SQL query to a file.
type ExportRequest struct {
	Driver          string
	Output          string
	SQL             string
	CreationOptions []string
	TargetSRS       string
}

// Converter is the external tool that moves data between files and PostGIS.
type Converter interface {
	Load(ctx context.Context, req LoadRequest) error
	Export(ctx context.Context, req ExportRequest) error
}

// Error carries the tool's diagnostics for a failed invocation.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("ogr2ogr failed: %v", e.Err)
	}
	return fmt.Sprintf("ogr2ogr failed: %v: %s", e.Err, msg)
}

func (e *Error) Unwrap() error { return e.Err }

type Ogr2Ogr struct {
	path    string
	pgConn  string
	timeout time.Duration
	logr    *zap.Logger
}

func NewOgr2Ogr(path, pgConn string, timeout time.Duration, logr *zap.Logger) *Ogr2Ogr {
	return &Ogr2Ogr{path: path, pgConn: pgConn, timeout: timeout, logr: logr}
}

// LoadArgs builds the command line for a load; the table is overwritten.
func (o *Ogr2Ogr) LoadArgs(req LoadRequest) []string {
	args := []string{
		"-f", "PostgreSQL",
		o.pgConn,
		req.Source,
	}
	if req.Layer != "" {
		args = append(args, req.Layer)
	}
	args = append(args,
		"-nln", req.Table,
		"-nlt", req.GeometryType,
		"-lco", "GEOMETRY_NAME=shape",
		"-t_srs", req.TargetSRS,
		"-overwrite",
	)
	return args
}

// ExportArgs builds the command line for an export.
func (o *Ogr2Ogr) ExportArgs(req ExportRequest) []string {
	args := []string{
		"-f", req.Driver,
		req.Output,
		o.pgConn,
		"-sql", req.SQL,
	}
	for _, opt := range req.CreationOptions {
		args = append(args, "-lco", opt)
	}
	if req.TargetSRS != "" {
		args = append(args, "-t_srs", req.TargetSRS)
	}
	return args
}

func (o *Ogr2Ogr) Load(ctx context.Context, req LoadRequest) error {
	return o.run(ctx, o.LoadArgs(req))
}

func (o *Ogr2Ogr) Export(ctx context.Context, req ExportRequest) error {
	return o.run(ctx, o.ExportArgs(req), "PGCLIENTENCODING=UTF8", "SHAPE_ENCODING=UTF-8")
}

func (o *Ogr2Ogr) run(ctx context.Context, args []string, env ...string) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, o.path, args...)
	cmd.Env = append(os.Environ(), env...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	o.logr.Info("ogr2ogr finished",
		zap.Strings("args", MaskArgs(args)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	if err != nil {
		return &Error{Args: MaskArgs(args), Stderr: stderr.String(), Err: err}
	}
	return nil
}

var passwordPattern = regexp.MustCompile(`password=\S+`)

// MaskArgs hides connection passwords before arguments are logged or returned.
func MaskArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = passwordPattern.ReplaceAllString(a, "password=***")
	}
	return out
}
