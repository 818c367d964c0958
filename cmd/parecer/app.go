package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/internal/config"
	"github.com/goliatone/go-parecer/internal/logging"
	"github.com/goliatone/go-parecer/pkg/backup"
	"github.com/goliatone/go-parecer/pkg/draft"
	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/report"
	"github.com/goliatone/go-parecer/pkg/session"
)

// app holds what the commands share once the configuration is loaded.
type app struct {
	configPath string

	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
	// driver replaces the survey prompts when set.
	driver session.PromptDriver
	// logWriter receives log output; nil means stderr.
	logWriter io.Writer

	cfg    *config.Config
	logger *zap.Logger
}

func newApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	w := a.logWriter
	if w == nil {
		w = a.stderr
	}
	logger, err := logging.NewWithWriter(cfg.Logging, w)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = logging.Sync(a.logger)
	}
}

func (a *app) generator() (*generator.Generator, error) {
	required, err := a.cfg.RequiredFields()
	if err != nil {
		return nil, err
	}
	return generator.New(
		generator.WithLogger(a.logger.Named("generator")),
		generator.WithDefaultCity(a.cfg.Render.DefaultCity),
		generator.WithRequiredFields(required...),
		generator.WithImageOptions(a.cfg.ImageOptions()),
		generator.WithDefaultFormats(a.cfg.Render.Formats...),
		generator.WithClock(a.now),
	), nil
}

func (a *app) draftStore() *draft.Store {
	return draft.New(a.cfg.Paths.Draft)
}

// loadRecord reads the backup at path, or the draft when path is empty.
func (a *app) loadRecord(backupPath string) (*report.Record, error) {
	var (
		rec *report.Record
		err error
	)
	if backupPath != "" {
		rec, err = readBackup(backupPath)
	} else {
		rec, err = a.draftStore().Load()
	}
	if err != nil {
		return nil, err
	}

	policy, err := a.cfg.DeselectPolicy()
	if err != nil {
		return nil, err
	}
	rec.SetDeselectPolicy(policy)
	return rec, nil
}

func readBackup(path string) (*report.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parecer: open backup: %w", err)
	}
	defer f.Close()
	return backup.Read(f)
}

func writeBackup(path string, rec *report.Record) error {
	data, err := backup.Export(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("parecer: write backup: %w", err)
	}
	return nil
}

func (a *app) writeArtifacts(dir string, artifacts []generator.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("parecer: create output dir: %w", err)
	}
	paths := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		path := filepath.Join(dir, artifact.FileName)
		if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
			return nil, fmt.Errorf("parecer: write %s: %w", artifact.Format, err)
		}
		a.logger.Debug("artifact written", zap.String("path", path), zap.Int("bytes", len(artifact.Data)))
		paths = append(paths, path)
	}
	return paths, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parecer: invalid --date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}
