package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/session"
)

func newEditCmd(a *app) *cobra.Command {
	var (
		backupPath string
		fresh      bool
	)
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the report interactively and render it",
		Long: `Edit loads the backup given with --backup, or the draft file, and walks
the form. Answers are saved to the draft even when the session is
interrupted, together with a backup that keeps the images. A completed
session also writes every configured output format.

Header prompts keep the current value on Enter; answer "-" to clear one.
--new starts from an empty form and overwrites the draft when saved.

Examples:
  parecer edit
  parecer edit --new
  parecer edit --backup backup_multi_imagens.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEdit(cmd, backupPath, fresh)
		},
	}
	cmd.Flags().StringVar(&backupPath, "backup", "", "start from this backup file instead of the draft")
	cmd.Flags().BoolVar(&fresh, "new", false, "discard the draft and start an empty form")
	cmd.MarkFlagsMutuallyExclusive("backup", "new")
	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, backupPath string, fresh bool) error {
	rec, err := a.loadRecord(backupPath)
	if err != nil {
		return err
	}
	if fresh {
		rec.Reset()
	}

	options := []session.Option{
		session.WithLogger(a.logger.Named("session")),
		session.WithDefaultCity(a.cfg.Render.DefaultCity),
	}
	if a.driver != nil {
		options = append(options, session.WithPromptDriver(a.driver))
	} else {
		options = append(options, session.WithPromptDriver(session.NewSurveyDriver(a.stdout)))
	}
	s := session.New(rec, options...)

	runErr := s.Run(cmd.Context())
	if err := a.draftStore().Save(rec); err != nil {
		return errors.Join(runErr, err)
	}
	aborted := errors.Is(runErr, session.ErrAborted)
	if runErr != nil && !aborted {
		return runErr
	}

	// The draft holds no images, so an interrupted session needs the backup
	// as well to keep them.
	if err := writeBackup(a.cfg.Paths.Backup, rec); err != nil {
		return errors.Join(runErr, err)
	}
	if aborted {
		fmt.Fprintf(a.stdout, "Rascunho salvo em %s\n", a.cfg.Paths.Draft)
		fmt.Fprintf(a.stdout, "Backup salvo em %s\n", a.cfg.Paths.Backup)
		return runErr
	}
	fmt.Fprintf(a.stdout, "Backup salvo em %s\n", a.cfg.Paths.Backup)

	gen, err := a.generator()
	if err != nil {
		return err
	}
	artifacts, err := gen.Generate(cmd.Context(), generator.Request{Record: rec})
	if err != nil {
		a.logger.Warn("outputs not generated", zap.String("session", s.ID()), zap.Error(err))
		return err
	}
	paths, err := a.writeArtifacts(a.cfg.Paths.OutDir, artifacts)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(a.stdout, "Gerado %s\n", path)
	}
	return nil
}
