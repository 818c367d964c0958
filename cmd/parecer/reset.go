package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Empty the draft file",
		Long: `Reset overwrites the draft with an empty form. The backup file and
rendered outputs are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runReset()
		},
	}
}

func (a *app) runReset() error {
	rec, err := a.loadRecord("")
	if err != nil {
		return err
	}
	rec.Reset()
	store := a.draftStore()
	if err := store.Save(rec); err != nil {
		return err
	}
	a.logger.Debug("draft reset", zap.String("path", store.Path()))
	fmt.Fprintf(a.stdout, "Rascunho limpo em %s\n", store.Path())
	return nil
}
