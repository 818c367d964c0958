package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parecer/pkg/report"
)

func newTopicsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the topic catalog",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			for i, topic := range report.Topics() {
				if _, err := fmt.Fprintf(a.stdout, "%2d. %s\n", i+1, topic); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			data, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}
