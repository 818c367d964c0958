package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "parecer",
		Short: "Preenche e gera o Parecer Técnico de imóveis rurais",
		Long: `parecer edits the Parecer Técnico form interactively and renders it
to DOCX, PDF and an HTML preview.

Settings come from parecer.yaml (or --config) and PARECER_* environment
variables, for example PARECER_RENDER_FORMATS=pdf,html.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "configuration file (default parecer.yaml when present)")

	root.AddCommand(
		newEditCmd(a),
		newRenderCmd(a),
		newResetCmd(a),
		newTopicsCmd(a),
		newConfigCmd(a),
	)
	return root
}
