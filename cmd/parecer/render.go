package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-parecer/pkg/generator"
	"github.com/goliatone/go-parecer/pkg/render"
)

type renderFlags struct {
	backup  string
	draft   bool
	formats []string
	outDir  string
	date    string
	preview bool
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the saved report without prompting",
		Long: `Render writes the report from a backup file or from the draft.

Examples:
  parecer render --backup backup_multi_imagens.json
  parecer render --draft --format pdf,html --out saida
  parecer render --draft --format html --preview
  parecer render --backup b.json --date 2024-03-05`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRender(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.backup, "backup", "", "render this backup file")
	cmd.Flags().BoolVar(&flags.draft, "draft", false, "render the draft file (default when --backup is absent)")
	cmd.Flags().StringSliceVar(&flags.formats, "format", nil, "output formats: docx, pdf, html (default from config)")
	cmd.Flags().StringVar(&flags.outDir, "out", "", "output directory (default from config)")
	cmd.Flags().StringVar(&flags.date, "date", "", "signature date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "skip the required-field check; renders a single format")
	cmd.MarkFlagsMutuallyExclusive("backup", "draft")
	return cmd
}

func (a *app) runRender(cmd *cobra.Command, flags renderFlags) error {
	date, err := parseDate(flags.date)
	if err != nil {
		return err
	}
	rec, err := a.loadRecord(flags.backup)
	if err != nil {
		return err
	}
	gen, err := a.generator()
	if err != nil {
		return err
	}

	opts := render.RenderOptions{Date: date}
	var artifacts []generator.Artifact
	if flags.preview {
		if len(flags.formats) != 1 {
			return errors.New("parecer: --preview needs exactly one --format")
		}
		artifact, err := gen.Preview(cmd.Context(), rec, flags.formats[0], opts)
		if err != nil {
			return err
		}
		artifacts = []generator.Artifact{artifact}
	} else {
		artifacts, err = gen.Generate(cmd.Context(), generator.Request{
			Record:  rec,
			Formats: flags.formats,
			Options: opts,
		})
		if err != nil {
			return err
		}
	}

	outDir := flags.outDir
	if outDir == "" {
		outDir = a.cfg.Paths.OutDir
	}
	paths, err := a.writeArtifacts(outDir, artifacts)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, strings.Join(paths, "\n"))
	return nil
}
