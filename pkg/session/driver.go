package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig describes a single-line prompt. An empty answer yields Default,
// the way survey does. Validator, when set, rejects an answer before it is
// returned.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig describes a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
}

// SelectConfig describes a single or multi choice prompt. DefaultIndex
// applies to Select, Defaults to MultiSelect.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int
	Help         string
	PageSize     int
}

// TextAreaConfig describes a multi-line prompt. It carries no default, so an
// empty answer is always the empty string.
type TextAreaConfig struct {
	Message string
	Help    string
}

// PromptDriver abstracts the terminal so the session flow can be tested
// without one.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns a PromptDriver backed by survey. Info messages go
// to out, or stdout when out is nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

// ask runs one survey prompt, mapping Ctrl+C to ErrAborted.
func ask[T any](ctx context.Context, prompt survey.Prompt, opts ...survey.AskOpt) (T, error) {
	var answer T
	if err := ctx.Err(); err != nil {
		return answer, err
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return answer, ErrAborted
		}
		return answer, err
	}
	return answer, nil
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var opts []survey.AskOpt
	if validate := cfg.Validator; validate != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	return ask[string](ctx, &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}, opts...)
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	return ask[bool](ctx, &survey.Confirm{Message: cfg.Message, Default: cfg.Default})
}

func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	picked, err := ask[string](ctx, prompt)
	if err != nil {
		return 0, err
	}
	return slices.Index(cfg.Options, picked), nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help, PageSize: cfg.PageSize}
	if len(cfg.Defaults) > 0 {
		var defaults []string
		for _, idx := range cfg.Defaults {
			if idx >= 0 && idx < len(cfg.Options) {
				defaults = append(defaults, cfg.Options[idx])
			}
		}
		prompt.Default = defaults
	}
	picked, err := ask[[]string](ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out []int
	for i, option := range cfg.Options {
		if slices.Contains(picked, option) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	return ask[string](ctx, &survey.Multiline{Message: cfg.Message, Help: cfg.Help})
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}
