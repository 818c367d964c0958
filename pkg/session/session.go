// Package session drives the report form interactively: header fields, topic
// selection, then notes and images per selected topic.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-parecer/pkg/imaging"
	"github.com/goliatone/go-parecer/pkg/report"
)

const (
	doneOption = "Concluir"
	pageSize   = 18

	// clearAnswer erases a header field. An empty answer keeps the current
	// value because the prompt returns its default.
	clearAnswer    = "-"
	keepOrClearTip = `Enter mantém o valor atual; "-" apaga o campo`
)

// Choices offered when a selected topic already has text.
const (
	noteKeep = iota
	noteReplace
	noteClear
)

var noteActions = []string{"Manter texto atual", "Substituir texto", "Limpar texto"}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the survey driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithLogger sets the session logger. Every entry carries the session id.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDefaultCity prefills the city prompt when the record has none.
func WithDefaultCity(city string) Option {
	return func(s *Session) {
		s.defaultCity = strings.TrimSpace(city)
	}
}

// WithFileReader replaces os.ReadFile for image uploads.
func WithFileReader(read func(path string) ([]byte, error)) Option {
	return func(s *Session) {
		if read != nil {
			s.readFile = read
		}
	}
}

// Session edits one record through a PromptDriver.
type Session struct {
	id          string
	record      *report.Record
	driver      PromptDriver
	logger      *zap.Logger
	defaultCity string
	readFile    func(path string) ([]byte, error)
}

// New binds a session to rec. A nil record starts an empty one.
func New(rec *report.Record, options ...Option) *Session {
	if rec == nil {
		rec = report.New()
	}
	s := &Session{
		id:       uuid.NewString(),
		record:   rec,
		logger:   zap.NewNop(),
		readFile: os.ReadFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	s.logger = s.logger.With(zap.String("session", s.id))
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Record returns the record being edited.
func (s *Session) Record() *report.Record {
	return s.record
}

// Run walks the whole form once. Answers are applied to the record as they
// are given, so an abort keeps everything entered up to that point.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("session: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("session started")

	if err := s.promptHeader(ctx); err != nil {
		return s.finish(err)
	}
	if err := s.promptTopics(ctx); err != nil {
		return s.finish(err)
	}
	for i, topic := range append([]string(nil), s.record.Selected...) {
		if err := s.promptSection(ctx, i+1, topic); err != nil {
			return s.finish(err)
		}
	}
	return s.finish(nil)
}

func (s *Session) finish(err error) error {
	switch {
	case err == nil:
		s.logger.Info("session finished",
			zap.Int("topics", len(s.record.Selected)),
		)
	case errors.Is(err, ErrAborted):
		s.logger.Info("session aborted")
	default:
		s.logger.Error("session failed", zap.Error(err))
	}
	return err
}

func (s *Session) promptHeader(ctx context.Context) error {
	for _, field := range report.Fields() {
		current := s.record.Field(field)
		cfg := InputConfig{
			Message: field.Label(),
			Default: current,
			Help:    keepOrClearTip,
		}
		switch field {
		case report.FieldDocument:
			if current != "" {
				cfg.Default = report.FormatDocument(current)
			}
			cfg.Help = "CPF (###.###.###-##) ou CNPJ (##.###.###/####-##); apenas os dígitos são guardados. " + keepOrClearTip
			cfg.Validator = validateDocument
		case report.FieldCity:
			if current == "" {
				cfg.Default = s.defaultCity
			}
		}

		answer, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == clearAnswer {
			if err := s.record.ClearField(field); err != nil {
				return err
			}
			s.logger.Debug("field cleared", zap.String("field", string(field)))
			continue
		}
		if err := s.record.SetField(field, answer); err != nil {
			return err
		}
	}
	return nil
}

// validateDocument accepts a CPF or CNPJ by digit count, or the keep and
// clear answers.
func validateDocument(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" || answer == clearAnswer {
		return nil
	}
	switch n := len(report.Digits(answer)); n {
	case 11, 14:
		return nil
	default:
		return fmt.Errorf("documento com %d dígitos; use 11 (CPF) ou 14 (CNPJ)", n)
	}
}

func (s *Session) promptTopics(ctx context.Context) error {
	catalog := report.Topics()

	var defaults []int
	for _, topic := range s.record.Selected {
		if idx := report.TopicPosition(topic); idx >= 0 {
			defaults = append(defaults, idx)
		}
	}

	picked, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Itens do parecer",
		Options:  catalog,
		Defaults: defaults,
		Help:     "Novos itens entram no fim do documento, depois dos já marcados",
		PageSize: pageSize,
	})
	if err != nil {
		return err
	}

	chosen := make(map[string]struct{}, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(catalog) {
			chosen[catalog[idx]] = struct{}{}
		}
	}

	for _, topic := range append([]string(nil), s.record.Selected...) {
		if _, keep := chosen[topic]; keep {
			continue
		}
		if err := s.record.ToggleTopic(topic, false); err != nil {
			return err
		}
		s.logger.Debug("topic deselected", zap.String("topic", topic))
	}
	for _, topic := range catalog {
		if _, want := chosen[topic]; !want || s.record.IsSelected(topic) {
			continue
		}
		if err := s.record.ToggleTopic(topic, true); err != nil {
			return err
		}
		s.logger.Debug("topic selected", zap.String("topic", topic))
	}

	if orphans := s.record.Orphans(); len(orphans) > 0 {
		return s.driver.Info(ctx, "Conteúdo guardado (fora do documento): "+strings.Join(orphans, "; "))
	}
	return nil
}

func (s *Session) promptSection(ctx context.Context, number int, topic string) error {
	if err := s.driver.Info(ctx, fmt.Sprintf("%d. %s", number, topic)); err != nil {
		return err
	}

	if err := s.promptNote(ctx, topic); err != nil {
		return err
	}
	if err := s.promptRemoveImages(ctx, topic); err != nil {
		return err
	}
	return s.promptAddImages(ctx, topic)
}

// promptNote keeps, replaces or clears an existing note. Clearing never
// touches the topic images.
func (s *Session) promptNote(ctx context.Context, topic string) error {
	if current := s.record.Note(topic); current != "" {
		if err := s.driver.Info(ctx, "Texto atual:\n"+current); err != nil {
			return err
		}
		action, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Texto",
			Options:      noteActions,
			DefaultIndex: noteKeep,
		})
		if err != nil {
			return err
		}
		switch action {
		case noteReplace:
		case noteClear:
			s.record.ClearNote(topic)
			s.logger.Debug("note cleared", zap.String("topic", topic))
			return nil
		default:
			return nil
		}
	}

	note, err := s.driver.TextArea(ctx, TextAreaConfig{
		Message: "Texto",
		Help:    "Vazio deixa o item sem texto; as imagens são mantidas",
	})
	if err != nil {
		return err
	}
	s.record.SetNote(topic, strings.TrimRight(note, "\n"))
	return nil
}

func (s *Session) promptRemoveImages(ctx context.Context, topic string) error {
	if len(s.record.Images[topic]) == 0 {
		return nil
	}
	remove, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Remover alguma das %d imagens?", len(s.record.Images[topic])),
	})
	if err != nil || !remove {
		return err
	}

	for len(s.record.Images[topic]) > 0 {
		options := imageOptions(s.record.Images[topic])
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      "Imagem a remover",
			Options:      options,
			DefaultIndex: len(options) - 1,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(s.record.Images[topic]) {
			return nil
		}
		s.record.RemoveImage(topic, idx)
		s.logger.Debug("image removed", zap.String("topic", topic), zap.Int("index", idx))
	}
	return nil
}

func (s *Session) promptAddImages(ctx context.Context, topic string) error {
	for {
		path, err := s.driver.Input(ctx, InputConfig{
			Message: "Adicionar imagem (caminho do arquivo, vazio para seguir)",
		})
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil
		}

		key := s.record.UploadKey(topic)
		data, err := s.readFile(path)
		if err == nil {
			_, err = imaging.Prepare(data, imaging.Options{})
		}
		if err != nil {
			s.logger.Warn("upload rejected", zap.String("upload", key), zap.String("path", path), zap.Error(err))
			if infoErr := s.driver.Info(ctx, fmt.Sprintf("Imagem ignorada: %v", err)); infoErr != nil {
				return infoErr
			}
			continue
		}
		s.record.AddImage(topic, data)
		s.logger.Debug("image added", zap.String("upload", key), zap.Int("bytes", len(data)))
	}
}

func imageOptions(images [][]byte) []string {
	options := make([]string, 0, len(images)+1)
	for i, data := range images {
		options = append(options, fmt.Sprintf("Imagem %d (%s)", i+1, humanSize(len(data))))
	}
	return append(options, doneOption)
}

func humanSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KB", float64(n)/1024)
}
