// Package wizard walks a user through configuring, generating, editing and
// exporting a survey in the terminal.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"survey-gen/internal/domain"
	"survey-gen/internal/export"
	"survey-gen/internal/i18n"
	"survey-gen/internal/validation"

	"go.uber.org/zap"
)

// SurveyGenerator is the part of the generation service the wizard drives.
type SurveyGenerator interface {
	GenerateOutline(ctx context.Context, cfg *domain.GenerationConfig) (string, error)
	GenerateSurvey(ctx context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error)
}

type Wizard struct {
	driver    PromptDriver
	generator SurveyGenerator
	validator *validation.Validator
	catalog   *i18n.Catalog
	session   *Session
	exportDir string
	logger    *zap.Logger
}

type Option func(*Wizard)

// WithSession resumes from an existing session, e.g. one seeded from a config file.
func WithSession(s *Session) Option {
	return func(w *Wizard) { w.session = s }
}

// WithExportDir sets the directory export paths are proposed in.
func WithExportDir(dir string) Option {
	return func(w *Wizard) { w.exportDir = dir }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *Wizard) { w.logger = l }
}

func New(driver PromptDriver, generator SurveyGenerator, validator *validation.Validator, catalog *i18n.Catalog, opts ...Option) *Wizard {
	w := &Wizard{
		driver:    driver,
		generator: generator,
		validator: validator,
		catalog:   catalog,
		session:   &Session{},
		exportDir: ".",
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Session() *Session { return w.session }

// Run executes the four steps in order. A session that already holds a saved
// configuration skips step 1.
func (w *Wizard) Run(ctx context.Context) error {
	if err := w.info(ctx, "== "+w.catalog.T("survey_generator")+" =="); err != nil {
		return err
	}
	steps := []func(context.Context) error{w.GenerateOutline, w.EditOutline, w.Finalize}
	if !w.session.ReadyForOutline() {
		steps = append([]func(context.Context) error{w.Configure}, steps...)
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Configure is step 1: collect and save the generation configuration.
func (w *Wizard) Configure(ctx context.Context) error {
	if err := w.info(ctx, "-- "+w.catalog.T("step1")+" --"); err != nil {
		return err
	}
	cfg := domain.DefaultGenerationConfig()
	if saved := w.session.Config(); saved != nil {
		cfg = *saved
	}
	if err := w.collect(ctx, &cfg); err != nil {
		return err
	}

	if errs := w.validator.ValidateGenerationConfig(&cfg); len(errs) > 0 {
		_ = w.info(ctx, w.catalog.T("warning_message"))
		for _, e := range errs {
			_ = w.info(ctx, fmt.Sprintf("  - %s: %s", e.Field, e.Message))
		}
		return errs
	}
	w.session.SaveConfig(cfg)
	w.logger.Info("Generation config saved", zap.String("title", cfg.SurveyTitle), zap.String("provider", string(cfg.Provider)))
	return w.info(ctx, w.catalog.T("config_saved"))
}

func (w *Wizard) collect(ctx context.Context, cfg *domain.GenerationConfig) error {
	t := w.catalog.T

	providers := make([]string, len(domain.Providers))
	for i, p := range domain.Providers {
		providers[i] = string(p)
	}
	idx, err := w.driver.Select(ctx, SelectConfig{
		Message:      t("provider_label"),
		Options:      providers,
		DefaultIndex: indexOf(providers, string(cfg.Provider)),
	})
	if err != nil {
		return err
	}
	if idx >= 0 {
		cfg.Provider = domain.Providers[idx]
	}

	if cfg.EntityName, err = w.driver.Input(ctx, InputConfig{Message: t("entity_label"), Default: cfg.EntityName, Validator: required}); err != nil {
		return err
	}
	if cfg.SurveyTitle, err = w.driver.Input(ctx, InputConfig{Message: t("survey_title_label"), Default: cfg.SurveyTitle, Validator: required}); err != nil {
		return err
	}

	contexts, err := w.selectPresets(ctx, t("survey_type_label"), domain.SurveyContexts, "custom", "custom_survey_type", []string{cfg.SurveyContext}, false)
	if err != nil {
		return err
	}
	cfg.SurveyContext = contexts[0]

	if cfg.Objectives, err = w.selectPresets(ctx, t("objectives_label"), domain.Objectives, "other", "custom_objective", cfg.Objectives, true); err != nil {
		return err
	}
	sectors, err := w.selectPresets(ctx, t("sector_label"), domain.Sectors, "other", "custom_sector", []string{cfg.Sector}, false)
	if err != nil {
		return err
	}
	cfg.Sector = sectors[0]
	if cfg.TargetGroups, err = w.selectPresets(ctx, t("target_groups_label"), domain.TargetGroups, "other", "custom_target", cfg.TargetGroups, true); err != nil {
		return err
	}

	if cfg.TargetSize, err = w.number(ctx, t("target_size_label"), cfg.TargetSize, 10, 10000); err != nil {
		return err
	}
	if cfg.Sections, err = w.number(ctx, t("sections_label"), cfg.Sections, 1, 10); err != nil {
		return err
	}

	types := make([]string, len(domain.QuestionTypes))
	var typeDefaults []int
	for i, qt := range domain.QuestionTypes {
		types[i] = t(string(qt))
		for _, have := range cfg.QuestionTypes {
			if have == qt {
				typeDefaults = append(typeDefaults, i)
			}
		}
	}
	picked, err := w.driver.MultiSelect(ctx, SelectConfig{Message: t("question_types_label"), Options: types, Defaults: typeDefaults})
	if err != nil {
		return err
	}
	cfg.QuestionTypes = make([]domain.QuestionType, 0, len(picked))
	for _, i := range picked {
		cfg.QuestionTypes = append(cfg.QuestionTypes, domain.QuestionTypes[i])
	}

	if cfg.DetailLevel, err = selectEnum(ctx, w, t("detail_level_label"), domain.DetailLevels, cfg.DetailLevel, true); err != nil {
		return err
	}
	if cfg.Duration, err = w.number(ctx, t("duration_label"), cfg.Duration, 1, 60); err != nil {
		return err
	}
	if cfg.SurveyLanguage, err = selectEnum(ctx, w, t("survey_lang_label"), domain.SurveyLanguages, cfg.SurveyLanguage, false); err != nil {
		return err
	}
	if cfg.Tone, err = selectEnum(ctx, w, t("tone_label"), domain.Tones, cfg.Tone, true); err != nil {
		return err
	}
	if cfg.CustomInstructions, err = w.driver.Input(ctx, InputConfig{
		Message: t("custom_instructions_label"),
		Default: cfg.CustomInstructions,
		Help:    t("custom_instructions_placeholder"),
	}); err != nil {
		return err
	}

	standards := make([]string, len(domain.Standards))
	var stdDefaults []int
	for i, s := range domain.Standards {
		standards[i] = string(s)
		for _, have := range cfg.Standards {
			if have == s {
				stdDefaults = append(stdDefaults, i)
			}
		}
	}
	picked, err = w.driver.MultiSelect(ctx, SelectConfig{
		Message:  t("standards_label"),
		Options:  standards,
		Defaults: stdDefaults,
		Help:     t("standards_help"),
	})
	if err != nil {
		return err
	}
	cfg.Standards = make([]domain.Standard, 0, len(picked))
	for _, i := range picked {
		cfg.Standards = append(cfg.Standards, domain.Standards[i])
	}
	return nil
}

// selectPresets offers the translated presets plus a free-text entry. Chosen
// presets are stored by their English label so prompts stay stable across
// interface languages.
func (w *Wizard) selectPresets(ctx context.Context, message string, presets []domain.Preset, otherKey, customKey string, current []string, multi bool) ([]string, error) {
	options := make([]string, 0, len(presets)+1)
	var defaults []int
	var custom []string
	for i, p := range presets {
		options = append(options, w.catalog.T(p.Key))
		for _, c := range current {
			if c == p.Label {
				defaults = append(defaults, i)
			}
		}
	}
	for _, c := range current {
		if c != "" && !isPresetLabel(presets, c) {
			custom = append(custom, c)
		}
	}
	otherIdx := len(options)
	options = append(options, w.catalog.T(otherKey))
	if len(custom) > 0 {
		defaults = append(defaults, otherIdx)
	}

	var picked []int
	if multi {
		var err error
		if picked, err = w.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: options, Defaults: defaults}); err != nil {
			return nil, err
		}
	} else {
		def := 0
		if len(defaults) > 0 {
			def = defaults[0]
		}
		i, err := w.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: def})
		if err != nil {
			return nil, err
		}
		picked = []int{i}
	}

	var out []string
	for _, i := range picked {
		if i >= 0 && i < len(presets) {
			out = append(out, presets[i].Label)
			continue
		}
		if i != otherIdx {
			continue
		}
		text, err := w.driver.Input(ctx, InputConfig{
			Message:   w.catalog.T(customKey),
			Default:   strings.Join(custom, ", "),
			Validator: required,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(text))
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out, nil
}

func isPresetLabel(presets []domain.Preset, label string) bool {
	for _, p := range presets {
		if p.Label == label {
			return true
		}
	}
	return false
}

// selectEnum offers values of a string enum; translated shows catalog labels
// instead of the raw values.
func selectEnum[T ~string](ctx context.Context, w *Wizard, message string, values []T, current T, translated bool) (T, error) {
	options := make([]string, len(values))
	def := 0
	for i, v := range values {
		options[i] = string(v)
		if translated {
			options[i] = w.catalog.T(string(v))
		}
		if v == current {
			def = i
		}
	}
	i, err := w.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: def})
	if err != nil {
		return current, err
	}
	if i < 0 || i >= len(values) {
		return current, nil
	}
	return values[i], nil
}

func (w *Wizard) number(ctx context.Context, message string, current, lo, hi int) (int, error) {
	invalid := w.catalog.Tf("invalid_number", lo, hi)
	answer, err := w.driver.Input(ctx, InputConfig{
		Message: message,
		Default: strconv.Itoa(current),
		Validator: func(s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || n < lo || n > hi {
				return errors.New(invalid)
			}
			return nil
		},
	})
	if err != nil {
		return current, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < lo || n > hi {
		return current, fmt.Errorf("%s: %w", invalid, domain.NewInvalidInputError(answer))
	}
	return n, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// GenerateOutline is step 2.
func (w *Wizard) GenerateOutline(ctx context.Context) error {
	if err := w.info(ctx, "-- "+w.catalog.T("step2")+" --"); err != nil {
		return err
	}
	if !w.session.ReadyForOutline() {
		_ = w.info(ctx, w.catalog.T("warning_save_config"))
		return ErrMissingPrerequisite
	}
	_ = w.info(ctx, w.catalog.T("generating"))

	outline, err := w.generator.GenerateOutline(ctx, w.session.Config())
	if err != nil {
		w.logger.Error("Outline generation failed", zap.Error(err))
		_ = w.info(ctx, fmt.Sprintf("%s (%v)", w.catalog.T("error_message"), err))
		return err
	}
	w.session.SetOutline(outline)
	if err := w.info(ctx, w.catalog.T("questions_generated")); err != nil {
		return err
	}
	return w.info(ctx, "\n"+outline+"\n")
}

// EditOutline is step 3: optionally rewrite the outline before the survey is generated.
func (w *Wizard) EditOutline(ctx context.Context) error {
	if err := w.info(ctx, "-- "+w.catalog.T("step3")+" --"); err != nil {
		return err
	}
	if w.session.Outline() == "" {
		_ = w.info(ctx, w.catalog.T("info_generate_questions"))
		return ErrMissingPrerequisite
	}
	edit, err := w.driver.Confirm(ctx, ConfirmConfig{Message: w.catalog.T("edit_outline_confirm")})
	if err != nil || !edit {
		return err
	}
	edited, err := w.driver.TextArea(ctx, TextAreaConfig{
		Message: w.catalog.T("questions_list"),
		Default: w.session.Outline(),
	})
	if err != nil {
		return err
	}
	if strings.TrimSpace(edited) == "" {
		return nil
	}
	w.session.SetOutline(strings.TrimSpace(edited))
	return w.info(ctx, w.catalog.T("edits_saved"))
}

// Finalize is step 4: generate the full survey, show it with its consistency
// report and offer an export.
func (w *Wizard) Finalize(ctx context.Context) error {
	if err := w.info(ctx, "-- "+w.catalog.T("step4")+" --"); err != nil {
		return err
	}
	if !w.session.ReadyForSurvey() {
		_ = w.info(ctx, w.catalog.T("warning_complete_steps"))
		return ErrMissingPrerequisite
	}
	_ = w.info(ctx, w.catalog.T("generating"))

	result, err := w.generator.GenerateSurvey(ctx, w.session.Config(), w.session.Outline())
	if err != nil {
		w.logger.Error("Survey generation failed", zap.Error(err))
		_ = w.info(ctx, fmt.Sprintf("%s (%v)", w.catalog.T("error_message"), err))
		return err
	}
	w.session.SetResult(result)
	if err := w.info(ctx, w.catalog.T("survey_generated")); err != nil {
		return err
	}
	if err := w.info(ctx, RenderSurvey(w.catalog, result)); err != nil {
		return err
	}
	return w.Export(ctx)
}

// Export writes the session's survey to a file in a chosen format.
func (w *Wizard) Export(ctx context.Context) error {
	result := w.session.Result()
	if result == nil {
		_ = w.info(ctx, w.catalog.T("warning_complete_steps"))
		return ErrMissingPrerequisite
	}
	labels := []string{"JSON", "Excel", "CSV", w.catalog.T("export_skip")}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: w.catalog.T("export_label"), Options: labels})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(export.Formats) {
		return nil
	}
	format := export.Formats[idx]

	path, err := w.driver.Input(ctx, InputConfig{
		Message:   w.catalog.T("export_path_label"),
		Default:   filepath.Join(w.exportDir, format.FileName()),
		Validator: required,
	})
	if err != nil {
		return err
	}
	path = strings.TrimSpace(path)
	if err := export.ToFile(path, result.Survey, format); err != nil {
		w.logger.Error("Export failed", zap.String("path", path), zap.Error(err))
		return err
	}
	w.logger.Info("Survey exported", zap.String("path", path), zap.String("format", string(format)))
	return w.info(ctx, w.catalog.Tf("export_success", path))
}

func (w *Wizard) info(ctx context.Context, msg string) error {
	return w.driver.Info(ctx, msg)
}
