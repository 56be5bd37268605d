package wizard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"survey-gen/internal/domain"
	"survey-gen/internal/i18n"
	"survey-gen/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted for " + cfg.Message)
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted for " + cfg.Message)
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) output() string {
	return strings.Join(s.infoMessages, "\n")
}

type fakeGenerator struct {
	outline    string
	outlineErr error
	result     *domain.GenerationResult
	surveyErr  error

	gotConfig  *domain.GenerationConfig
	gotOutline string
}

func (f *fakeGenerator) GenerateOutline(_ context.Context, cfg *domain.GenerationConfig) (string, error) {
	f.gotConfig = cfg
	return f.outline, f.outlineErr
}

func (f *fakeGenerator) GenerateSurvey(_ context.Context, cfg *domain.GenerationConfig, outline string) (*domain.GenerationResult, error) {
	f.gotConfig, f.gotOutline = cfg, outline
	return f.result, f.surveyErr
}

func sampleResult(t *testing.T) *domain.GenerationResult {
	t.Helper()
	s, err := domain.ParseSurvey([]byte(`{
		"intro": "Thank you for participating",
		"questions": [
			{"type": "Single-choice", "text": "Would you recommend us?", "options": ["Yes", "No"], "condition": null},
			{"type": "Open-ended", "text": "If yes, why?", "options": null, "condition": "If Q1 = Maybe"}
		],
		"outro": "Thank you!"
	}`))
	require.NoError(t, err)
	return &domain.GenerationResult{Survey: s, Issues: validation.CheckConsistency(s), Attempts: 1}
}

// configureScript answers every step 1 prompt.
func configureScript() *stubDriver {
	return &stubDriver{
		inputs:    []string{"Acme", "Pulse", "Reduce churn", "200", "2", "15", ""},
		selectIdx: []int{0, 0, 0, 1, 0, 2},
		multiIdx:  [][]int{{0, 4}, {1}, {0, 2}, {0, 1}},
	}
}

func newWizard(driver PromptDriver, gen SurveyGenerator, opts ...Option) *Wizard {
	return New(driver, gen, validation.NewValidator(nil), i18n.Load(i18n.English), opts...)
}

func TestConfigure(t *testing.T) {
	driver := configureScript()
	w := newWizard(driver, &fakeGenerator{})

	require.NoError(t, w.Configure(context.Background()))

	cfg := w.Session().Config()
	require.NotNil(t, cfg)
	assert.Equal(t, domain.ProviderOllama, cfg.Provider)
	assert.Equal(t, "Acme", cfg.EntityName)
	assert.Equal(t, "Pulse", cfg.SurveyTitle)
	assert.Equal(t, domain.SurveyContexts[0].Label, cfg.SurveyContext)
	assert.Equal(t, []string{"Measure Satisfaction", "Reduce churn"}, cfg.Objectives)
	assert.Equal(t, "Technology", cfg.Sector)
	assert.Equal(t, []string{"Businesses"}, cfg.TargetGroups)
	assert.Equal(t, 200, cfg.TargetSize)
	assert.Equal(t, 2, cfg.Sections)
	assert.Equal(t, []domain.QuestionType{domain.QuestionSingleChoice, domain.QuestionOpenEnded}, cfg.QuestionTypes)
	assert.Equal(t, domain.DetailDetailed, cfg.DetailLevel)
	assert.Equal(t, 15, cfg.Duration)
	assert.Equal(t, domain.LanguageFrench, cfg.SurveyLanguage)
	assert.Equal(t, domain.ToneNeutral, cfg.Tone)
	assert.Equal(t, []domain.Standard{domain.StandardISO20252, domain.StandardAAPOR}, cfg.Standards)
	assert.Contains(t, driver.output(), "Configuration saved successfully!")
}

func TestConfigure_RejectsOutOfRangeNumber(t *testing.T) {
	driver := configureScript()
	driver.inputs[3] = "5" // target size below 10
	w := newWizard(driver, &fakeGenerator{})

	err := w.Configure(context.Background())
	assert.EqualError(t, err, "Please enter a whole number between 10 and 10000.")
	assert.Nil(t, w.Session().Config())
}

func TestConfigure_RejectsEmptySelection(t *testing.T) {
	driver := configureScript()
	driver.multiIdx[2] = []int{} // no question types
	w := newWizard(driver, &fakeGenerator{})

	err := w.Configure(context.Background())
	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "question_types", verrs[0].Field)
	assert.Contains(t, driver.output(), "Please fill in all fields.")
	assert.Nil(t, w.Session().Config())
}

func TestSteps_RequirePreviousSteps(t *testing.T) {
	ctx := context.Background()
	driver := &stubDriver{}
	w := newWizard(driver, &fakeGenerator{})

	assert.ErrorIs(t, w.GenerateOutline(ctx), ErrMissingPrerequisite)
	assert.Contains(t, driver.output(), "Please save the configuration in Step 1")

	assert.ErrorIs(t, w.EditOutline(ctx), ErrMissingPrerequisite)
	assert.Contains(t, driver.output(), "Generate questions in Step 2 first.")

	assert.ErrorIs(t, w.Finalize(ctx), ErrMissingPrerequisite)
	assert.Contains(t, driver.output(), "Please complete the previous steps")

	assert.ErrorIs(t, w.Export(ctx), ErrMissingPrerequisite)
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	driver := configureScript()
	driver.confirm = []bool{true}
	driver.textAreas = []string{"  Section 1: Edited  \n"}
	driver.selectIdx = append(driver.selectIdx, 2) // CSV
	driver.inputs = append(driver.inputs, filepath.Join(dir, "out.csv"))

	gen := &fakeGenerator{outline: "Section 1: Usage", result: sampleResult(t)}
	w := newWizard(driver, gen, WithExportDir(dir))

	require.NoError(t, w.Run(context.Background()))

	assert.Equal(t, "Section 1: Edited", gen.gotOutline)
	assert.Equal(t, "Pulse", gen.gotConfig.SurveyTitle)
	assert.Same(t, gen.result, w.Session().Result())

	out := driver.output()
	assert.Contains(t, out, "Questions generated successfully!")
	assert.Contains(t, out, "Edits saved successfully!")
	assert.Contains(t, out, "Q1. Would you recommend us? (Single-choice)")
	assert.Contains(t, out, "-> Q1 options: [\"Yes\",\"No\"]")
	assert.Contains(t, out, "Consistency issues found:")
	assert.Contains(t, out, "File written: "+filepath.Join(dir, "out.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Open-ended,\"If yes, why?\",,If Q1 = Maybe")
}

func TestRun_WithSavedConfigSkipsStepOne(t *testing.T) {
	cfg := domain.DefaultGenerationConfig()
	cfg.EntityName, cfg.SurveyTitle = "Acme", "Pulse"
	session := &Session{}
	session.SaveConfig(cfg)

	driver := &stubDriver{confirm: []bool{false}, selectIdx: []int{3}} // keep outline, skip export
	gen := &fakeGenerator{outline: "Section 1", result: sampleResult(t)}
	w := newWizard(driver, gen, WithSession(session))

	require.NoError(t, w.Run(context.Background()))
	assert.Equal(t, "Section 1", gen.gotOutline)
	assert.Zero(t, driver.inputPos)
}

func TestGenerateOutline_Failure(t *testing.T) {
	session := &Session{}
	session.SaveConfig(domain.DefaultGenerationConfig())
	driver := &stubDriver{}
	w := newWizard(driver, &fakeGenerator{outlineErr: errors.New("connection refused")}, WithSession(session))

	err := w.GenerateOutline(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, w.Session().Outline())
	assert.Contains(t, driver.output(), "Error: No response received from the model.")
}

func TestFinalize_ReplacesSurvey(t *testing.T) {
	session := &Session{}
	session.SaveConfig(domain.DefaultGenerationConfig())
	session.SetOutline("outline")
	old := sampleResult(t)
	session.SetResult(old)

	fresh := sampleResult(t)
	driver := &stubDriver{selectIdx: []int{3}}
	w := newWizard(driver, &fakeGenerator{result: fresh}, WithSession(session))

	require.NoError(t, w.Finalize(context.Background()))
	assert.Same(t, fresh, w.Session().Result())
}

func TestEditOutline_AbortPropagates(t *testing.T) {
	session := &Session{}
	session.SetOutline("outline")
	driver := &abortingDriver{stubDriver: &stubDriver{}}
	w := newWizard(driver, &fakeGenerator{}, WithSession(session))

	assert.ErrorIs(t, w.EditOutline(context.Background()), ErrAborted)
	assert.Equal(t, "outline", session.Outline())
}

type abortingDriver struct{ *stubDriver }

func (abortingDriver) Confirm(context.Context, ConfirmConfig) (bool, error) { return false, ErrAborted }
