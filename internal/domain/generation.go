package domain

import (
	"context"
	"time"
)

// Provider names a language-model backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Providers lists the supported backends in display order.
var Providers = []Provider{ProviderOllama, ProviderOpenAI, ProviderAnthropic, ProviderGemini}

// Language is the language the survey itself is written in.
type Language string

const (
	LanguageFrench  Language = "French"
	LanguageEnglish Language = "English"
	LanguageSpanish Language = "Spanish"
	LanguageArabic  Language = "Arabic"
)

var SurveyLanguages = []Language{LanguageFrench, LanguageEnglish, LanguageSpanish, LanguageArabic}

// DetailLevel controls how many questions each section should hold.
type DetailLevel string

const (
	DetailBasic        DetailLevel = "basic"
	DetailDetailed     DetailLevel = "detailed"
	DetailVeryDetailed DetailLevel = "very_detailed"
)

var DetailLevels = []DetailLevel{DetailBasic, DetailDetailed, DetailVeryDetailed}

// Tone of the survey wording.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneFriendly Tone = "friendly"
	ToneNeutral  Tone = "neutral"
)

var Tones = []Tone{ToneFormal, ToneFriendly, ToneNeutral}

// QuestionType is a canonical question kind; display labels are per language.
type QuestionType string

const (
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionScale          QuestionType = "scale"
	QuestionConditional    QuestionType = "conditional"
)

var QuestionTypes = []QuestionType{
	QuestionSingleChoice, QuestionMultipleChoice, QuestionOpenEnded, QuestionScale, QuestionConditional,
}

// Standard is a survey methodology standard the model is asked to follow.
type Standard string

const (
	StandardISO20252 Standard = "ISO 20252"
	StandardAAPOR    Standard = "AAPOR"
	StandardESS      Standard = "ESS"
	StandardOCDE     Standard = "OCDE"
	StandardESOMAR   Standard = "ESOMAR"
)

var Standards = []Standard{StandardISO20252, StandardAAPOR, StandardESS, StandardOCDE, StandardESOMAR}

// Preset is a selectable value with a translation key and an English label.
type Preset struct {
	Key   string
	Label string
}

var SurveyContexts = []Preset{
	{"client_satisfaction", "Customer satisfaction survey (e.g., NPS, CSAT)"},
	{"product_feedback", "Product feedback survey"},
	{"market_study", "Market research survey"},
	{"academic_survey", "Academic research survey"},
	{"employee_evaluation", "Employee evaluation survey"},
}

var Objectives = []Preset{
	{"measure_satisfaction", "Measure Satisfaction"},
	{"collect_opinions", "Collect Opinions"},
	{"analyze_behaviors", "Analyze Behaviors"},
	{"collect_demographics", "Collect Demographics"},
}

var Sectors = []Preset{
	{"technology", "Technology"},
	{"health", "Health"},
	{"education", "Education"},
	{"commerce", "Commerce"},
	{"services", "Services"},
}

var TargetGroups = []Preset{
	{"individual", "Individuals"},
	{"business", "Businesses"},
	{"students", "Students"},
	{"employees", "Employees"},
	{"patients", "Patients"},
}

// GenerationConfig is everything the prompts are assembled from. It is saved once
// per session and treated as read-only afterwards.
type GenerationConfig struct {
	EntityName         string         `json:"entity_name" yaml:"entity_name" validate:"required,max=200"`
	SurveyTitle        string         `json:"survey_title" yaml:"survey_title" validate:"required,max=200"`
	Provider           Provider       `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=ollama openai anthropic gemini"`
	SurveyContext      string         `json:"survey_context" yaml:"survey_context" validate:"required,max=1000"`
	Objectives         []string       `json:"objectives" yaml:"objectives" validate:"min=1,dive,required"`
	Sector             string         `json:"sector" yaml:"sector" validate:"required"`
	TargetGroups       []string       `json:"target_groups" yaml:"target_groups" validate:"min=1,dive,required"`
	TargetSize         int            `json:"target_size" yaml:"target_size" validate:"min=10,max=10000"`
	Sections           int            `json:"sections" yaml:"sections" validate:"min=1,max=10"`
	QuestionTypes      []QuestionType `json:"question_types" yaml:"question_types" validate:"min=1,dive,oneof=single_choice multiple_choice open_ended scale conditional"`
	DetailLevel        DetailLevel    `json:"detail_level" yaml:"detail_level" validate:"oneof=basic detailed very_detailed"`
	Duration           int            `json:"duration" yaml:"duration" validate:"min=1,max=60"`
	SurveyLanguage     Language       `json:"survey_language" yaml:"survey_language" validate:"oneof=French English Spanish Arabic"`
	Tone               Tone           `json:"tone" yaml:"tone" validate:"oneof=formal friendly neutral"`
	CustomInstructions string         `json:"custom_instructions,omitempty" yaml:"custom_instructions,omitempty" validate:"max=2000"`
	Standards          []Standard     `json:"standards" yaml:"standards" validate:"dive,survey_standard"`
}

// DefaultGenerationConfig mirrors the defaults offered by the wizard.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		SurveyContext:  SurveyContexts[0].Label,
		Objectives:     []string{Objectives[0].Label},
		Sector:         Sectors[0].Label,
		TargetGroups:   []string{TargetGroups[0].Label},
		TargetSize:     100,
		Sections:       3,
		QuestionTypes:  []QuestionType{QuestionSingleChoice, QuestionMultipleChoice, QuestionOpenEnded},
		DetailLevel:    DetailBasic,
		Duration:       10,
		SurveyLanguage: LanguageEnglish,
		Tone:           ToneFormal,
		Standards:      []Standard{StandardISO20252},
	}
}

// TextGenerator sends a single prompt to a language model and returns its text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the backend and model, e.g. "ollama/llama3:instruct".
	Name() string
}

// GeneratorFactory hands out the generator for a provider. An empty provider
// selects the configured default.
type GeneratorFactory interface {
	ForProvider(ctx context.Context, provider Provider) (TextGenerator, error)
}

// GenerationResult is a parsed survey together with its consistency report.
type GenerationResult struct {
	ID       string  `json:"id,omitempty"`
	Survey   *Survey `json:"survey"`
	Issues   []Issue `json:"issues"`
	Attempts int     `json:"attempts"`
	Cached   bool    `json:"cached"`
	// RawJSON is the extracted document exactly as the model produced it.
	RawJSON string `json:"-"`
}

// StoredSurvey is a persisted generation.
type StoredSurvey struct {
	ID         string
	Title      string
	Language   Language
	Provider   string
	Survey     *Survey
	IssueCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SurveyRepository persists generated surveys.
type SurveyRepository interface {
	Save(ctx context.Context, survey *StoredSurvey) error
	GetByID(ctx context.Context, id string) (*StoredSurvey, error)
	List(ctx context.Context, limit int) ([]*StoredSurvey, error)
}
