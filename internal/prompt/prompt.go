// Package prompt assembles the instructions sent to the language model from a
// generation config. Everything here is pure string building.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"survey-gen/internal/domain"
)

const outlineTemplate = `Generate a professional survey outline for '%s' titled '%s'.
Context: %s.
Objectives: %s.
Sector: %s.
Target audience: %s, approximately %d respondents.
Structure: %d sections, using %s question types.
Detail level: %s (basic: 5-7 questions, detailed: 8-12, very detailed: 12+).
Estimated duration: %d minutes.
Language: Generate all content exclusively in %s.
Tone: %s.
Additional instructions: %s.
Standards to follow:
%s
Include a mix of question types and conditional logic where appropriate.
Output as plain text with sections and question types in parentheses, entirely in %s.
Example in %s:
%s
`

const surveyTemplate = `Create a complete, professional survey from this outline:
%s
Context: %s.
Objectives: %s.
Sector: %s.
Target audience: %s, approximately %d respondents.
Structure: %d sections, using %s question types.
Detail level: %s.
Estimated duration: %d minutes.
Language: Generate all content exclusively in %s.
Tone: %s.
Additional instructions: %s.
Standards to follow:
%s
Output as a JSON object with 'intro', 'questions', and 'outro', entirely in %s.
For each question: include 'type', 'text', 'options' (set to null for open-ended questions), and 'condition' (e.g., "If Q2 = Yes" for question 2).
Multiple-choice: 4+ relevant options. Single-choice: scale (e.g., 1-5, Yes/No).
Wrap in ` + "```json and ```" + ` markers.
Example in %s:
` + "```json" + `
%s
` + "```" + `
`

// Outline builds the prompt asking for a plain-text question outline.
func Outline(cfg *domain.GenerationConfig) string {
	lang := cfg.SurveyLanguage
	return fmt.Sprintf(outlineTemplate,
		cfg.EntityName, cfg.SurveyTitle,
		cfg.SurveyContext,
		strings.Join(cfg.Objectives, ", "),
		cfg.Sector,
		strings.Join(cfg.TargetGroups, ", "), cfg.TargetSize,
		cfg.Sections, typeLabels(cfg),
		detailLevel(cfg.DetailLevel),
		cfg.Duration,
		lang,
		cfg.Tone,
		instructions(cfg),
		Standards(cfg.Standards),
		lang,
		lang,
		exampleFor(lang).outline,
	)
}

// Survey builds the prompt asking for the full survey as fenced JSON.
func Survey(cfg *domain.GenerationConfig, outline string) string {
	lang := cfg.SurveyLanguage
	return fmt.Sprintf(surveyTemplate,
		strings.TrimSpace(outline),
		cfg.SurveyContext,
		strings.Join(cfg.Objectives, ", "),
		cfg.Sector,
		strings.Join(cfg.TargetGroups, ", "), cfg.TargetSize,
		cfg.Sections, typeLabels(cfg),
		detailLevel(cfg.DetailLevel),
		cfg.Duration,
		lang,
		cfg.Tone,
		instructions(cfg),
		Standards(cfg.Standards),
		lang,
		lang,
		ExampleSurveyJSON(lang),
	)
}

// Standards renders one "- NAME: guidance" line per standard, in the given order.
func Standards(standards []domain.Standard) string {
	lines := make([]string, 0, len(standards))
	for _, s := range standards {
		guidance, ok := StandardGuidance[s]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", s, guidance))
	}
	if len(lines) == 0 {
		return "- None"
	}
	return strings.Join(lines, "\n")
}

// ExampleSurveyJSON is the worked example embedded in the survey prompt.
func ExampleSurveyJSON(lang domain.Language) string {
	ex := exampleFor(lang)
	s := domain.Survey{
		Intro: ex.intro,
		Questions: []domain.Question{
			{
				Type:    QuestionTypeLabel(lang, domain.QuestionSingleChoice),
				Text:    ex.recommend,
				Options: []domain.Option{domain.ScalarOption(ex.yes), domain.ScalarOption(ex.no)},
			},
			{
				Type:      QuestionTypeLabel(lang, domain.QuestionOpenEnded),
				Text:      ex.why,
				Condition: domain.TextCondition("If Q1 = " + ex.yes),
			},
		},
		Outro: ex.outro,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return "{}"
	}
	return strings.TrimSpace(buf.String())
}

func typeLabels(cfg *domain.GenerationConfig) string {
	labels := make([]string, 0, len(cfg.QuestionTypes))
	for _, t := range cfg.QuestionTypes {
		labels = append(labels, QuestionTypeLabel(cfg.SurveyLanguage, t))
	}
	return strings.Join(labels, ", ")
}

func detailLevel(d domain.DetailLevel) string {
	if text, ok := detailLevelText[d]; ok {
		return text
	}
	return string(d)
}

func instructions(cfg *domain.GenerationConfig) string {
	if strings.TrimSpace(cfg.CustomInstructions) == "" {
		return "None"
	}
	return cfg.CustomInstructions
}
