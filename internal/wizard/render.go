package wizard

import (
	"encoding/json"
	"fmt"
	"strings"

	"survey-gen/internal/domain"
	"survey-gen/internal/i18n"
	"survey-gen/internal/validation"
)

// RenderSurvey formats a generated survey for the terminal: intro, numbered
// questions with their options and conditions, the consistency report and
// the outro.
func RenderSurvey(catalog *i18n.Catalog, result *domain.GenerationResult) string {
	if result == nil || result.Survey == nil {
		return ""
	}
	s := result.Survey
	var b strings.Builder

	fmt.Fprintf(&b, "== %s ==\n", catalog.T("generated_survey"))
	fmt.Fprintf(&b, "%s: %s\n\n", catalog.T("introduction"), s.Intro)

	for i := range s.Questions {
		q := &s.Questions[i]
		fmt.Fprintf(&b, "Q%d. %s (%s)\n", i+1, q.Text, q.Type)
		if q.Condition != nil {
			fmt.Fprintf(&b, "    %s: %s\n", catalog.T("condition"), q.Condition)
		}
		if len(q.Options) > 0 {
			fmt.Fprintf(&b, "    %s: %s\n", catalog.T("options"), joinOptions(q.Options))
		}
		if q.Condition != nil {
			b.WriteString("    " + referenceLine(catalog, s, q.Condition) + "\n")
		}
	}
	b.WriteString("\n")

	if len(result.Issues) == 0 {
		b.WriteString(catalog.T("no_issues") + "\n")
	} else {
		fmt.Fprintf(&b, "%s (%s)\n", catalog.T("issues_found"), catalog.Tf("issues_count", len(result.Issues)))
		for _, line := range domain.IssueStrings(result.Issues) {
			b.WriteString("  - " + line + "\n")
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s: %s\n", catalog.T("conclusion"), s.Outro)
	return b.String()
}

// referenceLine shows the options of the question a condition points to, to
// help spot values the model made up.
func referenceLine(catalog *i18n.Catalog, s *domain.Survey, cond *domain.Condition) string {
	idx, ok := validation.ConditionTarget(cond, len(s.Questions))
	if !ok {
		return catalog.Tf("condition_debug_error", cond)
	}
	ref := &s.Questions[idx]
	opts := catalog.T("none")
	if ref.OptionsPresent() {
		values := make([]string, 0, len(ref.Options))
		for _, o := range ref.Options {
			values = append(values, o.String())
		}
		if b, err := json.Marshal(values); err == nil {
			opts = string(b)
		}
	}
	return catalog.Tf("reference_debug", idx+1, opts)
}

func joinOptions(options []domain.Option) string {
	parts := make([]string, 0, len(options))
	for _, o := range options {
		parts = append(parts, o.String())
	}
	return strings.Join(parts, ", ")
}
