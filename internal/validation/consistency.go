package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"survey-gen/internal/domain"
)

var defaultValidator = NewValidator(nil)

// normalizeValue is replaced in tests to exercise fault recovery.
var normalizeValue = domain.NormalizeConditionValue

// CheckConsistency validates a survey with English messages.
func CheckConsistency(survey *domain.Survey) []domain.Issue {
	return defaultValidator.CheckConsistency(survey)
}

// CheckConsistency reports structural and conditional-logic problems of a survey
// in encounter order. It never mutates the survey and never panics: a fault
// while checking one condition becomes an issue and the remaining questions are
// still visited. The result is empty, never nil, for a clean survey.
func (v *Validator) CheckConsistency(survey *domain.Survey) []domain.Issue {
	issues := make([]domain.Issue, 0)
	if !survey.HasQuestionList() {
		return append(issues, domain.Issue{Kind: domain.IssueStructural, Message: v.catalog.T("no_questions")})
	}

	for i := range survey.Questions {
		issues = append(issues, v.checkQuestion(survey.Questions, i)...)
	}
	return issues
}

func (v *Validator) checkQuestion(questions []domain.Question, i int) []domain.Issue {
	q := &questions[i]
	ord := i + 1

	if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Type) == "" {
		return []domain.Issue{{
			Question: ord,
			Kind:     domain.IssueField,
			Message:  fmt.Sprintf("%s - %s", v.catalog.T("missing_field"), q.Describe()),
		}}
	}

	qType := strings.ToLower(q.Type)
	if strings.Contains(qType, "choice") && !q.HasOptionList() {
		return []domain.Issue{{Question: ord, Kind: domain.IssueField, Message: v.catalog.T("missing_options")}}
	}
	if strings.Contains(qType, "open") && q.OptionsPresent() {
		return []domain.Issue{{Question: ord, Kind: domain.IssueField, Message: v.catalog.T("unexpected_options")}}
	}

	if q.Condition == nil {
		return nil
	}
	return v.checkCondition(questions, ord, q.Condition)
}

func (v *Validator) checkCondition(questions []domain.Question, ord int, cond *domain.Condition) (issues []domain.Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = append(issues, domain.Issue{
				Question: ord,
				Kind:     domain.IssueConditionRuntime,
				Message:  fmt.Sprintf("%s (%s) - %v", v.catalog.T("condition_error"), cond, r),
			})
		}
	}()

	var token, value string
	switch cond.Kind {
	case domain.ConditionText:
		parts := strings.Split(cond.Text, " = ")
		if len(parts) != 2 {
			return append(issues, v.formatIssue(ord, "invalid_condition_format", cond))
		}
		token, value = parts[0], parts[1]
	case domain.ConditionReference:
		if cond.Question == "" || cond.Value == "" {
			return append(issues, v.formatIssue(ord, "invalid_condition_dict", cond))
		}
		token, value = cond.Question, cond.Value
	default:
		return append(issues, v.formatIssue(ord, "unsupported_condition_type", cond))
	}

	idx, ok := parseQuestionRef(token)
	if !ok {
		return append(issues, v.formatIssue(ord, "invalid_question_ref", cond))
	}
	if idx < 0 || idx >= len(questions) {
		return append(issues, v.referenceIssue(ord, fmt.Sprintf("%s (%s)", v.catalog.T("out_of_bounds"), strings.TrimSpace(token))))
	}

	referenced := &questions[idx]
	normalized := make([]string, 0, len(referenced.Options))
	for _, opt := range referenced.Options {
		n, ok := opt.Normalized()
		if !ok {
			issues = append(issues, domain.Issue{
				Question: idx + 1,
				Kind:     domain.IssueField,
				Message:  fmt.Sprintf("%s (%s)", v.catalog.T("invalid_option_format"), opt),
			})
			continue
		}
		normalized = append(normalized, n)
	}

	want := normalizeValue(value)
	switch {
	case len(normalized) == 0:
		issues = append(issues, v.referenceIssue(ord, fmt.Sprintf("%s (Q%d)", v.catalog.T("no_options_ref"), idx+1)))
	case !slices.Contains(normalized, want):
		listed, _ := json.Marshal(normalized)
		issues = append(issues, v.referenceIssue(ord, fmt.Sprintf("%s (%s) - '%s' %s: %s",
			v.catalog.T("invalid_condition_value"), cond, value,
			v.catalog.Tf("not_in_options", idx+1), listed)))
	}
	return issues
}

func (v *Validator) formatIssue(ord int, key string, cond *domain.Condition) domain.Issue {
	return domain.Issue{
		Question: ord,
		Kind:     domain.IssueConditionFormat,
		Message:  fmt.Sprintf("%s (%s)", v.catalog.T(key), cond),
	}
}

func (v *Validator) referenceIssue(ord int, msg string) domain.Issue {
	return domain.Issue{Question: ord, Kind: domain.IssueConditionReference, Message: msg}
}

// parseQuestionRef turns "If Q3", "Q3" or "3" into the 0-based index 2.
func parseQuestionRef(token string) (int, bool) {
	ref := strings.TrimSpace(strings.ReplaceAll(token, "If Q", ""))
	ref = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(ref, "Q"), "q"))
	n, err := strconv.Atoi(ref)
	if errors.Is(err, strconv.ErrRange) {
		// Too large for int, but still a reference: it is out of bounds.
		return -1, true
	}
	if err != nil {
		return 0, false
	}
	return n - 1, true
}

// ConditionTarget returns the 0-based index of the question cond refers to,
// or false when the condition is malformed or points outside the survey.
func ConditionTarget(cond *domain.Condition, count int) (int, bool) {
	if cond == nil {
		return 0, false
	}
	var token string
	switch cond.Kind {
	case domain.ConditionText:
		parts := strings.Split(cond.Text, " = ")
		if len(parts) != 2 {
			return 0, false
		}
		token = parts[0]
	case domain.ConditionReference:
		token = cond.Question
	default:
		return 0, false
	}
	idx, ok := parseQuestionRef(token)
	if !ok || idx < 0 || idx >= count {
		return 0, false
	}
	return idx, true
}
