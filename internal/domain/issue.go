package domain

import "fmt"

// IssueKind classifies a consistency issue.
type IssueKind string

const (
	IssueStructural         IssueKind = "structural"
	IssueField              IssueKind = "field"
	IssueConditionFormat    IssueKind = "condition_format"
	IssueConditionReference IssueKind = "condition_reference"
	IssueConditionRuntime   IssueKind = "condition_runtime"
)

// Issue is one problem found in a survey. Issues are data, not errors.
type Issue struct {
	// Question is the 1-based ordinal the issue is attached to; 0 for survey-level issues.
	Question int       `json:"question,omitempty"`
	Kind     IssueKind `json:"kind"`
	Message  string    `json:"message"`
}

func (i Issue) String() string {
	if i.Question == 0 {
		return i.Message
	}
	return fmt.Sprintf("Q%d: %s", i.Question, i.Message)
}

// IssueStrings renders issues in their display form, keeping order.
func IssueStrings(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.String())
	}
	return out
}

// CountByKind tallies issues per kind.
func CountByKind(issues []Issue) map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, issue := range issues {
		counts[issue.Kind]++
	}
	return counts
}
