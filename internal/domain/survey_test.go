package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSurvey_TopLevel(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantErr       bool
		wantQuestions bool
	}{
		{"object with questions", `{"intro":"Hi","questions":[{"text":"Q","type":"Open-ended"}],"outro":"Bye"}`, false, true},
		{"missing questions", `{"intro":"Hi"}`, false, false},
		{"questions not an array", `{"questions":"nope"}`, false, false},
		{"empty questions", `{"questions":[]}`, false, false},
		{"null document", `null`, false, false},
		{"array document", `[1,2]`, true, false},
		{"string document", `"survey"`, true, false},
		{"broken json", `{"questions":[`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSurvey([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, ErrInvalidSurveyJSON, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuestions, s.HasQuestionList())
		})
	}
}

func TestParseSurvey_LenientQuestions(t *testing.T) {
	input := `{
		"intro": "Welcome",
		"questions": [
			{"type": "Single-choice", "text": "Do you like it?", "options": ["Yes", " No ", 3]},
			{"type": "Open-ended", "text": "Why?", "options": null, "condition": "If Q1 = 'Yes'"},
			{"type": "Multiple-choice", "text": "Pick", "options": [{"value": "A", "label": "a"}, {"label": "b"}, [1]]},
			{"type": "Single-choice", "text": "Struct", "options": "Yes/No", "condition": {"question": "Q1", "value": "No"}},
			"not an object",
			{"TEXT": "Upper", "Type": "open", "condition": ""},
			{"text": "Weird", "type": "open", "condition": 42}
		],
		"outro": "Thanks"
	}`

	s, err := ParseSurvey([]byte(input))
	require.NoError(t, err)
	require.Len(t, s.Questions, 7)
	assert.Equal(t, "Welcome", s.Intro)
	assert.Equal(t, "Thanks", s.Outro)

	q1 := s.Questions[0]
	require.Len(t, q1.Options, 3)
	assert.Equal(t, OptionScalar, q1.Options[2].Kind)
	assert.Equal(t, "3", q1.Options[2].Value)
	norm, ok := q1.Options[1].Normalized()
	assert.True(t, ok)
	assert.Equal(t, "no", norm)
	assert.Nil(t, q1.Condition)

	q2 := s.Questions[1]
	assert.False(t, q2.OptionsPresent())
	require.NotNil(t, q2.Condition)
	assert.Equal(t, ConditionText, q2.Condition.Kind)
	assert.Equal(t, "If Q1 = 'Yes'", q2.Condition.String())

	q3 := s.Questions[2]
	assert.Equal(t, OptionObject, q3.Options[0].Kind)
	assert.Equal(t, "A", q3.Options[0].Value)
	assert.Equal(t, OptionInvalid, q3.Options[1].Kind)
	assert.Equal(t, OptionInvalid, q3.Options[2].Kind)
	_, ok = q3.Options[1].Normalized()
	assert.False(t, ok)

	q4 := s.Questions[3]
	assert.True(t, q4.OptionsPresent())
	assert.False(t, q4.HasOptionList())
	require.NotNil(t, q4.Condition)
	assert.Equal(t, ConditionReference, q4.Condition.Kind)
	assert.Equal(t, "Q1", q4.Condition.Question)
	assert.Equal(t, "No", q4.Condition.Value)

	q5 := s.Questions[4]
	assert.Empty(t, q5.Text)
	assert.Equal(t, `"not an object"`, q5.Describe())

	q6 := s.Questions[5]
	assert.Equal(t, "Upper", q6.Text)
	assert.Equal(t, "open", q6.Type)
	assert.Nil(t, q6.Condition)

	q7 := s.Questions[6]
	require.NotNil(t, q7.Condition)
	assert.Equal(t, ConditionUnsupported, q7.Condition.Kind)
	assert.Equal(t, "42", q7.Condition.String())
}

func TestDecodeCondition_EmptyValues(t *testing.T) {
	for _, raw := range []string{`null`, `""`, `{}`, `[]`, `false`, `0`, `0.0`} {
		t.Run(raw, func(t *testing.T) {
			assert.Nil(t, decodeCondition([]byte(raw)))
		})
	}
}

func TestSurvey_MarshalKeepsModelOutput(t *testing.T) {
	input := `{"intro":"i","questions":[{"text":"t","type":"Single-choice","options":[{"value":"A","extra":1},"B"],"condition":{"question":"Q1","value":"A"}}],"outro":"o"}`
	s, err := ParseSurvey([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestSurvey_MarshalKeepsUnknownMembers(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"top-level title", `{"title":"T","intro":"i","questions":[],"outro":"o"}`},
		{"question ids", `{"intro":"i","questions":[{"id":7,"required":true,"text":"t","type":"Open-ended"}],"outro":"o"}`},
		{"no questions key", `{"title":"T","intro":"i"}`},
		{"malformed questions", `{"intro":"i","questions":"none","outro":"o"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseSurvey([]byte(tt.input))
			require.NoError(t, err)

			out, err := json.Marshal(s)
			require.NoError(t, err)
			assert.JSONEq(t, tt.input, string(out))
		})
	}
}

func TestSurvey_MarshalConstructed(t *testing.T) {
	s := &Survey{
		Intro: "i",
		Questions: []Question{
			{Text: "Like it?", Type: "Single-choice", Options: []Option{ScalarOption("Yes"), ObjectOption("No")}},
			{Text: "Why?", Type: "Open-ended", Condition: TextCondition("If Q1 = Yes")},
			{Text: "Why not?", Type: "Open-ended", Condition: ReferenceCondition("Q1", "No")},
		},
		Outro: "o",
	}
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"intro":"i",
		"questions":[
			{"text":"Like it?","type":"Single-choice","options":["Yes",{"value":"No"}],"condition":null},
			{"text":"Why?","type":"Open-ended","options":null,"condition":"If Q1 = Yes"},
			{"text":"Why not?","type":"Open-ended","options":null,"condition":{"question":"Q1","value":"No"}}
		],
		"outro":"o"
	}`, string(out))
}

func TestNormalizeConditionValue(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Yes", "yes"},
		{"'Yes'", "yes"},
		{`"Yes"`, "yes"},
		{"  ' Yes '  ", "yes"},
		{"Très satisfait", "très satisfait"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeConditionValue(tt.in), tt.in)
	}
	assert.Equal(t, NormalizeOptionValue("Yes"), NormalizeConditionValue("'Yes'"))
}

func TestExtractSurveyJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "fenced block",
			response: "Here you go:\n```json\n{\"questions\": []}\n```\nEnjoy",
			want:     `{"questions": []}`,
		},
		{
			name:     "raw braces",
			response: `Sure! {"intro": "a", "questions": [{"text": "b"}]} Hope it helps.`,
			want:     `{"intro": "a", "questions": [{"text": "b"}]}`,
		},
		{
			name:     "invalid fence does not fall back",
			response: "```json\n{not json}\n```\n{\"questions\": []}",
			wantErr:  true,
		},
		{
			name:     "no json",
			response: "I cannot do that.",
			wantErr:  true,
		},
		{
			name:     "empty",
			response: "   ",
			wantErr:  true,
		},
		{
			name:     "broken braces",
			response: "{\"questions\": [",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSurveyJSON(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripThinking(t *testing.T) {
	in := "<think>\nplanning the outline\n</think>\n\nSection 1: Usage\n"
	assert.Equal(t, "Section 1: Usage", StripThinking(in))
}

func TestIssue_String(t *testing.T) {
	assert.Equal(t, "Q3: Missing options", Issue{Question: 3, Kind: IssueField, Message: "Missing options"}.String())
	assert.Equal(t, "No questions found", Issue{Kind: IssueStructural, Message: "No questions found"}.String())
}
