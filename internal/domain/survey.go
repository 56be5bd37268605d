package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Survey is the questionnaire document returned by the generation backend.
// Decoding is lenient below the top level: malformed questions, options and
// conditions are kept so the consistency checker can report them.
type Survey struct {
	Intro     string     `json:"intro"`
	Questions []Question `json:"questions"`
	Outro     string     `json:"outro"`

	// questionsMalformed is set when "questions" was present but not an array.
	questionsMalformed bool
	// fields holds the decoded top-level members in document order.
	fields []member
}

// member is one key of a decoded JSON object.
type member struct {
	Key   string
	Value json.RawMessage
}

// HasQuestionList reports whether the survey carries a non-empty question array.
func (s *Survey) HasQuestionList() bool {
	return s != nil && !s.questionsMalformed && len(s.Questions) > 0
}

// ParseSurvey decodes a survey document. Only input that is not a JSON object
// is rejected.
func ParseSurvey(data []byte) (*Survey, error) {
	var s Survey
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, NewInvalidSurveyJSONError(err)
	}
	return &s, nil
}

func (s *Survey) UnmarshalJSON(data []byte) error {
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("survey must be a JSON object: %w", err)
	}

	fields, err := objectMembers(data)
	if err != nil {
		return fmt.Errorf("survey must be a JSON object: %w", err)
	}
	*s = Survey{
		Intro:  looseString(lookup(wire, "intro")),
		Outro:  looseString(lookup(wire, "outro")),
		fields: fields,
	}

	raw := lookup(wire, "questions")
	if isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		s.questionsMalformed = true
		return nil
	}
	s.Questions = make([]Question, len(items))
	for i, item := range items {
		s.Questions[i].decode(item)
	}
	return nil
}

// MarshalJSON writes a decoded survey back with every member it was read with,
// in the original order; the question list is re-encoded from Questions.
// Surveys built in code get the intro/questions/outro shape.
func (s Survey) MarshalJSON() ([]byte, error) {
	if s.fields == nil {
		type plain Survey
		return marshalUnescaped(plain(s))
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range s.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value := m.Value
		if strings.EqualFold(m.Key, "questions") && s.Questions != nil && !s.questionsMalformed {
			if value, err = marshalUnescaped(s.Questions); err != nil {
				return nil, err
			}
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Question is a single survey item. Ordinal position matters: conditions refer
// to questions by their 1-based index.
type Question struct {
	Text      string     `json:"text"`
	Type      string     `json:"type"`
	Options   []Option   `json:"options"`
	Condition *Condition `json:"condition"`

	optionsMalformed bool
	raw              json.RawMessage
}

// OptionsPresent reports whether the question carried a non-null "options" value.
func (q *Question) OptionsPresent() bool {
	return q.Options != nil || q.optionsMalformed
}

// HasOptionList reports whether the question carries a non-empty options array.
func (q *Question) HasOptionList() bool {
	return !q.optionsMalformed && len(q.Options) > 0
}

// Describe renders the question as compact JSON for diagnostics.
func (q *Question) Describe() string {
	if len(q.raw) > 0 {
		return compactJSON(q.raw)
	}
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Sprintf("%+v", *q)
	}
	return string(b)
}

// MarshalJSON writes a decoded question exactly as it was read, extra members
// included.
func (q Question) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	type plain Question
	return marshalUnescaped(plain(q))
}

func (q *Question) UnmarshalJSON(data []byte) error {
	q.decode(data)
	return nil
}

func (q *Question) decode(data []byte) {
	*q = Question{raw: append(json.RawMessage(nil), data...)}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil || wire == nil {
		return
	}
	q.Text = looseString(lookup(wire, "text"))
	q.Type = looseString(lookup(wire, "type"))

	if raw := lookup(wire, "options"); !isNull(raw) {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			q.optionsMalformed = true
		} else {
			q.Options = make([]Option, len(items))
			for i, item := range items {
				q.Options[i] = decodeOption(item)
			}
		}
	}

	if raw := lookup(wire, "condition"); !isNull(raw) {
		q.Condition = decodeCondition(raw)
	}
}

// OptionKind tags the variants an answer option may take.
type OptionKind int

const (
	OptionInvalid OptionKind = iota
	OptionScalar
	OptionObject
)

// Option is an answer choice: a plain string or number, or an object exposing "value".
type Option struct {
	Kind  OptionKind
	Value string

	raw json.RawMessage
}

// ScalarOption builds a plain-text option.
func ScalarOption(value string) Option {
	return Option{Kind: OptionScalar, Value: value}
}

// ObjectOption builds an option of the form {"value": ...}.
func ObjectOption(value string) Option {
	return Option{Kind: OptionObject, Value: value}
}

// Normalized returns the lowercase trimmed comparison form. ok is false for
// options of unrecognised shape.
func (o Option) Normalized() (string, bool) {
	switch o.Kind {
	case OptionScalar, OptionObject:
		return NormalizeOptionValue(o.Value), true
	default:
		return "", false
	}
}

func (o Option) String() string {
	if o.Kind == OptionInvalid {
		return compactJSON(o.raw)
	}
	return o.Value
}

func (o Option) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	switch o.Kind {
	case OptionScalar:
		return marshalUnescaped(o.Value)
	case OptionObject:
		return marshalUnescaped(map[string]string{"value": o.Value})
	default:
		return []byte("null"), nil
	}
}

func (o *Option) UnmarshalJSON(data []byte) error {
	*o = decodeOption(data)
	return nil
}

func decodeOption(data []byte) Option {
	raw := append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	opt := Option{raw: raw}
	if len(raw) == 0 {
		return opt
	}
	switch raw[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return opt
		}
		if v, ok := scalarText(lookup(obj, "value")); ok {
			opt.Kind, opt.Value = OptionObject, v
		}
	default:
		if v, ok := scalarText(raw); ok {
			opt.Kind, opt.Value = OptionScalar, v
		}
	}
	return opt
}

// ConditionKind tags the variants a display condition may take.
type ConditionKind int

const (
	ConditionUnsupported ConditionKind = iota
	ConditionText
	ConditionReference
)

// Condition gates a question on the answer to an earlier one, either as text
// ("If Q1 = Yes") or as {"question": "Q1", "value": "Yes"}.
type Condition struct {
	Kind     ConditionKind
	Text     string
	Question string
	Value    string

	raw json.RawMessage
}

// TextCondition builds the text form of a condition.
func TextCondition(text string) *Condition {
	return &Condition{Kind: ConditionText, Text: text}
}

// ReferenceCondition builds the structured form of a condition.
func ReferenceCondition(question, value string) *Condition {
	return &Condition{Kind: ConditionReference, Question: question, Value: value}
}

func (c *Condition) String() string {
	if c == nil {
		return ""
	}
	switch c.Kind {
	case ConditionText:
		return c.Text
	case ConditionReference:
		if len(c.raw) > 0 {
			return compactJSON(c.raw)
		}
		b, _ := json.Marshal(map[string]string{"question": c.Question, "value": c.Value})
		return string(b)
	default:
		return compactJSON(c.raw)
	}
}

func (c *Condition) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	switch c.Kind {
	case ConditionText:
		return marshalUnescaped(c.Text)
	case ConditionReference:
		return marshalUnescaped(map[string]string{"question": c.Question, "value": c.Value})
	default:
		return []byte("null"), nil
	}
}

func (c *Condition) UnmarshalJSON(data []byte) error {
	if decoded := decodeCondition(data); decoded != nil {
		*c = *decoded
	}
	return nil
}

// decodeCondition returns nil for empty values ("", {}, [], 0, false, null),
// which mean the question is unconditional.
func decodeCondition(data []byte) *Condition {
	raw := append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	if isNull(raw) {
		return nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return nil
		}
		return &Condition{Kind: ConditionText, Text: s, raw: raw}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil || len(obj) == 0 {
			return nil
		}
		return &Condition{
			Kind:     ConditionReference,
			Question: looseString(lookup(obj, "question")),
			Value:    looseString(lookup(obj, "value")),
			raw:      raw,
		}
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
			return nil
		}
	case 'f':
		return nil
	default:
		if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == 0 {
			return nil
		}
	}
	return &Condition{Kind: ConditionUnsupported, raw: raw}
}

// NormalizeOptionValue is the comparison form of an option.
func NormalizeOptionValue(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeConditionValue is the comparison form of a condition value:
// surrounding quotes removed, trimmed, lowercased.
func NormalizeConditionValue(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `'"`)))
}

// lookup finds a key exactly, then case-insensitively.
// marshalUnescaped is json.Marshal without HTML escaping, so exports keep
// characters such as '<' and '&' readable.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// objectMembers lists the members of a JSON object in document order.
func objectMembers(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	members := []member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		members = append(members, member{Key: key, Value: value})
	}
	return members, nil
}

func lookup(m map[string]json.RawMessage, key string) json.RawMessage {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// scalarText returns the text of a JSON string, number or boolean.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", false
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String(), true
		}
		var b bool
		if err := json.Unmarshal(raw, &b); err == nil {
			return strconv.FormatBool(b), true
		}
		return "", false
	}
}

func looseString(raw json.RawMessage) string {
	s, _ := scalarText(raw)
	return s
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
