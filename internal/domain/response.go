package domain

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	jsonFence  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
)

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrNoJSONFound   = errors.New("no valid JSON found in response")
)

// StripThinking removes <think>...</think> reasoning blocks some models emit and
// trims the remainder.
func StripThinking(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}

// ExtractSurveyJSON locates the JSON document in a model response. A ```json
// fence wins when present and must hold valid JSON; otherwise the span from the
// first '{' to the last '}' is used.
func ExtractSurveyJSON(response string) (string, error) {
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyResponse
	}

	if m := jsonFence.FindStringSubmatch(response); m != nil {
		candidate := m[1]
		if !json.Valid([]byte(candidate)) {
			return "", errors.New("fenced JSON block is not valid JSON")
		}
		return candidate, nil
	}

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end < start {
		return "", ErrNoJSONFound
	}
	candidate := response[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", ErrNoJSONFound
	}
	return candidate, nil
}
