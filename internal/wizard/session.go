package wizard

import "survey-gen/internal/domain"

// Session carries the state shared by the wizard steps. The configuration is
// saved once, the outline may be edited, and each generation replaces the
// survey wholesale.
type Session struct {
	config  *domain.GenerationConfig
	outline string
	result  *domain.GenerationResult
}

// SaveConfig stores a copy of cfg.
func (s *Session) SaveConfig(cfg domain.GenerationConfig) {
	s.config = &cfg
}

// Config returns a copy of the saved configuration, or nil before step 1.
func (s *Session) Config() *domain.GenerationConfig {
	if s.config == nil {
		return nil
	}
	c := *s.config
	return &c
}

func (s *Session) Outline() string { return s.outline }

func (s *Session) SetOutline(outline string) { s.outline = outline }

func (s *Session) Result() *domain.GenerationResult { return s.result }

func (s *Session) SetResult(r *domain.GenerationResult) { s.result = r }

// ReadyForOutline reports whether step 2 may run.
func (s *Session) ReadyForOutline() bool { return s.config != nil }

// ReadyForSurvey reports whether step 4 may run.
func (s *Session) ReadyForSurvey() bool { return s.config != nil && s.outline != "" }
