package wizard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"survey-gen/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadGenerationConfig reads a generation config from YAML. Keys missing from
// the file keep the wizard defaults.
func LoadGenerationConfig(path string) (*domain.GenerationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read generation config: %w", err)
	}
	cfg := domain.DefaultGenerationConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse generation config %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveGenerationConfig writes cfg as YAML.
func SaveGenerationConfig(path string, cfg *domain.GenerationConfig) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode generation config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode generation config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write generation config: %w", err)
	}
	return nil
}
