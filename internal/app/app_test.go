package app

import (
	"context"
	"testing"
	"time"

	"survey-gen/internal/config"
	"survey-gen/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM: config.LLMConfig{
			Provider:    "ollama",
			Model:       "llama3:instruct",
			ServerURL:   "http://localhost:11434",
			MaxAttempts: 2,
			Timeout:     time.Second,
		},
		Redis: config.RedisConfig{Address: "127.0.0.1:1", SurveyTTL: time.Minute},
		I18n:  config.I18nConfig{InterfaceLanguage: "Français"},
	}
}

func TestBuild_Offline(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Enabled = true

	a, err := Build(context.Background(), cfg, Options{Offline: true})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Service)
	assert.NotNil(t, a.Validator)
	assert.Nil(t, a.Cache)
	assert.Nil(t, a.DB)
	assert.Equal(t, i18n.French, a.Catalog.Language())
	assert.NoError(t, a.Ping(context.Background()))
}

func TestBuild_InterfaceLanguageOverride(t *testing.T) {
	a, err := Build(context.Background(), testConfig(), Options{Offline: true, InterfaceLanguage: "es"})
	require.NoError(t, err)
	assert.Equal(t, i18n.Spanish, a.Catalog.Language())
}

func TestBuild_UnreachableRedisDegrades(t *testing.T) {
	a, err := Build(context.Background(), testConfig(), Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Cache)
	assert.NotNil(t, a.Service)
}

func TestBuild_ValidationUsesCatalog(t *testing.T) {
	a, err := Build(context.Background(), testConfig(), Options{Offline: true})
	require.NoError(t, err)

	result, err := a.Service.ValidateSurvey([]byte(`{"questions": [
		{"text": "Q", "type": "Single-choice", "options": ["Oui", "Non"]},
		{"text": "Pourquoi ?", "type": "Open-ended", "condition": "If Q9 = Oui"}
	]}`))
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.Issues[0].Question)
}
