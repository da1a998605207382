package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Quota.DailyLimit < 0 {
		return fmt.Errorf("quota.daily_limit must be >= 0 (got %d)", c.Quota.DailyLimit)
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be > 0 (got %d)", c.LLM.MaxTokens)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be in [0, 1] (got %v)", c.LLM.Temperature)
	}

	if len(c.Stanza.Languages()) == 0 {
		return fmt.Errorf("stanza.preload_languages must list at least one language")
	}

	return nil
}

// Languages parses the comma-separated preload language list. Empty
// entries are dropped.
func (s StanzaConfig) Languages() []string {
	var langs []string
	for _, l := range strings.Split(s.PreloadLanguages, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}
