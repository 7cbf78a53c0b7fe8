package config

import (
	"fmt"
	"strings"

	"github.com/voicebridge/translation-engine/internal/domain"
)

// Validate performs business-rule validation on the loaded configuration
// and fills in derived fields. It must be called after loading; Load calls
// it automatically.
func (c *Config) Validate() error {
	supported, err := parseSupportedLanguages(c.Languages.SupportedRaw)
	if err != nil {
		return fmt.Errorf("languages.supported: %w", err)
	}
	c.Languages.Supported = supported

	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache.capacity must be > 0 (got %d)", c.Cache.Capacity)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be > 0 (got %v)", c.Cache.TTL)
	}

	if c.Providers.Cooldown <= 0 {
		return fmt.Errorf("providers.cooldown must be > 0 (got %v)", c.Providers.Cooldown)
	}
	if err := c.Providers.MyMemory.validate("mymemory"); err != nil {
		return err
	}
	if err := c.Providers.LibreTranslate.validate("libretranslate"); err != nil {
		return err
	}
	if c.Model.Enabled && c.Model.Timeout <= 0 {
		return fmt.Errorf("model.timeout must be > 0 (got %v)", c.Model.Timeout)
	}

	if c.Memory.MinConfidence < 0 || c.Memory.MinConfidence > 1 {
		return fmt.Errorf("memory.min_confidence must be in [0,1] (got %v)", c.Memory.MinConfidence)
	}
	if c.Learning.FastTierConfidence <= 0 || c.Learning.FastTierConfidence > 1 {
		return fmt.Errorf("learning.fast_tier_confidence must be in (0,1] (got %v)", c.Learning.FastTierConfidence)
	}
	if c.Learning.ModelTierConfidence <= 0 || c.Learning.ModelTierConfidence > 1 {
		return fmt.Errorf("learning.model_tier_confidence must be in (0,1] (got %v)", c.Learning.ModelTierConfidence)
	}

	// Default provider endpoints and priorities.
	if c.Providers.MyMemory.BaseURL == "" {
		c.Providers.MyMemory.BaseURL = DefaultMyMemoryURL
	}
	if c.Providers.LibreTranslate.BaseURL == "" {
		c.Providers.LibreTranslate.BaseURL = DefaultLibreTranslateURL
	}
	if c.Providers.LibreTranslate.Priority == c.Providers.MyMemory.Priority {
		c.Providers.LibreTranslate.Priority = c.Providers.MyMemory.Priority + 1
	}

	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if !p.Enabled {
		return nil
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("providers.%s.timeout must be > 0 (got %v)", name, p.Timeout)
	}
	return nil
}

// parseSupportedLanguages splits the comma-separated list into normalized
// ISO 639-1 codes. At least two languages are required for a usable pair.
func parseSupportedLanguages(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	seen := make(map[string]bool, len(parts))
	var codes []string
	for _, p := range parts {
		code := domain.NormalizeLang(p)
		if code == "" {
			continue
		}
		if len(code) != 2 {
			return nil, fmt.Errorf("invalid language code %q (want ISO 639-1)", code)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) < 2 {
		return nil, fmt.Errorf("need at least two language codes (got %d)", len(codes))
	}
	return codes, nil
}
