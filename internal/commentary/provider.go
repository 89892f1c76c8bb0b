package commentary

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/balloon-darts/internal/config"
)

// FromSettings picks the generator named by the commentary settings.
// It returns nil when commentary is off. Gemini without an API key falls
// back to the canned lines.
func FromSettings(s config.CommentarySettings, logger *log.Logger) Generator {
	switch s.Provider {
	case "off":
		return nil
	case "canned":
		return NewCannedGenerator(nil)
	}
	if s.APIKey == "" {
		if logger != nil {
			logger.Warn("no Gemini API key, using canned commentary")
		}
		return NewCannedGenerator(nil)
	}
	return &GeminiGenerator{
		APIKey:   s.APIKey,
		Model:    s.Model,
		Endpoint: s.Endpoint,
	}
}
