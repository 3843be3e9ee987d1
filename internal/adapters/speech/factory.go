package speech

import (
	"fmt"

	"autotube/internal/config"
	"autotube/internal/ports"
)

// New builds the configured synthesizer.
func New(cfg config.TTSConfig) (ports.Synthesizer, error) {
	switch cfg.Engine {
	case "", "translate":
		return NewTranslate(cfg.BaseURL), nil
	case "command":
		if cfg.Command == "" {
			return nil, fmt.Errorf("TTS_COMMAND is required for the command tts engine")
		}
		return NewCommand(cfg.Command), nil
	default:
		return nil, fmt.Errorf("unknown tts engine: %s", cfg.Engine)
	}
}
