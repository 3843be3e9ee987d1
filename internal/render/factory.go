package render

import (
	"fmt"

	"autotube/internal/config"
	"autotube/internal/ports"
)

const DefaultFPS = 24

// New builds the configured video renderer. storage is where job artifacts live.
func New(cfg config.RenderConfig, workDir string, storage ports.StorageProvider, videoKey func(string) string) (ports.VideoRenderer, error) {
	ws := NewWorkspace(workDir, storage)

	switch cfg.Engine {
	case "", "ffmpeg":
		return NewFFmpeg(cfg.FFmpegPath, cfg.FPS, ws), nil
	case "http":
		if cfg.HTTPBaseURL == "" {
			return nil, fmt.Errorf("RENDERER_HTTP_BASEURL is required for the http render engine")
		}
		return NewRemote(NewHTTPClient(cfg.HTTPBaseURL), cfg.FPS, ws, videoKey), nil
	default:
		return nil, fmt.Errorf("unknown render engine: %s", cfg.Engine)
	}
}
