package speech

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"autotube/internal/pkg/errors"
	"autotube/internal/ports"
)

// Command runs an external TTS program as
//
//	<command> --text "..." --lang id [--slow] --output out.mp3
//
// Commands ending in .py run under python3.
type Command struct {
	command string
}

func NewCommand(command string) *Command {
	return &Command{command: strings.TrimSpace(command)}
}

func (c *Command) Engine() string { return "command" }

func (c *Command) Synthesize(ctx context.Context, req ports.SpeechRequest) ([]byte, error) {
	dir, err := os.MkdirTemp("", "autotube-tts-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "speech.mp3")
	args := []string{"--text", req.Text, "--lang", req.Lang, "--output", out}
	if req.Slow {
		args = append(args, "--slow")
	}

	name := c.command
	if strings.HasSuffix(name, ".py") {
		args = append([]string{name}, args...)
		name = "python3"
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", filepath.Base(c.command), err, errors.Truncate(strings.TrimSpace(stderr.String()), 200))
	}

	audio, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("tts command produced no output: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts command produced an empty file")
	}
	return audio, nil
}
