package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"autotube/internal/pkg/errors"
	"autotube/internal/ports"
)

// FFmpeg renders locally by looping the still image over the audio track.
type FFmpeg struct {
	bin       string
	fps       int
	workspace *Workspace
}

func NewFFmpeg(bin string, fps int, ws *Workspace) *FFmpeg {
	if bin == "" {
		bin = "ffmpeg"
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &FFmpeg{bin: bin, fps: fps, workspace: ws}
}

func (f *FFmpeg) Engine() string { return "ffmpeg" }

func (f *FFmpeg) Render(ctx context.Context, req ports.RenderRequest) (*ports.RenderedVideo, error) {
	dir, err := f.workspace.Dir(req.JobID)
	if err != nil {
		return nil, err
	}
	release := f.workspace.Release(req.JobID)

	inputs, err := f.workspace.Materialize(ctx, dir, map[string]string{
		"audio": req.AudioKey,
		"image": req.ImageKey,
	})
	if err != nil {
		release()
		return nil, err
	}

	out := filepath.Join(dir, "video.mp4")
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.bin, Args(inputs["image"], inputs["audio"], out, f.fps)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		release()
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, errors.Truncate(lastLine(stderr.String()), 200))
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		release()
		return nil, fmt.Errorf("ffmpeg produced no video")
	}

	return &ports.RenderedVideo{Path: out, Release: release}, nil
}

// Args builds the ffmpeg command line for a still-image video whose length follows the audio.
func Args(image, audio, out string, fps int) []string {
	return []string{
		"-y",
		"-loop", "1",
		"-i", image,
		"-i", audio,
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-r", strconv.Itoa(fps),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		out,
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
