// Package render produces the single-frame MP4 for a job, either with a local ffmpeg or
// through the external HTTP renderer.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"autotube/internal/ports"
)

// Workspace holds per-job scratch directories under root/jobs/{id}.
type Workspace struct {
	root    string
	storage ports.StorageProvider
}

func NewWorkspace(root string, storage ports.StorageProvider) *Workspace {
	return &Workspace{root: root, storage: storage}
}

// Dir creates and returns the job's scratch directory.
func (w *Workspace) Dir(jobID string) (string, error) {
	dir := filepath.Join(w.root, "jobs", sanitize(jobID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return dir, nil
}

// Materialize downloads each stored object into dir, keeping the key's base name.
// It returns the local path per input name.
func (w *Workspace) Materialize(ctx context.Context, dir string, inputs map[string]string) (map[string]string, error) {
	paths := make(map[string]string, len(inputs))
	for name, key := range inputs {
		local := filepath.Join(dir, sanitize(name)+filepath.Ext(key))
		if err := w.download(ctx, key, local); err != nil {
			return nil, fmt.Errorf("input %s (%s): %w", name, key, err)
		}
		paths[name] = local
	}
	return paths, nil
}

func (w *Workspace) download(ctx context.Context, key, local string) error {
	rc, _, _, err := w.storage.GetObject(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	f, err := os.Create(local)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Release returns a func that removes the job's scratch directory.
func (w *Workspace) Release(jobID string) func() {
	dir := filepath.Join(w.root, "jobs", sanitize(jobID))
	return func() { _ = os.RemoveAll(dir) }
}

func sanitize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "..", "")
	s = strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(s)
	if s == "" {
		return "input"
	}
	return s
}
