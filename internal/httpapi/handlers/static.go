package handlers

import (
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"autotube/internal/pkg/errors"
	"autotube/internal/ports"
)

var contentTypes = map[string]string{
	".mp3": "audio/mpeg",
	".jpg": "image/jpeg",
	".png": "image/png",
	".mp4": "video/mp4",
}

// Static streams a stored artifact. The wildcard path is the object key.
func (h *Handler) Static(w http.ResponseWriter, r *http.Request) error {
	key := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if key == "" || key == "." {
		return errors.NotFound("File", key)
	}

	rc, ct, size, err := h.storage.GetObject(r.Context(), key)
	if errors.Is(err, ports.ErrObjectNotFound) {
		return errors.NotFound("File", key)
	}
	if err != nil {
		return errors.Wrap(err, "handlers.static", "failed to read file")
	}
	defer rc.Close()

	if known, ok := contentTypes[path.Ext(key)]; ok {
		ct = known
	}
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	if size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
	return nil
}
