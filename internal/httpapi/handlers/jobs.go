package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"autotube/internal/httpkit"
	"autotube/internal/jobs"
	"autotube/internal/pkg/errors"
)

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]string{"message": "YouTube Automation Backend Ready"})
}

func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	httpkit.WriteJSON(w, http.StatusOK, map[string]string{"message": "Hello from the backend API!"})
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) error {
	var req jobs.GenerateRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	job, err := h.jobs.Generate(r.Context(), req)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"id": job.ID, "job": job})
	return nil
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) error {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return errors.ValidationField("limit", "limit must be an integer")
		}
		limit = v
	}

	items, err := h.jobs.List(r.Context(), limit)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	return nil
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) error {
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "jobId"))
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, map[string]any{"job": job})
	return nil
}

func (h *Handler) TTS(w http.ResponseWriter, r *http.Request) error {
	var req jobs.TTSRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	res, err := h.jobs.TTS(r.Context(), req)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, res)
	return nil
}

func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) error {
	var req jobs.ThumbnailRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	res, err := h.jobs.Thumbnail(r.Context(), req)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, res)
	return nil
}

// Upload answers 200 for uploaded, requires_credentials and render_failed alike; the
// outcome is in the body's status field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) error {
	var req jobs.UploadRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	res, err := h.jobs.Upload(r.Context(), req)
	if err != nil {
		return err
	}
	httpkit.WriteJSON(w, http.StatusOK, res)
	return nil
}

func decode(r *http.Request, v any) error {
	if err := httpkit.DecodeJSON(r, v); err != nil {
		return errors.New(errors.CodeValidation, "invalid json body").WithField("reason", err.Error())
	}
	return nil
}
