package handlers

import (
	"context"
	"net/http"
	"time"

	"autotube/internal/httpkit"
	"autotube/internal/pkg/errors"
	"autotube/internal/ports"
)

const healthProbeKey = ".health/probe"

// Health reports liveness. With ?deep=true it also pings the job store and the artifact
// storage and reports "degraded" when either fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	health := map[string]any{
		"status":  "ok",
		"service": "autotube-api",
		"version": h.version,
	}

	if r.URL.Query().Get("deep") == "true" {
		checks := map[string]any{
			"store":   h.checkStore(ctx),
			"storage": h.checkStorage(ctx),
		}
		health["checks"] = checks

		for _, c := range checks {
			if c.(map[string]any)["status"] != "ok" {
				health["status"] = "degraded"
				h.log.FromContext(ctx).Warn("health check degraded", "checks", checks)
				break
			}
		}
	}

	httpkit.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) checkStore(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok", "driver": h.store.Driver()}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.store.Ping(checkCtx); err != nil {
		result["status"] = "error"
		result["error"] = err.Error()
	}
	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}

// checkStorage reads a key that normally does not exist. Not found proves the backend answers.
func (h *Handler) checkStorage(ctx context.Context) map[string]any {
	start := time.Now()
	result := map[string]any{"status": "ok", "provider": h.storage.Provider()}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rc, _, _, err := h.storage.GetObject(checkCtx, healthProbeKey)
	switch {
	case err == nil:
		rc.Close()
	case errors.Is(err, ports.ErrObjectNotFound):
	default:
		result["status"] = "error"
		result["error"] = err.Error()
	}
	result["latency_ms"] = time.Since(start).Milliseconds()
	return result
}
