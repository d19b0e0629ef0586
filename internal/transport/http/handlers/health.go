package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-auth-tokens/internal/pkg/log"
)

// checkTimeout — дедлайн одной проверки зависимости в /healthz.
const checkTimeout = 2 * time.Second

// Pinger — зависимость, доступность которой проверяет /healthz
// (Postgres-хранилище, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Check — именованная проверка зависимости.
type Check struct {
	Name   string
	Pinger Pinger
}

// Livez — процесс жив.
func (h *Handlers) Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Healthz — готовность: все зависимости отвечают на Ping.
// Ответ: {"status": "ok"|"unavailable", "checks": {"postgres": "ok", "redis": "down"}}.
func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))

	for _, c := range h.checks {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		err := c.Pinger.Ping(ctx)
		cancel()

		if err != nil {
			log.From(r.Context()).Warn("health_check_failed",
				slog.String("check", c.Name),
				slog.String("err", err.Error()),
			)
			checks[c.Name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}

	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}
