package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness and, when a pinger is set, storage reachability.
type Health struct {
	pinger Pinger
}

func NewHealth(pinger Pinger) *Health {
	return &Health{pinger: pinger}
}

func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.pinger.Ping(ctx); err != nil {
			WriteError(w, http.StatusServiceUnavailable, KindInternal, "storage unavailable")
			return
		}
	}

	WriteData(w, http.StatusOK, map[string]string{"status": "ok"}, "healthy")
}
