package assets

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the asset endpoints under the given router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/assets", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Show)
		r.Get("/{id}/schedule", h.Schedule)
		r.Get("/{id}/schedule/preview", h.SchedulePreview)
		r.Get("/{id}/children", h.Children)
		r.Post("/{id}/validate", h.Validate)
		r.Post("/{id}/pause", h.Pause)
		r.Post("/{id}/resume", h.Resume)
		r.Post("/{id}/reevaluate", h.Reevaluate)
		r.Post("/{id}/sell", h.Sell)
		r.Post("/{id}/cancel", h.Cancel)
	})
}
