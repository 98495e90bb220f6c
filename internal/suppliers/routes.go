package suppliers

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/products", h.Products)
	r.Get("/{id}/services", h.Services)
	r.Get("/{id}/details", h.Details)
	r.Patch("/{id}/status", h.UpdateStatus)
}
