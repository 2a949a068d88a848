package handlers

import (
	"net/http"

	"github.com/micahvs/sentimental-gifts/internal/models"
)

type HomeHandler struct {
	Templates *TemplateCache
	Sessions  *Sessions
}

// Service is one catalog entry on the home page.
type Service struct {
	Type        models.ProductType
	Name        string
	Description string
}

var catalog = []Service{
	{models.ProductSong, "Custom Song", "A personalized song written and produced for someone special."},
	{models.ProductPortrait, "Portrait", "A stylized portrait created from a photo, printed and framed."},
	{models.ProductPoetry, "Poem", "A bespoke poem in the tone and style you choose."},
	{models.ProductBook, "Children's Book", "An illustrated storybook starring the people you love."},
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		h.NotFound(w, r)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session := h.Sessions.Session(r)
	data := map[string]interface{}{
		"Services": catalog,
		"User":     h.Sessions.CurrentUser(r),
		"Flashes":  GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("not_found.html")
	if tmpl == nil {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNotFound)
	tmpl.Execute(w, nil)
}
