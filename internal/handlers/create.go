package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/micahvs/sentimental-gifts/internal/config"
	"github.com/micahvs/sentimental-gifts/internal/forms"
	"github.com/micahvs/sentimental-gifts/internal/models"
	"github.com/micahvs/sentimental-gifts/internal/store"
	"github.com/micahvs/sentimental-gifts/internal/upload"
)

// Upload preconditions enforced here, before the upload service is invoked.
const maxUploadBytes = 5 << 20 // 5 MiB

type CreateHandler struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  *Sessions
	Uploads   *upload.Service
	Config    *config.Config
}

// formOptions are the select-box choices per product, rendered into the form
// and enforced again by the validation schema.
var formOptions = map[models.ProductType]map[string][]string{
	models.ProductSong: {
		"Occasions":   {"birthday", "anniversary", "graduation", "wedding", "other"},
		"MusicStyles": {"synthwave", "pop", "folk", "rnb", "hiphop", "rock", "classical"},
	},
	models.ProductPortrait: {
		"Styles": {"cartoon", "watercolor", "pencil", "pop-art", "anime"},
	},
	models.ProductPoetry: {
		"Tones":  {"romantic", "funny", "inspirational", "nostalgic", "reflective"},
		"Styles": {"sonnet", "haiku", "freeverse", "limerick", "ode", "illuminated"},
	},
	models.ProductBook: {
		"Styles": {"watercolor", "cartoon", "classic", "whimsical", "cute"},
	},
}

// Form renders the intake form for one product type.
func (h *CreateHandler) Form(w http.ResponseWriter, r *http.Request) {
	product := models.ProductType(r.PathValue("product"))
	if !models.ValidProductType(product) {
		http.NotFound(w, r)
		return
	}
	h.renderForm(w, r, product, nil, url.Values{})
}

// Submit validates an intake submission, uploads any photos, creates the
// order and redirects to the acknowledgement page. Validation failures
// re-render the form with inline field errors and block submission entirely.
func (h *CreateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	product := models.ProductType(r.PathValue("product"))
	if !models.ValidProductType(product) {
		http.NotFound(w, r)
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(6 * maxUploadBytes); err != nil {
			h.renderForm(w, r, product, forms.Errors{"form": "Upload too large. Photos must be under 5MB each."}, url.Values{})
			return
		}
	} else if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, product, forms.Errors{"form": "Invalid form data."}, url.Values{})
		return
	}

	// Posted files are checked and stood in for their URL fields before
	// validation; nothing reaches storage until the whole submission is
	// valid, so a rejected form leaves no orphaned uploads behind.
	fileErrs := h.checkPhotos(r, product)
	input, errs := forms.ParseOrder(product, r.Form)
	for field, msg := range fileErrs {
		errs = mergeError(errs, field, msg)
	}
	if len(errs) > 0 {
		h.renderForm(w, r, product, errs, r.Form)
		return
	}
	h.uploadPhotos(r, input)

	user := h.Sessions.CurrentUser(r)
	if user == nil {
		if h.Config.DemoMode {
			slog.Info("No session during submission, issuing preview order id", "product", product)
			http.Redirect(w, r, "/preview/"+syntheticOrderID(product), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/login?next="+url.QueryEscape("/create/"+string(product)), http.StatusSeeOther)
		return
	}

	order := &models.Order{
		UserID:      user.ID,
		ProductType: product,
		InputData:   input,
		PhoneNumber: strings.TrimSpace(r.Form.Get("phoneNumber")),
	}
	if product == models.ProductPortrait {
		order.ShippingAddress = forms.ParseAddress(r.Form)
	}

	if err := h.Store.CreateOrder(order); err != nil {
		slog.Error("Order creation failed", "user_id", user.ID, "product", product, "error", err)
		if h.Config.DemoMode {
			http.Redirect(w, r, "/preview/"+syntheticOrderID(product), http.StatusSeeOther)
			return
		}
		h.renderForm(w, r, product, forms.Errors{"form": "We could not submit your order. Please try again."}, r.Form)
		return
	}

	slog.Info("Order created", "order_id", order.ID, "user_id", user.ID, "product", product)
	http.Redirect(w, r, "/preview/"+order.ID, http.StatusSeeOther)
}

// checkPhotos validates posted photo files and stands their filenames into
// the form so the schema's required checks see a value. Files are not stored
// yet; uploadPhotos runs only after the whole submission validates.
func (h *CreateHandler) checkPhotos(r *http.Request, product models.ProductType) forms.Errors {
	if r.MultipartForm == nil {
		return nil
	}
	errs := forms.Errors{}
	switch product {
	case models.ProductPortrait:
		if fhs := r.MultipartForm.File["photo"]; len(fhs) > 0 {
			if err := checkPhoto(fhs[0]); err != nil {
				errs["photoUrl"] = err.Error()
				break
			}
			r.Form.Set("photoUrl", fhs[0].Filename)
		}
	case models.ProductBook:
		for _, fh := range r.MultipartForm.File["photos"] {
			if err := checkPhoto(fh); err != nil {
				errs["photoUrls"] = err.Error()
				break
			}
			r.Form.Add("photoUrls", fh.Filename)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkPhoto(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return fmt.Errorf("Please upload an image file.")
	}
	if fh.Size > maxUploadBytes {
		return fmt.Errorf("Please upload an image smaller than 5MB.")
	}
	return nil
}

// uploadPhotos stores the already-validated files and swaps the stand-in
// filenames on the payload for durable URLs. The upload service never fails,
// so neither does this.
func (h *CreateHandler) uploadPhotos(r *http.Request, input models.OrderInput) {
	if r.MultipartForm == nil {
		return
	}
	switch in := input.(type) {
	case *models.PortraitInput:
		if fhs := r.MultipartForm.File["photo"]; len(fhs) > 0 {
			in.PhotoURL = h.uploadOne(fhs[0])
		}
	case *models.BookInput:
		if fhs := r.MultipartForm.File["photos"]; len(fhs) > 0 {
			in.PhotoURLs = in.PhotoURLs[:0]
			for _, fh := range fhs {
				in.PhotoURLs = append(in.PhotoURLs, h.uploadOne(fh))
			}
		}
	}
}

func (h *CreateHandler) uploadOne(fh *multipart.FileHeader) string {
	f, err := fh.Open()
	if err != nil {
		slog.Error("Could not open uploaded file", "file", fh.Filename, "error", err)
		return upload.Placeholder(fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Could not read uploaded file", "file", fh.Filename, "error", err)
		return upload.Placeholder(fh.Filename)
	}
	return h.Uploads.Upload(upload.File{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
}

func (h *CreateHandler) renderForm(w http.ResponseWriter, r *http.Request, product models.ProductType, errs forms.Errors, values url.Values) {
	tmpl := h.Templates.Get("create.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := h.Sessions.Session(r)
	data := map[string]interface{}{
		"Product":   product,
		"Options":   formOptions[product],
		"Errors":    errs,
		"Values":    values,
		"User":      h.Sessions.CurrentUser(r),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	if len(errs) > 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	tmpl.Execute(w, data)
}

// syntheticOrderID marks an order that was never persisted. The preview-
// prefix keeps it distinguishable from store-generated uuids.
func syntheticOrderID(product models.ProductType) string {
	return fmt.Sprintf("preview-%s-%d", product, time.Now().UnixMilli())
}

func mergeError(errs forms.Errors, field, msg string) forms.Errors {
	if errs == nil {
		errs = forms.Errors{}
	}
	errs[field] = msg
	return errs
}
