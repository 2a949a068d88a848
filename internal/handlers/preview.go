package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/micahvs/sentimental-gifts/internal/models"
	"github.com/micahvs/sentimental-gifts/internal/store"
)

// PreviewHandler renders the order-submitted acknowledgement page. It also
// accepts synthetic preview- ids, which have no backing row.
type PreviewHandler struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  *Sessions
	Home      *HomeHandler
}

func (h *PreviewHandler) Show(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("orderId")

	var (
		product models.ProductType
		status  models.OrderStatus
	)
	if strings.HasPrefix(orderID, "preview-") {
		product = syntheticProductType(orderID)
		status = models.StatusProcessing
	} else {
		order, err := h.Store.GetOrderByID(orderID)
		if err != nil {
			slog.Error("Order lookup failed", "order_id", orderID, "error", err)
		}
		if order == nil {
			h.Home.NotFound(w, r)
			return
		}
		product = order.ProductType
		status = order.Status
	}

	tmpl := h.Templates.Get("preview.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"OrderID": orderID,
		"Product": product,
		"Status":  status,
		"User":    h.Sessions.CurrentUser(r),
	})
}

// syntheticProductType recovers the product from a preview-<type>-<ts> id.
func syntheticProductType(orderID string) models.ProductType {
	for _, pt := range []models.ProductType{models.ProductSong, models.ProductPortrait, models.ProductPoetry, models.ProductBook} {
		if strings.Contains(orderID, string(pt)) {
			return pt
		}
	}
	return models.ProductSong
}
