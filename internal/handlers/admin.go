package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/micahvs/sentimental-gifts/internal/config"
	"github.com/micahvs/sentimental-gifts/internal/models"
	"github.com/micahvs/sentimental-gifts/internal/store"
)

// AdminHandler is the all-orders surface behind the admin gate. The gate is
// an allow-list of exactly one identity, configured via ADMIN_USER_ID; there
// is deliberately no role system.
type AdminHandler struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  *Sessions
	Config    *config.Config
}

// RequireAdmin redirects everyone but the configured admin identity to the
// home page. An unset allow-list admits nobody.
func (h *AdminHandler) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := h.Sessions.CurrentUser(r)
		if user == nil || h.Config.AdminUserID == "" || user.ID != h.Config.AdminUserID {
			requester := "none"
			if user != nil {
				requester = user.ID
			}
			slog.Info("Admin access denied", "user_id", requester, "path", r.URL.Path)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session := h.Sessions.Session(r)
	data := map[string]interface{}{
		"Stats":   stats,
		"Flashes": GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	orders, err := h.Store.GetAllOrders(limit, offset)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}
	totalOrders, err := h.Store.GetTotalOrdersCount()
	if err != nil {
		http.Error(w, "Error fetching total order count", http.StatusInternalServerError)
		return
	}
	totalPages := (totalOrders + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}

	tmpl := h.Templates.Get("admin_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session := h.Sessions.Session(r)
	data := map[string]interface{}{
		"Orders":      orders,
		"CsrfField":   csrf.TemplateField(r),
		"Flashes":     GetFlash(session),
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// UpdateOrderStatus is the fulfillment transition: marking an order complete
// and attaching the finished artifact URL.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.FormValue("id")
	status := models.OrderStatus(r.FormValue("status"))
	outputURL := r.FormValue("output_url")

	if orderID == "" || (status != models.StatusProcessing && status != models.StatusComplete) {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.Store.UpdateOrderStatus(orderID, status, outputURL); err != nil {
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	session := h.Sessions.Session(r)
	session.AddFlash(FlashMessage{Type: "success", Message: "Order updated!"})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}
