package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/micahvs/sentimental-gifts/internal/models"
	"github.com/micahvs/sentimental-gifts/internal/store"
)

type DashboardHandler struct {
	Store     *store.Store
	Templates *TemplateCache
	Sessions  *Sessions
	Home      *HomeHandler
}

// listOrders degrades any read failure to an empty list; a broken store
// must not take the dashboard down with it.
func (h *DashboardHandler) listOrders(user *models.User) []models.Order {
	orders, err := h.Store.ListOrdersByOwner(user.ID)
	if err != nil {
		slog.Error("Order list failed, rendering empty", "user_id", user.ID, "error", err)
		return nil
	}
	return orders
}

// Summary is the dashboard landing page: counts plus the most recent orders.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request, user *models.User) {
	orders := h.listOrders(user)

	processing, complete := 0, 0
	for _, o := range orders {
		if o.Status == models.StatusComplete {
			complete++
		} else {
			processing++
		}
	}
	recent := orders
	if len(recent) > 5 {
		recent = recent[:5]
	}

	tmpl := h.Templates.Get("dashboard.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"User":       user,
		"Total":      len(orders),
		"Processing": processing,
		"Complete":   complete,
		"Recent":     recent,
	})
}

// Orders lists the user's orders newest first, optionally filtered by
// status via the ?status= query parameter.
func (h *DashboardHandler) Orders(w http.ResponseWriter, r *http.Request, user *models.User) {
	orders := h.listOrders(user)

	filter := r.URL.Query().Get("status")
	if filter == string(models.StatusProcessing) || filter == string(models.StatusComplete) {
		filtered := make([]models.Order, 0, len(orders))
		for _, o := range orders {
			if o.Status == models.OrderStatus(filter) {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	tmpl := h.Templates.Get("orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"User":   user,
		"Orders": orders,
		"Filter": filter,
	})
}

// OrderDetail renders one order. An unknown id is a not-found outcome; an
// order owned by someone else redirects to the caller's own list, it never
// renders or 404s.
func (h *DashboardHandler) OrderDetail(w http.ResponseWriter, r *http.Request, user *models.User) {
	orderID := r.PathValue("orderId")

	order, err := h.Store.GetOrderByID(orderID)
	if err != nil {
		slog.Error("Order lookup failed", "order_id", orderID, "error", err)
	}
	if order == nil {
		h.Home.NotFound(w, r)
		return
	}
	if order.UserID != user.ID {
		slog.Warn("Order ownership mismatch", "order_id", orderID, "owner", order.UserID, "requester", user.ID)
		http.Redirect(w, r, "/dashboard/orders", http.StatusSeeOther)
		return
	}

	tmpl := h.Templates.Get("order_detail.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	tmpl.Execute(w, map[string]interface{}{
		"User":  user,
		"Order": order,
		"Input": order.InputData,
	})
}

func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request, user *models.User) {
	session := h.Sessions.Session(r)
	tmpl := h.Templates.Get("profile.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"User":      user,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *DashboardHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, user *models.User) {
	session := h.Sessions.Session(r)
	defer session.Save(r, w)

	fullName := strings.TrimSpace(r.FormValue("fullName"))
	if fullName == "" {
		session.AddFlash(FlashMessage{Type: "error", Message: "Name cannot be empty."})
		http.Redirect(w, r, "/dashboard/profile", http.StatusSeeOther)
		return
	}

	if err := h.Store.UpdateUserProfile(user.ID, fullName); err != nil {
		slog.Error("Profile update failed", "user_id", user.ID, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not update your profile. Please try again."})
		http.Redirect(w, r, "/dashboard/profile", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Profile updated!"})
	http.Redirect(w, r, "/dashboard/profile", http.StatusSeeOther)
}

func (h *DashboardHandler) Settings(w http.ResponseWriter, r *http.Request, user *models.User) {
	session := h.Sessions.Session(r)
	tmpl := h.Templates.Get("settings.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	data := map[string]interface{}{
		"User":      user,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// DeleteAccount is a stub: it acknowledges the request without deleting the
// user or the orders. Fulfillment history has to survive account removal
// until a proper offboarding flow exists.
func (h *DashboardHandler) DeleteAccount(w http.ResponseWriter, r *http.Request, user *models.User) {
	slog.Info("Account deletion requested", "user_id", user.ID)
	session := h.Sessions.Session(r)
	session.AddFlash(FlashMessage{Type: "success", Message: "Account deletion requested. Our team will reach out to confirm."})
	session.Save(r, w)
	http.Redirect(w, r, "/dashboard/settings", http.StatusSeeOther)
}
