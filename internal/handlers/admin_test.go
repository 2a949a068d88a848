package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/micahvs/sentimental-gifts/internal/config"
)

func TestRequireAdmin(t *testing.T) {
	s, sess, tc := newTestEnv(t)
	admin := seedUser(t, s, "admin@example.com")
	regular := seedUser(t, s, "user@example.com")

	h := &AdminHandler{
		Store:     s,
		Templates: tc,
		Sessions:  sess,
		Config:    &config.Config{AdminUserID: admin.ID},
	}

	called := false
	gate := h.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	t.Run("unauthenticated redirects home", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		gate(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))

		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("non-admin identity redirects home", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		for _, c := range signIn(t, sess, regular.ID) {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		gate(rec, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})

	t.Run("allow-listed identity passes", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		for _, c := range signIn(t, sess, admin.ID) {
			req.AddCookie(c)
		}
		gate(httptest.NewRecorder(), req)

		assert.True(t, called)
	})
}

func TestRequireAdminUnconfigured(t *testing.T) {
	s, sess, tc := newTestEnv(t)
	user := seedUser(t, s, "user@example.com")

	h := &AdminHandler{Store: s, Templates: tc, Sessions: sess, Config: &config.Config{}}

	called := false
	gate := h.RequireAdmin(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, c := range signIn(t, sess, user.ID) {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	gate(rec, req)

	assert.False(t, called, "an unset allow-list admits nobody")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAdminListOrders(t *testing.T) {
	s, sess, tc := newTestEnv(t)
	admin := seedUser(t, s, "admin@example.com")
	customer := seedUser(t, s, "c@example.com")

	order := seedSongOrder(t, s, customer.ID)

	h := &AdminHandler{Store: s, Templates: tc, Sessions: sess, Config: &config.Config{AdminUserID: admin.ID}}

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	h.ListOrders(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), order.ID)
}

func TestAdminUpdateOrderStatusValidation(t *testing.T) {
	s, sess, tc := newTestEnv(t)
	h := &AdminHandler{Store: s, Templates: tc, Sessions: sess, Config: &config.Config{}}

	req := httptest.NewRequest(http.MethodPost, "/admin/orders/update", nil)
	req.Form = map[string][]string{"id": {"o1"}, "status": {"shipped"}}
	rec := httptest.NewRecorder()
	h.UpdateOrderStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, "only the two lifecycle states are accepted")
}
