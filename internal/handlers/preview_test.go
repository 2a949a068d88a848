package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/micahvs/sentimental-gifts/internal/models"
)

func newPreviewHandler(t *testing.T) (*PreviewHandler, *Sessions) {
	t.Helper()
	s, sess, tc := newTestEnv(t)
	home := &HomeHandler{Templates: tc, Sessions: sess}
	return &PreviewHandler{Store: s, Templates: tc, Sessions: sess, Home: home}, sess
}

func showPreview(h *PreviewHandler, orderID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/preview/"+orderID, nil)
	req.SetPathValue("orderId", orderID)
	rec := httptest.NewRecorder()
	h.Show(rec, req)
	return rec
}

func TestPreviewShowsPersistedOrder(t *testing.T) {
	h, _ := newPreviewHandler(t)
	user := seedUser(t, h.Store, "u@example.com")
	order := seedSongOrder(t, h.Store, user.ID)

	rec := showPreview(h, order.ID)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), order.ID)
}

func TestPreviewSyntheticID(t *testing.T) {
	h, _ := newPreviewHandler(t)

	// No backing row exists for a preview- id; the page still renders.
	rec := showPreview(h, "preview-portrait-1714000000000")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), models.ProductPortrait.DisplayName())
}

func TestPreviewUnknownOrder(t *testing.T) {
	h, _ := newPreviewHandler(t)

	rec := showPreview(h, "no-such-order")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSyntheticProductType(t *testing.T) {
	assert.Equal(t, models.ProductBook, syntheticProductType("preview-book-1714000000000"))
	assert.Equal(t, models.ProductSong, syntheticProductType("preview-gibberish-1714000000000"))
}
