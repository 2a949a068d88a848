package forms

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micahvs/sentimental-gifts/internal/models"
)

func TestParseOrderSongValid(t *testing.T) {
	values := url.Values{
		"recipientName": {"Sarah"},
		"funFacts":      {"Loves hiking and jazz music"},
		"occasion":      {"birthday"},
		"musicStyle":    {"pop"},
	}

	input, errs := ParseOrder(models.ProductSong, values)
	require.Empty(t, errs)

	song, ok := input.(*models.SongInput)
	require.True(t, ok)
	assert.Equal(t, "Sarah", song.RecipientName)
	assert.Equal(t, "Loves hiking and jazz music", song.FunFacts)
	assert.Equal(t, "birthday", song.Occasion)
	assert.Equal(t, "pop", song.MusicStyle)
	assert.Equal(t, models.ProductSong, song.Product())
}

func TestParseOrderSongInvalid(t *testing.T) {
	tests := []struct {
		name      string
		values    url.Values
		wantField string
	}{
		{
			name: "recipient name too short",
			values: url.Values{
				"recipientName": {"S"},
				"funFacts":      {"Loves hiking and jazz music"},
				"occasion":      {"birthday"},
				"musicStyle":    {"pop"},
			},
			wantField: "recipientName",
		},
		{
			name: "fun facts too short",
			values: url.Values{
				"recipientName": {"Sarah"},
				"funFacts":      {"short"},
				"occasion":      {"birthday"},
				"musicStyle":    {"pop"},
			},
			wantField: "funFacts",
		},
		{
			name: "occasion missing",
			values: url.Values{
				"recipientName": {"Sarah"},
				"funFacts":      {"Loves hiking and jazz music"},
				"musicStyle":    {"pop"},
			},
			wantField: "occasion",
		},
		{
			name: "music style not in enum",
			values: url.Values{
				"recipientName": {"Sarah"},
				"funFacts":      {"Loves hiking and jazz music"},
				"occasion":      {"birthday"},
				"musicStyle":    {"polka"},
			},
			wantField: "musicStyle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := ParseOrder(models.ProductSong, tt.values)
			require.NotEmpty(t, errs, "submission must be blocked")
			assert.Contains(t, errs, tt.wantField)
			assert.NotEmpty(t, errs[tt.wantField])
		})
	}
}

func TestParseOrderPortrait(t *testing.T) {
	_, errs := ParseOrder(models.ProductPortrait, url.Values{"style": {"watercolor"}})
	require.Contains(t, errs, "photoUrl", "a portrait needs a photo")
	assert.Equal(t, "Please upload a photo.", errs["photoUrl"])

	input, errs := ParseOrder(models.ProductPortrait, url.Values{
		"photoUrl": {"/static/uploads/user-uploads/me.jpg"},
		"style":    {"watercolor"},
	})
	require.Empty(t, errs)
	portrait := input.(*models.PortraitInput)
	assert.Equal(t, "watercolor", portrait.Style)
}

func TestParseOrderPoetry(t *testing.T) {
	input, errs := ParseOrder(models.ProductPoetry, url.Values{
		"subject": {"Nature"},
		"details": {"A poem about the changing seasons"},
		"tone":    {"reflective"},
		"style":   {"haiku"},
	})
	require.Empty(t, errs)
	poem := input.(*models.PoetryInput)
	assert.Equal(t, "Nature", poem.Subject)

	_, errs = ParseOrder(models.ProductPoetry, url.Values{
		"subject": {"Nature"},
		"details": {"A poem about the changing seasons"},
		"tone":    {"sarcastic"},
		"style":   {"haiku"},
	})
	assert.Contains(t, errs, "tone")
}

func TestParseOrderBook(t *testing.T) {
	_, errs := ParseOrder(models.ProductBook, url.Values{
		"title":   {"Adventure in the Forest"},
		"premise": {"A story about friendship and discovery"},
		"style":   {"whimsical"},
	})
	require.Contains(t, errs, "photoUrls")
	assert.Equal(t, "Please upload at least one photo.", errs["photoUrls"])

	input, errs := ParseOrder(models.ProductBook, url.Values{
		"title":     {"Adventure in the Forest"},
		"premise":   {"A story about friendship and discovery"},
		"photoUrls": {"/a.jpg", "/b.jpg"},
		"style":     {"whimsical"},
	})
	require.Empty(t, errs)
	book := input.(*models.BookInput)
	assert.Len(t, book.PhotoURLs, 2)
}

func TestParseOrderUnknownProduct(t *testing.T) {
	input, errs := ParseOrder(models.ProductType("sculpture"), url.Values{})
	assert.Nil(t, input)
	assert.NotEmpty(t, errs)
}

func TestParseOrderTrimsWhitespace(t *testing.T) {
	input, errs := ParseOrder(models.ProductSong, url.Values{
		"recipientName": {"  Sarah  "},
		"funFacts":      {" Loves hiking and jazz music "},
		"occasion":      {"birthday"},
		"musicStyle":    {"pop"},
	})
	require.Empty(t, errs)
	assert.Equal(t, "Sarah", input.(*models.SongInput).RecipientName)
}

func TestParseAddress(t *testing.T) {
	assert.Nil(t, ParseAddress(url.Values{}), "no address entered")

	addr := ParseAddress(url.Values{
		"addressLine1":      {"1 Main St"},
		"addressCity":       {"Springfield"},
		"addressPostalCode": {"12345"},
		"addressCountry":    {"US"},
	})
	require.NotNil(t, addr)
	assert.Equal(t, "Springfield", addr.City)
}
