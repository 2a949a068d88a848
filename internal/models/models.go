package models

import (
	"time"
)

// ProductType selects which gift category an order represents.
type ProductType string

const (
	ProductSong     ProductType = "song"
	ProductPortrait ProductType = "portrait"
	ProductPoetry   ProductType = "poetry"
	ProductBook     ProductType = "book"
)

// ValidProductType reports whether pt is one of the four known products.
func ValidProductType(pt ProductType) bool {
	switch pt {
	case ProductSong, ProductPortrait, ProductPoetry, ProductBook:
		return true
	}
	return false
}

// DisplayName returns the customer-facing product label.
func (pt ProductType) DisplayName() string {
	switch pt {
	case ProductSong:
		return "Custom Song"
	case ProductPortrait:
		return "Portrait"
	case ProductPoetry:
		return "Poem"
	case ProductBook:
		return "Children's Book"
	}
	return string(pt)
}

type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusComplete   OrderStatus = "complete"
)

type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	ProductType     ProductType `json:"product_type"`
	InputData       OrderInput  `json:"input_data"`
	ShippingAddress *Address    `json:"shipping_address,omitempty"`
	PhoneNumber     string      `json:"phone_number,omitempty"`
	Status          OrderStatus `json:"status"`
	OutputURL       string      `json:"output_url,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Address is the structured shipping address for physical products.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderInput is the product-specific payload of an order. Exactly one
// concrete type exists per ProductType; callers dispatch on Product().
type OrderInput interface {
	Product() ProductType
}

type SongInput struct {
	RecipientName string `json:"recipient_name" form:"recipientName" validate:"required,min=2"`
	FunFacts      string `json:"fun_facts" form:"funFacts" validate:"required,min=10"`
	Occasion      string `json:"occasion" form:"occasion" validate:"required,oneof=birthday anniversary graduation wedding other"`
	MusicStyle    string `json:"music_style" form:"musicStyle" validate:"required,oneof=synthwave pop folk rnb hiphop rock classical"`
}

func (*SongInput) Product() ProductType { return ProductSong }

type PortraitInput struct {
	PhotoURL string `json:"photo_url" form:"photoUrl" validate:"required"`
	Style    string `json:"style" form:"style" validate:"required,oneof=cartoon watercolor pencil pop-art anime"`
}

func (*PortraitInput) Product() ProductType { return ProductPortrait }

type PoetryInput struct {
	Subject string `json:"subject" form:"subject" validate:"required,min=2"`
	Details string `json:"details" form:"details" validate:"required,min=10"`
	Tone    string `json:"tone" form:"tone" validate:"required,oneof=romantic funny inspirational nostalgic reflective"`
	Style   string `json:"style" form:"style" validate:"required,oneof=sonnet haiku freeverse limerick ode illuminated"`
}

func (*PoetryInput) Product() ProductType { return ProductPoetry }

type BookInput struct {
	Title     string   `json:"title" form:"title" validate:"required,min=2"`
	Premise   string   `json:"premise" form:"premise" validate:"required,min=10"`
	PhotoURLs []string `json:"photo_urls" form:"photoUrls" validate:"required,min=1"`
	Style     string   `json:"style" form:"style" validate:"required,oneof=watercolor cartoon classic whimsical cute"`
}

func (*BookInput) Product() ProductType { return ProductBook }

// NewOrderInput returns an empty payload for a product type, or nil for an
// unknown type.
func NewOrderInput(pt ProductType) OrderInput {
	switch pt {
	case ProductSong:
		return &SongInput{}
	case ProductPortrait:
		return &PortraitInput{}
	case ProductPoetry:
		return &PoetryInput{}
	case ProductBook:
		return &BookInput{}
	}
	return nil
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Password  string    `json:"-"` // bcrypt hash; empty for magic-link-only accounts
	CreatedAt time.Time `json:"created_at"`
}
