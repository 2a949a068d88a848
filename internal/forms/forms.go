// Package forms holds the per-product intake schemas. Each product type has
// one payload struct in models; this package binds posted values to the right
// struct and runs its validation tags, returning per-field messages.
package forms

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/micahvs/sentimental-gifts/internal/models"
)

// Errors maps a form field name to its validation message. An empty map
// means the submission is valid.
type Errors map[string]string

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the posted field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseOrder binds posted form values to the payload for a product type and
// validates it. The returned payload is only usable when Errors is empty.
// Photo fields are expected to already hold uploaded URLs; the handler runs
// uploads before calling this.
func ParseOrder(pt models.ProductType, values url.Values) (models.OrderInput, Errors) {
	input := models.NewOrderInput(pt)
	if input == nil {
		return nil, Errors{"productType": "Unknown product type."}
	}

	switch in := input.(type) {
	case *models.SongInput:
		in.RecipientName = strings.TrimSpace(values.Get("recipientName"))
		in.FunFacts = strings.TrimSpace(values.Get("funFacts"))
		in.Occasion = values.Get("occasion")
		in.MusicStyle = values.Get("musicStyle")
	case *models.PortraitInput:
		in.PhotoURL = values.Get("photoUrl")
		in.Style = values.Get("style")
	case *models.PoetryInput:
		in.Subject = strings.TrimSpace(values.Get("subject"))
		in.Details = strings.TrimSpace(values.Get("details"))
		in.Tone = values.Get("tone")
		in.Style = values.Get("style")
	case *models.BookInput:
		in.Title = strings.TrimSpace(values.Get("title"))
		in.Premise = strings.TrimSpace(values.Get("premise"))
		in.PhotoURLs = nonEmpty(values["photoUrls"])
		in.Style = values.Get("style")
	}

	return input, Validate(input)
}

// Validate runs the payload's schema and returns per-field messages.
func Validate(input models.OrderInput) Errors {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"form": "Invalid submission."}
	}
	errs := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = message(fe)
		}
	}
	return errs
}

// ParseAddress builds the optional shipping address from posted values.
// Returns nil when no address was entered.
func ParseAddress(values url.Values) *models.Address {
	addr := models.Address{
		Line1:      strings.TrimSpace(values.Get("addressLine1")),
		Line2:      strings.TrimSpace(values.Get("addressLine2")),
		City:       strings.TrimSpace(values.Get("addressCity")),
		State:      strings.TrimSpace(values.Get("addressState")),
		PostalCode: strings.TrimSpace(values.Get("addressPostalCode")),
		Country:    strings.TrimSpace(values.Get("addressCountry")),
	}
	if addr.Line1 == "" && addr.City == "" && addr.PostalCode == "" {
		return nil
	}
	return &addr
}

// fieldMessages mirrors the customer-facing copy for each intake field.
var fieldMessages = map[string]string{
	"recipientName": "Recipient name must be at least 2 characters.",
	"funFacts":      "Please provide at least 10 characters of fun facts.",
	"occasion":      "Please select an occasion.",
	"musicStyle":    "Please select a music style.",
	"photoUrl":      "Please upload a photo.",
	"photoUrls":     "Please upload at least one photo.",
	"style":         "Please select a style.",
	"subject":       "Subject must be at least 2 characters.",
	"details":       "Please provide at least 10 characters of details.",
	"tone":          "Please select a tone.",
	"title":         "Title must be at least 2 characters.",
	"premise":       "Please provide at least 10 characters for the premise.",
}

func message(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "This field is too short."
	case "oneof":
		return "Please select a valid option."
	}
	return "Invalid value."
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
