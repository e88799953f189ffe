package domain

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Origin identifies the collection that owns a product
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

// Product is a catalog item as seen at the merge boundary
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Image       string  `json:"image"` // inline data URI or remote URL
	Origin      Origin  `json:"origin"`
}

// ProductDraft carries the user-editable fields of a product
type ProductDraft struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,max=100"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

var validate = validator.New()

// Normalize trims surrounding whitespace from the text fields.
func (d ProductDraft) Normalize() ProductDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Category = strings.TrimSpace(d.Category)
	d.Description = strings.TrimSpace(d.Description)
	d.Image = strings.TrimSpace(d.Image)
	return d
}

// Validate checks the draft before it may be saved. A missing image is
// reported on its own so callers can prompt for an upload.
func (d ProductDraft) Validate() error {
	if d.Image == "" {
		return NewError(CodeValidation, "Please upload an image", nil)
	}
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return NewError(CodeValidation, fieldMessage(fe), err)
		}
		return NewError(CodeValidation, "Invalid product", err)
	}
	return nil
}

// Apply returns p with the draft fields copied over; id and origin are kept.
func (d ProductDraft) Apply(p Product) Product {
	p.Title = d.Title
	p.Price = d.Price
	p.Category = d.Category
	p.Description = d.Description
	p.Image = d.Image
	return p
}

// DraftOf extracts the editable fields of a product.
func DraftOf(p Product) ProductDraft {
	return ProductDraft{
		Title:       p.Title,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fe.Field() + " must not be negative"
	case "max":
		return fe.Field() + " is too long"
	default:
		return fe.Field() + " is invalid"
	}
}
