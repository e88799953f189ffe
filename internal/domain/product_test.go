package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductDraft_Validate(t *testing.T) {
	valid := ProductDraft{Title: "Lamp", Price: 12.5, Category: "Home", Image: "data:image/jpeg;base64,AA=="}

	cases := []struct {
		name    string
		mutate  func(d *ProductDraft)
		message string
	}{
		{"valid", func(d *ProductDraft) {}, ""},
		{"missing image", func(d *ProductDraft) { d.Image = "" }, "Please upload an image"},
		{"missing title", func(d *ProductDraft) { d.Title = "" }, "Title is required"},
		{"missing category", func(d *ProductDraft) { d.Category = "" }, "Category is required"},
		{"negative price", func(d *ProductDraft) { d.Price = -0.01 }, "Price must not be negative"},
		{"free is fine", func(d *ProductDraft) { d.Price = 0 }, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := valid
			tc.mutate(&d)
			err := d.Validate()
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsCode(err, CodeValidation))
			assert.True(t, IsValidation(err))
			assert.Equal(t, tc.message, MessageOf(err))
		})
	}
}

func TestProductDraft_NormalizeThenValidate(t *testing.T) {
	d := ProductDraft{Title: "   ", Category: " Home ", Image: " data:x "}.Normalize()
	assert.Equal(t, "Home", d.Category)
	assert.Equal(t, "data:x", d.Image)
	assert.True(t, IsCode(d.Validate(), CodeValidation))
}

func TestProductDraft_ApplyKeepsIdentity(t *testing.T) {
	p := Product{ID: 9, Title: "Old", Price: 1, Category: "A", Image: "i", Origin: OriginRemote}
	d := ProductDraft{Title: "New", Price: 2, Category: "B", Description: "d", Image: "j"}

	got := d.Apply(p)
	assert.Equal(t, Product{ID: 9, Title: "New", Price: 2, Category: "B", Description: "d", Image: "j", Origin: OriginRemote}, got)
	assert.Equal(t, d, DraftOf(got))
}

func TestErrorHelpers(t *testing.T) {
	base := NewError(CodeRemote, "Remote catalog unavailable", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("list products: %w", base)

	assert.Equal(t, CodeRemote, CodeOf(wrapped))
	assert.True(t, IsCode(wrapped, CodeRemote))
	assert.False(t, IsValidation(wrapped))
	assert.Equal(t, "Remote catalog unavailable", MessageOf(wrapped))
	assert.Contains(t, base.Error(), "dial tcp: refused")

	plain := errors.New("boom")
	assert.Equal(t, CodeInternal, CodeOf(plain))
	assert.Equal(t, "boom", MessageOf(plain))
	assert.False(t, IsCode(nil, CodeInternal))

	assert.True(t, IsValidation(NewError(CodeNoPendingEdit, "No product is being edited", nil)))
}
