package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cast"
	"github.com/talkincode/productdesk/internal/domain"
	"github.com/talkincode/productdesk/internal/imaging"
)

const (
	fieldTitle = iota
	fieldPrice
	fieldCategory
	fieldDescription
	fieldImage
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Price", "Category", "Description", "Image file"}

// productForm edits the draft fields. The image field holds a file path;
// the encoded data URI lives in image once the path was encoded.
type productForm struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	editing *domain.Product
	image   string
	imageW  int
	imageH  int
	encoded string // path the current image was encoded from
}

func newProductForm(editing *domain.Product) productForm {
	f := productForm{editing: editing}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 512
		ti.Width = 48
		f.inputs[i] = ti
	}
	f.inputs[fieldTitle].CharLimit = 200
	f.inputs[fieldCategory].CharLimit = 100
	f.inputs[fieldPrice].Placeholder = "0.00"
	f.inputs[fieldImage].Placeholder = "path/to/picture.jpg"

	if editing != nil {
		f.inputs[fieldTitle].SetValue(editing.Title)
		f.inputs[fieldPrice].SetValue(cast.ToString(editing.Price))
		f.inputs[fieldCategory].SetValue(editing.Category)
		f.inputs[fieldDescription].SetValue(editing.Description)
		f.image = editing.Image
	}
	f.inputs[fieldTitle].Focus()
	return f
}

func (f productForm) imagePath() string {
	return strings.TrimSpace(f.inputs[fieldImage].Value())
}

// needsEncoding reports whether the image path changed since the last
// successful encode.
func (f productForm) needsEncoding() bool {
	p := f.imagePath()
	return p != "" && p != f.encoded
}

func (f *productForm) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f productForm) update(msg tea.Msg) (productForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// draft collects the form values. A price that does not parse is a
// validation error.
func (f productForm) draft() (domain.ProductDraft, error) {
	var price float64
	if raw := strings.TrimSpace(f.inputs[fieldPrice].Value()); raw != "" {
		v, err := cast.ToFloat64E(raw)
		if err != nil {
			return domain.ProductDraft{}, domain.NewError(domain.CodeValidation, "Price must be a number", err)
		}
		price = v
	}
	return domain.ProductDraft{
		Title:       f.inputs[fieldTitle].Value(),
		Price:       price,
		Category:    f.inputs[fieldCategory].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Image:       f.image,
	}, nil
}

func (f *productForm) setImage(path string, img imaging.Image) {
	f.image = img.DataURI
	f.imageW = img.Width
	f.imageH = img.Height
	f.encoded = path
}

func (f productForm) title() string {
	if f.editing != nil {
		return "Edit product"
	}
	return "Add product"
}
