package tui

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/domain"
	"github.com/talkincode/productdesk/internal/store"
)

type stubRemote struct{}

func (stubRemote) List(ctx context.Context) ([]domain.Product, error) {
	return []domain.Product{
		{ID: 1, Title: "Shoes", Price: 49.9, Category: "Footwear", Image: "https://img/1.jpg"},
		{ID: 2, Title: "Hat", Price: 12, Category: "Fashion", Image: "https://img/2.jpg"},
	}, nil
}

func (stubRemote) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return p, nil
}

func (stubRemote) Update(ctx context.Context, id int64, p domain.Product) (domain.Product, error) {
	return p, nil
}

func (stubRemote) Delete(ctx context.Context, id int64) error { return nil }

type seq struct{ n int64 }

func (s *seq) NextID() int64 { s.n++; return 5000 + s.n }

func newModel(t *testing.T) (Model, *catalog.Controller) {
	t.Helper()
	ctl := catalog.NewController(stubRemote{}, store.NewLocalStore(store.NewMemoryKV(), "products", 0), &seq{}, nil)
	require.NoError(t, ctl.Initialize(context.Background()))
	return New(context.Background(), ctl, Options{Breakpoint: 100}), ctl
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestModel_LayoutFollowsWidth(t *testing.T) {
	m, _ := newModel(t)

	m, _ = send(m, tea.WindowSizeMsg{Width: 60, Height: 40})
	narrow := m.View()
	assert.Contains(t, narrow, "Shoes")
	assert.NotContains(t, narrow, "items available")

	m, _ = send(m, tea.WindowSizeMsg{Width: 140, Height: 40})
	assert.Contains(t, m.View(), "2 items available")
}

func TestModel_SearchRefiltersOnEveryKey(t *testing.T) {
	m, ctl := newModel(t)

	m, _ = send(m, keys("/"))
	require.True(t, m.searching)
	m, _ = send(m, keys("s"))
	assert.Len(t, m.products, 2)
	m, _ = send(m, keys("h"))
	assert.Len(t, m.products, 2, "Fashion matches by category")
	m, _ = send(m, keys("o"))
	assert.Len(t, m.products, 1)
	assert.Equal(t, "sho", ctl.SearchTerm())

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searching)
	assert.Len(t, m.products, 1)
}

func TestModel_CreateProduct(t *testing.T) {
	m, ctl := newModel(t)

	m, _ = send(m, keys("n"))
	require.Equal(t, screenForm, m.screen)
	m.form.inputs[fieldTitle].SetValue("Desk Lamp")
	m.form.inputs[fieldPrice].SetValue("19.5")
	m.form.inputs[fieldCategory].SetValue("Home")
	m.form.inputs[fieldImage].SetValue(writePNG(t, 900, 600))

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, 300, m.form.imageW)
	assert.Equal(t, 200, m.form.imageH)

	m, _ = send(m, cmd())
	assert.Equal(t, screenList, m.screen)
	local := ctl.Local()
	require.Len(t, local, 1)
	assert.Equal(t, "Desk Lamp", local[0].Title)
	assert.Equal(t, 19.5, local[0].Price)
	assert.True(t, strings.HasPrefix(local[0].Image, "data:image/jpeg;base64,"))
	assert.Len(t, m.products, 3)
}

func TestModel_CreateWithoutImageStaysOnForm(t *testing.T) {
	m, ctl := newModel(t)

	m, _ = send(m, keys("n"))
	m.form.inputs[fieldTitle].SetValue("Desk Lamp")
	m.form.inputs[fieldCategory].SetValue("Home")

	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	assert.Equal(t, screenForm, m.screen)
	assert.Empty(t, ctl.Local())
	require.NotNil(t, m.status)
	assert.Equal(t, "Please upload an image", m.status.Message)
	assert.Contains(t, m.View(), "Please upload an image")
}

func TestModel_InvalidPrice(t *testing.T) {
	m, _ := newModel(t)
	m, _ = send(m, keys("n"))
	m.form.inputs[fieldPrice].SetValue("cheap")
	m.form.image = "data:image/jpeg;base64,AA=="

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, m.status)
	assert.Equal(t, "Price must be a number", m.status.Message)
	assert.False(t, m.busy)
}

func TestModel_EditRemoteProduct(t *testing.T) {
	m, ctl := newModel(t)

	m, _ = send(m, keys("j"))
	m, _ = send(m, keys("e"))
	require.Equal(t, screenForm, m.screen)
	pending, ok := ctl.PendingEdit()
	require.True(t, ok)
	assert.Equal(t, int64(2), pending.ID)
	assert.Equal(t, "Hat", m.form.inputs[fieldTitle].Value())
	assert.Equal(t, "12", m.form.inputs[fieldPrice].Value())

	m.form.inputs[fieldTitle].SetValue("Sun Hat")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = send(m, cmd())

	assert.Equal(t, screenList, m.screen)
	got, _ := ctl.Get(2)
	assert.Equal(t, "Sun Hat", got.Title)
	assert.Equal(t, domain.OriginRemote, got.Origin)
	assert.Equal(t, "https://img/2.jpg", got.Image)
}

func TestModel_EscCancelsEdit(t *testing.T) {
	m, ctl := newModel(t)
	m, _ = send(m, keys("e"))
	_, ok := ctl.PendingEdit()
	require.True(t, ok)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenList, m.screen)
	_, ok = ctl.PendingEdit()
	assert.False(t, ok)
}

func TestModel_Delete(t *testing.T) {
	m, ctl := newModel(t)

	m, cmd := send(m, keys("d"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)
	m, _ = send(m, cmd())

	assert.False(t, m.busy)
	_, found := ctl.Get(1)
	assert.False(t, found)
	assert.Len(t, m.products, 1)
}

func TestModel_StatusHides(t *testing.T) {
	m, _ := newModel(t)
	cmd := m.showStatus(catalog.Notification{Level: catalog.LevelSuccess, Message: "Product added successfully"})
	require.NotNil(t, cmd)
	first := m.statusSeq
	m.showStatus(catalog.Notification{Level: catalog.LevelSuccess, Message: "Product deleted successfully"})

	// the first timer is stale once a newer status replaced it
	m, _ = send(m, hideStatusMsg{seq: first})
	require.NotNil(t, m.status)
	assert.Equal(t, "Product deleted successfully", m.status.Message)

	m, _ = send(m, hideStatusMsg{seq: m.statusSeq})
	assert.Nil(t, m.status)
}

func TestModel_NotificationsFromBus(t *testing.T) {
	bus := catalog.NewBusNotifier(nil)
	notes, unsubscribe, err := Listen(bus)
	require.NoError(t, err)
	defer unsubscribe()

	ctl := catalog.NewController(stubRemote{}, store.NewLocalStore(store.NewMemoryKV(), "products", 0), &seq{}, bus)
	require.NoError(t, ctl.Initialize(context.Background()))
	m := New(context.Background(), ctl, Options{Notes: notes})

	require.NoError(t, ctl.Delete(context.Background(), 1))
	msg := waitForNotification(notes)()
	m, _ = send(m, msg)
	require.NotNil(t, m.status)
	assert.Equal(t, "Product deleted successfully", m.status.Message)
}

type downRemote struct{ stubRemote }

func (downRemote) List(ctx context.Context) ([]domain.Product, error) {
	return nil, domain.NewError(domain.CodeRemote, "Failed to load products", nil)
}

func TestModel_InitializeFailureShowsStatus(t *testing.T) {
	ctl := catalog.NewController(downRemote{}, store.NewLocalStore(store.NewMemoryKV(), "products", 0), &seq{}, nil)
	m := New(context.Background(), ctl, Options{Initialize: true})
	require.True(t, m.loading)

	m, cmd := send(m, initializedMsg{err: ctl.Initialize(context.Background())})
	assert.NotNil(t, cmd)
	assert.False(t, m.loading)
	require.NotNil(t, m.status)
	assert.Equal(t, catalog.LevelError, m.status.Level)
	assert.Contains(t, m.View(), "No Products Available")
}
