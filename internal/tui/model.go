// Package tui is the interactive terminal front end of the catalog.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/talkincode/productdesk/internal/catalog"
	"github.com/talkincode/productdesk/internal/domain"
	"github.com/talkincode/productdesk/internal/imaging"
	"github.com/talkincode/productdesk/internal/view"
)

// StatusTimeout is how long a notification stays on screen
const StatusTimeout = 3 * time.Second

type screen int

const (
	screenList screen = iota
	screenForm
)

type (
	initializedMsg struct{ err error }
	savedMsg       struct{ err error }
	deletedMsg     struct{ err error }
	encodedMsg     struct {
		path string
		img  imaging.Image
		err  error
	}
	notificationMsg catalog.Notification
	hideStatusMsg   struct{ seq int }
)

// Model is the bubbletea model for the product list and form
type Model struct {
	ctx        context.Context
	ctl        *catalog.Controller
	enc        *imaging.Encoder
	notes      <-chan catalog.Notification
	styles     view.Styles
	breakpoint int

	width  int
	height int
	screen screen

	search    textinput.Model
	searching bool
	products  []domain.Product
	cursor    int
	form      productForm

	status    *catalog.Notification
	statusSeq int
	loading   bool
	busy      bool
}

// Options configure a Model. Notes may be nil, in which case only locally
// produced messages reach the status line.
type Options struct {
	Encoder    *imaging.Encoder
	Notes      <-chan catalog.Notification
	Breakpoint int
	// Initialize loads the catalog when the program starts
	Initialize bool
}

func New(ctx context.Context, ctl *catalog.Controller, opts Options) Model {
	if opts.Encoder == nil {
		opts.Encoder = imaging.NewEncoder(imaging.DefaultBoundingBox, imaging.DefaultQuality)
	}
	if opts.Breakpoint <= 0 {
		opts.Breakpoint = view.DefaultBreakpoint
	}
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title or category"
	search.CharLimit = 128
	search.Width = 40
	search.SetValue(ctl.SearchTerm())

	return Model{
		ctx:        ctx,
		ctl:        ctl,
		enc:        opts.Encoder,
		notes:      opts.Notes,
		styles:     view.DefaultStyles(),
		breakpoint: opts.Breakpoint,
		width:      80,
		search:     search,
		products:   ctl.View(),
		loading:    opts.Initialize,
	}
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.loading {
		cmds = append(cmds, m.initialize())
	}
	if m.notes != nil {
		cmds = append(cmds, waitForNotification(m.notes))
	}
	return tea.Batch(cmds...)
}

func (m Model) initialize() tea.Cmd {
	return func() tea.Msg {
		return initializedMsg{err: m.ctl.Initialize(m.ctx)}
	}
}

func waitForNotification(ch <-chan catalog.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case initializedMsg:
		m.loading = false
		m.refresh()
		return m, m.localStatus(msg.err)

	case notificationMsg:
		cmd := m.showStatus(catalog.Notification(msg))
		return m, tea.Batch(cmd, waitForNotification(m.notes))

	case hideStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = nil
		}
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err == nil || domain.IsCode(msg.err, domain.CodeStorageQuota) {
			// a quota failure still keeps the product, leave the form
			m.screen = screenList
		}
		m.refresh()
		return m, m.localStatus(msg.err)

	case deletedMsg:
		m.busy = false
		m.refresh()
		return m, m.localStatus(msg.err)

	case encodedMsg:
		if msg.err != nil {
			return m, m.showStatus(errorNote(msg.err))
		}
		if m.screen == screenForm && m.form.imagePath() == msg.path {
			m.form.setImage(msg.path, msg.img)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenForm {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.products = m.ctl.Search(m.search.Value())
		m.clampCursor()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.products)-1 {
			m.cursor++
		}
	case "n":
		m.ctl.CancelEdit()
		m.form = newProductForm(nil)
		m.screen = screenForm
		return m, textinput.Blink
	case "e", "enter":
		p, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ctl.BeginEdit(p)
		m.form = newProductForm(&p)
		m.screen = screenForm
		return m, textinput.Blink
	case "d":
		p, ok := m.selected()
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		ctl, ctx := m.ctl, m.ctx
		return m, func() tea.Msg {
			return deletedMsg{err: ctl.Delete(ctx, p.ID)}
		}
	case "r":
		m.loading = true
		return m, m.initialize()
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.ctl.CancelEdit()
		m.screen = screenList
		return m, nil
	case "tab", "down":
		cmd := m.leaveField()
		m.form.move(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.leaveField()
		m.form.move(-1)
		return m, cmd
	case "enter", "ctrl+s":
		if msg.String() == "enter" && m.form.focus != fieldCount-1 {
			cmd := m.leaveField()
			m.form.move(1)
			return m, cmd
		}
		return m.submit()
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// leaveField starts encoding when focus moves off a changed image path.
func (m Model) leaveField() tea.Cmd {
	if m.form.focus != fieldImage || !m.form.needsEncoding() {
		return nil
	}
	return encodeFile(m.enc, m.form.imagePath())
}

func encodeFile(enc *imaging.Encoder, path string) tea.Cmd {
	return func() tea.Msg {
		img, err := enc.EncodeFile(path)
		return encodedMsg{path: path, img: img, err: err}
	}
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.form.needsEncoding() {
		// encode synchronously so the draft carries the picture
		img, err := m.enc.EncodeFile(m.form.imagePath())
		if err != nil {
			return m, m.showStatus(errorNote(err))
		}
		m.form.setImage(m.form.imagePath(), img)
	}
	draft, err := m.form.draft()
	if err != nil {
		return m, m.showStatus(errorNote(err))
	}

	m.busy = true
	ctl, ctx := m.ctl, m.ctx
	if m.form.editing != nil {
		return m, func() tea.Msg {
			_, err := ctl.Update(ctx, draft)
			return savedMsg{err: err}
		}
	}
	return m, func() tea.Msg {
		_, err := ctl.Create(ctx, draft)
		return savedMsg{err: err}
	}
}

// localStatus shows err when no notification channel reports it.
func (m *Model) localStatus(err error) tea.Cmd {
	if err == nil || m.notes != nil {
		return nil
	}
	return m.showStatus(errorNote(err))
}

func (m *Model) showStatus(n catalog.Notification) tea.Cmd {
	m.statusSeq++
	m.status = &n
	seq := m.statusSeq
	return tea.Tick(StatusTimeout, func(time.Time) tea.Msg {
		return hideStatusMsg{seq: seq}
	})
}

func errorNote(err error) catalog.Notification {
	return catalog.Notification{
		Level:   catalog.LevelError,
		Code:    domain.CodeOf(err),
		Message: domain.MessageOf(err),
		At:      time.Now(),
	}
}

func (m *Model) refresh() {
	m.products = m.ctl.View()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.products) {
		m.cursor = len(m.products) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (domain.Product, bool) {
	if m.cursor < 0 || m.cursor >= len(m.products) {
		return domain.Product{}, false
	}
	return m.products[m.cursor], true
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("ProductDesk"))
	sb.WriteString("\n\n")

	if m.screen == screenForm {
		sb.WriteString(m.formView())
	} else {
		sb.WriteString(m.listView())
	}

	if m.status != nil {
		sb.WriteString("\n")
		sb.WriteString(m.statusView())
	}
	return sb.String()
}

func (m Model) listView() string {
	var sb strings.Builder
	sb.WriteString(m.search.View())
	sb.WriteString("\n\n")
	if m.loading {
		sb.WriteString(m.styles.Muted.Render("Loading products..."))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(view.Render(view.Rows(m.products), m.cursor, m.width, m.breakpoint, m.styles))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("↑/↓ select • / search • n new • e edit • d delete • r reload • q quit"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) formView() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Bold.Render(m.form.title()))
	sb.WriteString("\n\n")
	for i, in := range m.form.inputs {
		label := m.styles.Muted.Render(fmt.Sprintf("%-12s", fieldLabels[i]))
		sb.WriteString(label + in.View() + "\n")
	}
	switch {
	case m.form.image == "":
		sb.WriteString(m.styles.Muted.Render("no image yet"))
	case m.form.imageW > 0:
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("image ready (%dx%d)", m.form.imageW, m.form.imageH)))
	default:
		sb.WriteString(m.styles.Muted.Render("keeping current image"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.Muted.Render("tab next • shift+tab back • ctrl+s save • esc cancel"))
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) statusView() string {
	colour := lipgloss.Color("#66bb6a")
	if m.status.Level == catalog.LevelError {
		colour = lipgloss.Color("#e53935")
	}
	return lipgloss.NewStyle().Bold(true).Foreground(colour).Render(m.status.Message)
}

// Listen bridges bus notifications into a channel the model reads.
// Notifications that arrive while the buffer is full are dropped.
func Listen(n *catalog.BusNotifier) (<-chan catalog.Notification, func(), error) {
	ch := make(chan catalog.Notification, 16)
	unsubscribe, err := n.Subscribe(func(note catalog.Notification) {
		select {
		case ch <- note:
		default:
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return ch, unsubscribe, nil
}
