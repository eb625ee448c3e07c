// Package tui is the terminal grid editor. It renders a grid.Controller with
// lipgloss, translates bubbletea key and mouse messages into controller
// events and runs the resulting ops against the API.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cmlabs-hris/grafik-backend-go/internal/client"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/grid"
)

// Backend is the part of the API the editor needs.
type Backend interface {
	grid.Remote
	MonthView(ctx context.Context, req grafik.MonthViewRequest) (grafik.MonthView, error)
	CreateRequest(ctx context.Context, req podanie.CreateRequest) (podanie.RequestResponse, error)
	RequestPDF(ctx context.Context, id int64) (client.File, error)
}

type Options struct {
	// Timeout bounds every API call.
	Timeout time.Duration
	// DownloadDir receives request PDFs; empty means the working directory.
	DownloadDir string
	Logger      *slog.Logger
	// OnLoad is called with every month view fetched, e.g. to cache it.
	OnLoad func(grafik.MonthView)
	// Copy writes to the clipboard; nil uses the system clipboard.
	Copy func(string) error
}

type viewMsg struct {
	view grafik.MonthView
	err  error
}

type outcomeMsg struct {
	gen int
	out grid.Outcome
}

type createdMsg struct {
	resp podanie.RequestResponse
	err  error
}

type savedMsg struct {
	path string
	err  error
}

// requestForm collects the signature before a request is filed.
type requestForm struct {
	draft     grid.RequestDraft
	noun      string
	signature textinput.Model
}

type Model struct {
	backend Backend
	opts    Options
	logger  *slog.Logger

	req  grafik.MonthViewRequest
	view *grafik.MonthView
	ctrl *grid.Controller
	// gen increases with every controller; outcomes of an older one are
	// dropped.
	gen int

	width     int
	height    int
	rowOffset int

	menu      *grid.Menu
	menuIndex int

	form            *requestForm
	confirmAutoPlan bool
	loading         bool

	status    string
	statusErr bool
}

// New builds the editor for the month selected by req.
func New(backend Backend, req grafik.MonthViewRequest, opts Options) *Model {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	return &Model{
		backend: backend,
		opts:    opts,
		logger:  opts.Logger.With("component", "tui"),
		req:     req,
	}
}

// Run starts the editor in the alternate screen with mouse tracking.
func Run(backend Backend, req grafik.MonthViewRequest, opts Options) error {
	p := tea.NewProgram(New(backend, req, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	m.loading = true
	backend, req, timeout := m.backend, m.req, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		v, err := backend.MonthView(ctx, req)
		return viewMsg{view: v, err: err}
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scrollToCursor()
	case viewMsg:
		m.applyView(msg)
	case outcomeMsg:
		cmd = m.applyOutcome(msg)
	case createdMsg:
		if msg.err != nil {
			m.setStatus("Nie udało się złożyć wniosku: "+msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("Złożono: %s (%s - %s)", msg.resp.Title, msg.resp.DateFrom, msg.resp.DateTo), false)
			cmd = m.load()
		}
	case savedMsg:
		if msg.err != nil {
			m.setStatus("Nie udało się pobrać pliku: "+msg.err.Error(), true)
		} else {
			m.setStatus("Zapisano "+msg.path, false)
		}
	case tea.KeyMsg:
		var quit bool
		cmd, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	}
	m.syncMenu()
	return m, cmd
}

func (m *Model) applyView(msg viewMsg) {
	m.loading = false
	if msg.err != nil {
		m.logger.Error("failed to load month view", "error", msg.err)
		m.setStatus("Nie udało się wczytać grafiku: "+msg.err.Error(), true)
		return
	}
	if m.ctrl != nil {
		m.ctrl.Unmount()
	}
	v := msg.view
	m.view = &v
	m.req = grafik.MonthViewRequest{DepartmentID: v.Department.ID, Year: v.Year, Month: v.Month}
	m.ctrl = grid.New(grid.LayoutFromMonthView(v), m.opts.Logger)
	m.ctrl.Mount()
	m.gen++
	m.rowOffset = 0
	m.menu = nil
	if m.opts.OnLoad != nil {
		m.opts.OnLoad(v)
	}
}

func (m *Model) applyOutcome(msg outcomeMsg) tea.Cmd {
	if m.ctrl == nil || msg.gen != m.gen {
		return nil
	}
	m.ctrl.Apply(msg.out)
	if alert := m.ctrl.Alert(); alert != "" {
		m.setStatus(alert, true)
		m.ctrl.DismissAlert()
	}
	if m.ctrl.TakeReload() {
		m.setStatus(fmt.Sprintf("Wygenerowano plan (%d wpisów)", msg.out.Count), false)
		return m.load()
	}
	return nil
}

// syncMenu resets the highlighted item whenever a different menu opens.
func (m *Model) syncMenu() {
	if m.ctrl == nil {
		m.menu = nil
		return
	}
	if cur := m.ctrl.Menu(); cur != m.menu {
		m.menu = cur
		m.menuIndex = 0
	}
}

// run turns an Effect into commands. Ops run concurrently; their outcomes
// come back as messages and are applied on the update goroutine.
func (m *Model) run(e grid.Effect) tea.Cmd {
	if e.Empty() {
		return nil
	}
	var cmds []tea.Cmd
	backend, timeout, gen := m.backend, m.opts.Timeout, m.gen
	for _, op := range e.Ops {
		op := op
		cmds = append(cmds, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			return outcomeMsg{gen: gen, out: grid.Run(ctx, backend, op)}
		})
	}
	if e.Submit != nil {
		cmds = append(cmds, m.openForm(*e.Submit))
	}
	if e.Download != 0 {
		cmds = append(cmds, m.download(e.Download))
	}
	return tea.Batch(cmds...)
}

func (m *Model) openForm(d grid.RequestDraft) tea.Cmd {
	noun := "wniosek"
	for _, t := range m.ctrl.ShiftTypes() {
		if t.ID == d.ShiftTypeID {
			noun = t.RequestNoun()
			break
		}
	}
	in := textinput.New()
	in.Placeholder = "imię i nazwisko"
	in.CharLimit = 255
	in.Width = 40
	m.form = &requestForm{draft: d, noun: noun, signature: in}
	m.setStatus(fmt.Sprintf("Złóż %s %s - %s: podpisz i naciśnij Enter (Esc anuluje)", noun, d.DateFrom, d.DateTo), false)
	return m.form.signature.Focus()
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form
	m.form = nil
	typeID := f.draft.ShiftTypeID
	req := podanie.CreateRequest{
		EmployeeID:  f.draft.EmployeeID,
		ShiftTypeID: &typeID,
		DateFrom:    f.draft.DateFrom,
		DateTo:      f.draft.DateTo,
	}
	if sig := f.signature.Value(); sig != "" {
		req.Signature = &sig
	}
	backend, timeout := m.backend, m.opts.Timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		resp, err := backend.CreateRequest(ctx, req)
		return createdMsg{resp: resp, err: err}
	}
}

func (m *Model) download(id int64) tea.Cmd {
	backend, timeout, dir := m.backend, m.opts.Timeout, m.opts.DownloadDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		f, err := backend.RequestPDF(ctx, id)
		if err != nil {
			return savedMsg{err: err}
		}
		path := filepath.Join(dir, filepath.Base(f.Name))
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{path: path}
	}
}

// shiftMonth moves the view by delta months.
func (m *Model) shiftMonth(delta int) tea.Cmd {
	if m.view == nil {
		return nil
	}
	ref := m.view.Next
	if delta < 0 {
		ref = m.view.Prev
	}
	if ref.Year == 0 {
		t := time.Date(m.view.Year, time.Month(m.view.Month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
		ref = grafik.MonthRef{Year: t.Year(), Month: int(t.Month())}
	}
	m.req = grafik.MonthViewRequest{DepartmentID: m.req.DepartmentID, Year: ref.Year, Month: ref.Month}
	return m.load()
}

func (m *Model) copySelection() {
	text := SelectionTSV(m.ctrl)
	if text == "" {
		m.setStatus("Nic nie zaznaczono", true)
		return
	}
	if err := m.opts.Copy(text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.setStatus("Nie udało się skopiować: "+err.Error(), true)
		return
	}
	m.setStatus(fmt.Sprintf("Skopiowano %d komórek", m.ctrl.Selection().Len()), false)
}
