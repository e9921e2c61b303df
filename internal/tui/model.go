package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waymark-app/waymark/internal/report"
)

type Screen string

const (
	ScreenList    Screen = "list"
	ScreenForm    Screen = "form"
	ScreenConfirm Screen = "confirm"
	ScreenDetail  Screen = "detail"
)

// Client is the narrow surface the TUI drives. It never reaches the
// settings backend directly; every mutation goes through the report
// store's public operations.
type Client interface {
	Reports(ctx context.Context) ([]report.Report, error)
	Create(ctx context.Context, title, description string) (report.Report, error)
	Delete(ctx context.Context, index int) error
	MapURL(index int) (string, error)
	OpenMap(index int) error
}

type Options struct {
	Client Client
	// Changes is the store's coalesced change signal; each tick refreshes
	// the list from a fresh snapshot.
	Changes <-chan struct{}
	IsTTY   func() bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

type reportItem struct {
	index int
	rep   report.Report
}

func (i reportItem) Title() string { return i.rep.Title }
func (i reportItem) Description() string {
	return i.rep.Description + " @ " + formatPosition(i.rep.Latitude, i.rep.Longitude)
}
func (i reportItem) FilterValue() string { return i.rep.Title }

type loadedMsg struct {
	reports []report.Report
	err     error
}

type createdMsg struct {
	err error
}

type deletedMsg struct {
	err error
}

type mapOpenedMsg struct {
	err error
}

type storeChangedMsg struct{}

type Model struct {
	client  Client
	changes <-chan struct{}

	screen   Screen
	previous Screen
	err      string

	reportsList list.Model
	titleInput  textinput.Model
	descInput   textinput.Model
	focusDesc   bool

	selectedIndex int
	confirmIndex  int
}

func Run(opts Options) error {
	if opts.IsTTY != nil && !opts.IsTTY() {
		return fmt.Errorf("tui: requires a tty")
	}
	_, err := tea.NewProgram(NewModel(opts)).Run()
	return err
}

func NewModel(opts Options) Model {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.Focus()

	descInput := textinput.New()
	descInput.Placeholder = "What happened?"

	delegate := list.NewDefaultDelegate()
	reportsList := list.New([]list.Item{}, delegate, 0, 0)
	reportsList.Title = "Reports"
	reportsList.SetShowStatusBar(false)
	reportsList.SetFilteringEnabled(true)
	reportsList.SetShowHelp(false)
	reportsList.SetSize(80, 20)

	return Model{
		client:        opts.Client,
		changes:       opts.Changes,
		screen:        ScreenList,
		reportsList:   reportsList,
		titleInput:    titleInput,
		descInput:     descInput,
		selectedIndex: -1,
		confirmIndex:  -1,
	}
}

func (m Model) Init() tea.Cmd {
	if m.client == nil {
		return nil
	}
	return tea.Batch(m.loadReportsCmd(), m.waitForChangeCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		height := typed.Height - 4
		if height < 1 {
			height = 1
		}
		m.reportsList.SetSize(typed.Width, height)
	case loadedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.populateList(typed.reports)
		return m, nil
	case storeChangedMsg:
		return m, tea.Batch(m.loadReportsCmd(), m.waitForChangeCmd())
	case createdMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.screen = ScreenList
		m.resetForm()
		return m, m.loadReportsCmd()
	case deletedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
			return m, nil
		}
		m.err = ""
		m.screen = ScreenList
		m.confirmIndex = -1
		return m, m.loadReportsCmd()
	case mapOpenedMsg:
		if typed.err != nil {
			m.err = typed.err.Error()
		}
		return m, nil
	}

	switch m.screen {
	case ScreenForm:
		return m.updateForm(msg)
	case ScreenConfirm:
		return m.updateConfirm(msg)
	case ScreenDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) View() string {
	header := headerStyle.Render("Waymark") + "  " +
		faintStyle.Render("[a] Add  [enter] Detail  [m] Map  [d] Delete  [q] Quit") + "\n"
	if m.err != "" {
		header += errStyle.Render("Error: "+m.err) + "\n"
	}

	switch m.screen {
	case ScreenForm:
		return header + "\nNew report\n\n" +
			"Title:       " + m.titleInput.View() + "\n" +
			"Description: " + m.descInput.View() + "\n\n" +
			faintStyle.Render("enter: next/submit  esc: cancel")
	case ScreenConfirm:
		return header + fmt.Sprintf("\nDelete report %d?\n\n", m.confirmIndex) +
			faintStyle.Render("[y] Confirm  [n]/[esc] Cancel")
	case ScreenDetail:
		return header + "\n" + m.renderDetail()
	default:
		if len(m.reportsList.Items()) == 0 {
			return header + "\nNo reports yet.\nPress 'a' to record your first incident."
		}
		return header + "\n" + m.reportsList.View()
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if typed, ok := msg.(tea.KeyMsg); ok {
		switch typed.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "a":
			m.previous = m.screen
			m.screen = ScreenForm
			m.focusDesc = false
			m.titleInput.Focus()
			m.descInput.Blur()
			return m, nil
		case "d":
			item, ok := m.reportsList.SelectedItem().(reportItem)
			if !ok {
				return m, nil
			}
			m.previous = m.screen
			m.screen = ScreenConfirm
			m.confirmIndex = item.index
			return m, nil
		case "m":
			item, ok := m.reportsList.SelectedItem().(reportItem)
			if !ok {
				return m, nil
			}
			return m, m.openMapCmd(item.index)
		case "enter":
			item, ok := m.reportsList.SelectedItem().(reportItem)
			if !ok {
				return m, nil
			}
			m.selectedIndex = item.index
			m.previous = ScreenList
			m.screen = ScreenDetail
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.reportsList, cmd = m.reportsList.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if typed, ok := msg.(tea.KeyMsg); ok {
		switch typed.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.screen = m.previous
			m.resetForm()
			return m, nil
		case "tab", "shift+tab":
			m.toggleFormFocus()
			return m, nil
		case "enter":
			if !m.focusDesc {
				m.toggleFormFocus()
				return m, nil
			}
			title := m.titleInput.Value()
			description := m.descInput.Value()
			if title == "" || description == "" {
				m.err = "title and description are required"
				return m, nil
			}
			return m, m.createCmd(title, description)
		}
	}

	var cmd tea.Cmd
	if m.focusDesc {
		m.descInput, cmd = m.descInput.Update(msg)
	} else {
		m.titleInput, cmd = m.titleInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if typed, ok := msg.(tea.KeyMsg); ok {
		switch typed.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "y":
			return m, m.deleteCmd(m.confirmIndex)
		case "n", "esc":
			m.screen = m.previous
			m.confirmIndex = -1
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if typed, ok := msg.(tea.KeyMsg); ok {
		switch typed.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			m.screen = m.previous
			m.selectedIndex = -1
			return m, nil
		case "m":
			return m, m.openMapCmd(m.selectedIndex)
		}
	}
	return m, nil
}

func (m *Model) populateList(reports []report.Report) {
	items := make([]list.Item, 0, len(reports))
	for i, r := range reports {
		items = append(items, reportItem{index: i, rep: r})
	}
	m.reportsList.SetItems(items)
}

func (m *Model) resetForm() {
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.titleInput.Focus()
	m.descInput.Blur()
	m.focusDesc = false
}

func (m *Model) toggleFormFocus() {
	m.focusDesc = !m.focusDesc
	if m.focusDesc {
		m.titleInput.Blur()
		m.descInput.Focus()
	} else {
		m.descInput.Blur()
		m.titleInput.Focus()
	}
}

func (m Model) renderDetail() string {
	item, ok := m.itemAt(m.selectedIndex)
	if !ok {
		return "Report no longer exists.\n\n" + faintStyle.Render("esc: back")
	}
	url, err := m.client.MapURL(item.index)
	if err != nil {
		url = ""
	}
	out := "Title:       " + item.rep.Title + "\n" +
		"Description: " + item.rep.Description + "\n" +
		"Position:    " + formatPosition(item.rep.Latitude, item.rep.Longitude) + "\n"
	if url != "" {
		out += "Map:         " + url + "\n"
	}
	return out + "\n" + faintStyle.Render("[m] Open map  esc: back")
}

func (m Model) itemAt(index int) (reportItem, bool) {
	for _, raw := range m.reportsList.Items() {
		item, ok := raw.(reportItem)
		if ok && item.index == index {
			return item, true
		}
	}
	return reportItem{}, false
}

func (m Model) loadReportsCmd() tea.Cmd {
	return func() tea.Msg {
		reports, err := m.client.Reports(context.Background())
		return loadedMsg{reports: reports, err: err}
	}
}

func (m Model) createCmd(title, description string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.client.Create(context.Background(), title, description)
		return createdMsg{err: err}
	}
}

func (m Model) deleteCmd(index int) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: m.client.Delete(context.Background(), index)}
	}
}

func (m Model) openMapCmd(index int) tea.Cmd {
	return func() tea.Msg {
		return mapOpenedMsg{err: m.client.OpenMap(index)}
	}
}

func (m Model) waitForChangeCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}

func formatPosition(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
