package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"imagefinder/internal/domain"
	"imagefinder/internal/imagestore"
	"imagefinder/internal/service"
)

// FinderPort is the TUI-facing subset of the finder service.
type FinderPort interface {
	StoreImage(fileName string, data []byte) (string, error)
	FindImage(query string) (domain.SearchMatch, error)
}

type tab int

const (
	tabStore tab = iota
	tabSearch
)

// storeResultMsg carries the outcome of an asynchronous store operation
// back into Update. Receiving it is the only busy -> idle transition, so
// the guard resets on success and on failure alike.
type storeResultMsg struct {
	caption string
	err     error
}

// Model is the Bubble Tea model for the two-tab application.
type Model struct {
	finder    FinderPort
	imagesDir string

	active   tab
	picker   filepicker.Model
	selected string
	busy     bool
	spin     spinner.Model
	search   textinput.Model
	status   string
	result   string
	ready    bool
	width    int
}

// New creates a new TUI model instance.
func New(finder FinderPort, imagesDir string) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".jpg", ".jpeg", ".png"}
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe the image you are looking for"
	ti.CharLimit = 0
	return Model{
		finder:    finder,
		imagesDir: imagesDir,
		picker:    fp,
		spin:      sp,
		search:    ti,
		status:    "Pick an image to store, or switch to search with tab.",
	}
}

// Init initializes the file picker.
func (m Model) Init() tea.Cmd { return m.picker.Init() }

// Update handles key, window and store-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
	case storeResultMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, imagestore.ErrAlreadyExists) {
				m.status = "That filename is already taken. Rename the file to store it."
			} else {
				m.status = "Error: " + msg.err.Error()
			}
		} else {
			m.selected = ""
			m.status = "Image stored. Caption: " + msg.caption
		}
		return m, nil
	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "shift+tab":
			if m.active == tabStore {
				m.active = tabSearch
				m.search.Focus()
				m.status = "Type a query and press Enter."
			} else {
				m.active = tabStore
				m.search.Blur()
				m.status = "Pick an image to store."
			}
			return m, nil
		case "s":
			// Save lives on its own key: enter belongs to the picker.
			if m.active == tabStore && m.selected != "" {
				if m.busy {
					return m, nil
				}
				m.busy = true
				m.status = "Storing " + filepath.Base(m.selected) + "..."
				return m, tea.Batch(m.spin.Tick, storeCmd(m.finder, m.selected))
			}
		case "enter":
			if m.active == tabSearch {
				q := strings.TrimSpace(m.search.Value())
				if q != "" {
					match, err := m.finder.FindImage(q)
					switch {
					case errors.Is(err, service.ErrNoMatch):
						m.result = ""
						m.status = fmt.Sprintf("No match for %q.", q)
					case err != nil:
						m.result = ""
						m.status = "Error: " + err.Error()
					default:
						m.result = renderMatch(match, m.imagesDir)
						m.status = fmt.Sprintf("Best match for %q", q)
					}
					return m, nil
				}
			}
		}
	}
	var cmd tea.Cmd
	if m.active == tabStore {
		if m.busy {
			return m, nil
		}
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.selected = path
			m.status = "Selected " + filepath.Base(path) + ". Press s to store it."
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.status = filepath.Base(path) + " is not a supported image type."
		}
		return m, cmd
	}
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// View renders the tab bar, the active tab and the status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Image Finder")
	tabs := renderTabs(m.active)
	var body string
	if m.active == tabStore {
		lines := []string{m.picker.View()}
		if m.selected != "" {
			lines = append(lines, selectedStyle.Render("Selected: "+m.selected))
		}
		if m.busy {
			lines = append(lines, m.spin.View()+" Captioning and indexing, hang on...")
		}
		body = strings.Join(lines, "\n")
	} else {
		body = queryBoxStyle.Render(m.search.View())
		if m.result != "" {
			body += "\n" + resultBoxStyle.Render(m.result)
		}
	}
	status := statusStyle.Render(m.status)
	return header + "\n" + tabs + "\n" + body + "\n" + status
}

func storeCmd(finder FinderPort, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return storeResultMsg{err: err}
		}
		caption, err := finder.StoreImage(filepath.Base(path), data)
		return storeResultMsg{caption: caption, err: err}
	}
}

func renderMatch(match domain.SearchMatch, imagesDir string) string {
	path := filepath.Join(imagesDir, match.FileName)
	return fmt.Sprintf("%s  score=%.3f\n%s", match.FileName, match.Score, path)
}

func renderTabs(active tab) string {
	labels := []string{"Store image", "Search image"}
	parts := make([]string, len(labels))
	for i, l := range labels {
		if tab(i) == active {
			parts[i] = activeTabStyle.Render(l)
		} else {
			parts[i] = tabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	tabStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Bold(true)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	spinnerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
