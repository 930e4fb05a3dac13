package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/query"
	"github.com/sandeepkv93/tasklist/internal/store"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeAdd     Mode = "add"
	ModeSearch  Mode = "search"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Search  string
	Palette string
	Toggle  string
	Delete  string
	MoveUp  string
	MoveDn  string
	Export  string
	Help    string
	Quit    string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type Options struct {
	ExportDir            string
	DesktopNotifications bool
	Notifier             DesktopNotifier
	Logger               *log.Logger
	Now                  func() time.Time
}

// Model is the bubbletea front end. It reads the store through its query
// and aggregate methods and mutates it only through store operations.
type Model struct {
	Store          *store.Store
	Mode           Mode
	SelectedTaskID string
	Criteria       query.Criteria
	HelpVisible    bool
	Notifications  []Notification
	DesktopEnabled bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error
	Busy           bool
	Width          int

	ctx       context.Context
	exportDir string
	notifier  DesktopNotifier
	logger    *log.Logger
	now       func() time.Time

	addInput     textinput.Model
	searchInput  textinput.Model
	commandInput textinput.Model
	progressBar  progress.Model
	busySpinner  spinner.Model
	helpModel    help.Model
}

func NewModel(ctx context.Context, st *store.Store, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if st == nil {
		st = store.New()
	}
	m := Model{
		Store: st,
		Mode:  ModeList,
		Keys: GlobalKeyMap{
			Add:     "a",
			Search:  "/",
			Palette: ":",
			Toggle:  " ",
			Delete:  "d",
			MoveUp:  "K",
			MoveDn:  "J",
			Export:  "e",
			Help:    "?",
			Quit:    "q",
		},
		DesktopEnabled: opts.DesktopNotifications,
		ctx:            ctx,
		exportDir:      strings.TrimSpace(opts.ExportDir),
		notifier:       NoopDesktopNotifier{},
		logger:         opts.Logger,
		now:            opts.Now,
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	m.initBubbleComponents()
	m.ensureSelection()
	return m
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = "add> "
	m.addInput.Placeholder = "task text [pts:N] [area:X]"
	m.addInput.CharLimit = 256
	m.addInput.Width = 48

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "search> "
	m.searchInput.Placeholder = "text area:X min:N"
	m.searchInput.CharLimit = 128
	m.searchInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ":"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.progressBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.busySpinner = spinner.New()
	m.busySpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Debug("desktop notification failed", "err", err)
		}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
	m.notify("tasklist", text, levelFromError(isErr))
}

// reportErr shows err in the status bar. Save failures are warnings: the
// change already happened in memory.
func (m *Model) reportErr(prefix string, err error) {
	m.LastError = err
	m.setStatus(fmt.Sprintf("%s: %v", prefix, err), true)
	m.logger.Warn(prefix, "err", err)
}
