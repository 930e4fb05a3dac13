package update

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/codec"
	"github.com/sandeepkv93/tasklist/internal/store"
)

// startExport snapshots the store now and writes the file in a command.
func (m Model) startExport(path string) (Model, tea.Cmd) {
	tasks := m.Store.Tasks()
	data, err := codec.Export(tasks)
	if err != nil {
		m.reportErr("export failed", err)
		return m, nil
	}
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join(m.exportDir, codec.ExportFilename(m.now()))
	}
	m.Busy = true
	return m, tea.Batch(m.busySpinner.Tick, writeExportCmd(path, data, len(tasks)))
}

func writeExportCmd(path string, data []byte, count int) tea.Cmd {
	return func() tea.Msg {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return ExportDoneMsg{Path: path, Err: err}
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ExportDoneMsg{Path: path, Err: err}
		}
		return ExportDoneMsg{Path: path, Count: count}
	}
}

func (m Model) startImport(path string) (Model, tea.Cmd) {
	path = strings.TrimSpace(path)
	if path == "" {
		m.setStatus("import requires a file path", true)
		return m, nil
	}
	m.Busy = true
	return m, tea.Batch(m.busySpinner.Tick, readImportCmd(path))
}

func readImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return ImportLoadedMsg{Path: path, Data: data, Err: err}
	}
}

func (m *Model) applyImport(msg ImportLoadedMsg) {
	if msg.Err != nil {
		m.reportErr("import failed", msg.Err)
		return
	}
	res, err := m.Store.Import(m.ctx, msg.Data)
	var formatErr *codec.ImportFormatError
	switch {
	case errors.As(err, &formatErr):
		m.reportErr("Invalid file format", err)
	case errors.Is(err, store.ErrSaveFailed):
		m.reportErr(fmt.Sprintf("%s but saving failed", res.Summary()), err)
	case err != nil:
		m.reportErr("import failed", err)
	default:
		m.setStatus(res.Summary(), false)
	}
}
