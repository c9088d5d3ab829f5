package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	pkgio "github.com/matzehuels/wavetower/pkg/io"
	"github.com/matzehuels/wavetower/pkg/wavejson"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerExts are the extensions the picker lists.
var pickerExts = []string{".json", ".json5", ".yaml", ".yml"}

// =============================================================================
// Document scanning
// =============================================================================

// documentEntry is one candidate file in the picker.
type documentEntry struct {
	Path     string
	Format   wavejson.Format
	Signals  int // -1 when the file is not a WaveJSON document
	Size     int64
	Modified time.Time
}

// Valid reports whether the file parsed as a WaveJSON document.
func (d documentEntry) Valid() bool {
	return d.Signals >= 0
}

// scanDocuments lists the WaveJSON candidates directly inside dir, sorted by
// name. Every file is parsed to count its signals.
func scanDocuments(dir string) ([]documentEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []documentEntry
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(pickerExts, strings.ToLower(filepath.Ext(e.Name()))) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		doc := documentEntry{
			Path:     path,
			Format:   wavejson.FormatForPath(path),
			Signals:  -1,
			Size:     info.Size(),
			Modified: info.ModTime(),
		}
		if f, _, err := pkgio.ImportFigure(path, false); err == nil {
			doc.Signals = len(f.Signals())
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// =============================================================================
// DocumentListModel - Interactive document selection
// =============================================================================

// DocumentListModel is the bubbletea model for interactive document
// selection. Files that do not parse are listed but cannot be selected.
type DocumentListModel struct {
	Docs     []documentEntry
	Cursor   int
	Selected *documentEntry
	Height   int
	Offset   int
}

// NewDocumentListModel creates a new document list model.
func NewDocumentListModel(docs []documentEntry) DocumentListModel {
	return DocumentListModel{
		Docs:   docs,
		Height: 15,
	}
}

func (m DocumentListModel) Init() tea.Cmd {
	return nil
}

func (m DocumentListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Docs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Docs) == 0 {
				return m, nil
			}
			doc := m.Docs[m.Cursor]
			if !doc.Valid() {
				return m, nil
			}
			m.Selected = &doc
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m DocumentListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Diagram"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Docs))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Docs[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		signals := "—"
		if d.Valid() {
			signals = fmt.Sprintf("%d", d.Signals)
		}

		rows = append(rows, []string{
			cursor,
			filepath.Base(d.Path),
			string(d.Format),
			signals,
			formatSize(d.Size),
			formatRelativeTime(d.Modified),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "File", "Format", "Signals", "Size", "Modified").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.Offset + row
			if idx >= len(m.Docs) {
				return lipgloss.NewStyle()
			}
			d := m.Docs[idx]
			isCurrent := idx == m.Cursor

			base := lipgloss.NewStyle()
			if col == 4 || col == 5 {
				base = base.Foreground(colorDim)
				if isCurrent {
					base = base.Foreground(colorGray)
				}
			}

			switch {
			case !d.Valid():
				return base.Foreground(colorDim).Bold(isCurrent)
			case isCurrent && col != 4 && col != 5:
				return base.Foreground(colorGreen).Bold(true)
			case isCurrent:
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	if len(m.Docs) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Docs))))
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

func formatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}
