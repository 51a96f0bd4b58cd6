package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"symgrip/internal/domain"
	"symgrip/internal/presenter"
)

// RowKind classifies one line of the result list
type RowKind int

const (
	RowDefinition RowKind = iota // a definition item, possibly with site rows below
	RowSite                      // one declaration site of a multi-site definition
	RowFileHeader                // grouping header for references in one file
	RowReference                 // a single reference
)

// Row is one selectable line of the result list
type Row struct {
	Kind RowKind
	Def  *presenter.DefinitionItem
	Loc  domain.Location
	File string
}

// Navigable reports whether pressing enter on this row goes somewhere
func (r Row) Navigable() bool {
	if r.Kind == RowFileHeader {
		return false
	}
	if r.Kind == RowDefinition && len(r.Def.SubLocations) == 0 {
		return false
	}
	return true
}

// BuildRows flattens a result session into display rows. Definitions come
// first; a definition with more than one declaration site gets one site
// row per location. References follow, grouped per file when the session
// supports reference grouping and flat otherwise.
func BuildRows(defs []*presenter.DefinitionItem, refs []*presenter.ReferenceItem, opts presenter.FindUsagesOptions) []Row {
	var rows []Row

	for _, def := range defs {
		row := Row{Kind: RowDefinition, Def: def}
		if len(def.SubLocations) > 0 {
			row.Loc = def.SubLocations[0]
		}
		rows = append(rows, row)
		if len(def.SubLocations) > 1 {
			for _, loc := range def.SubLocations {
				rows = append(rows, Row{Kind: RowSite, Def: def, Loc: loc})
			}
		}
	}

	if !opts.SupportsReferences {
		for _, ref := range refs {
			rows = append(rows, Row{Kind: RowReference, Loc: ref.Location})
		}
		return rows
	}

	lastFile := ""
	for _, ref := range refs {
		if ref.Location.Path != lastFile {
			rows = append(rows, Row{Kind: RowFileHeader, File: ref.Location.Path})
			lastFile = ref.Location.Path
		}
		rows = append(rows, Row{Kind: RowReference, Loc: ref.Location})
	}
	return rows
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Title          string
	Searching      bool
	HasSession     bool
	Opts           presenter.FindUsagesOptions
	Rows           []Row
	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int
	Completed      bool
	Suggestion     string
	StatusMessage  string
	StatusIsError  bool
	QueryActive    bool
	QueryView      string
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")

	if state.QueryActive {
		content.WriteString(state.QueryView)
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(r.renderList(state))

	content.WriteString("\n")
	if state.StatusMessage != "" {
		style := r.styles.Status
		if state.StatusIsError {
			style = r.styles.Error
		}
		content.WriteString(style.Render(state.StatusMessage))
	}
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render("j/k move  enter open  e editor  / search  x clear  q quit"))

	return content.String()
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("symgrip")
	if !state.HasSession {
		return logo
	}

	right := state.Title
	if state.Searching {
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		right = fmt.Sprintf("%s %s", spinner[frame], right)
	}
	right = r.styles.Dim.Render(right)

	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - lipgloss.Width(logo) - lipgloss.Width(right) - 2
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderList(state ViewState) string {
	if !state.HasSession {
		return r.styles.Dim.Render("Press / to search for a symbol")
	}

	if len(state.Rows) == 0 {
		if !state.Completed {
			return r.styles.Dim.Render("Searching...")
		}
		// Sessions without reference support stay quiet on empty results
		if !state.Opts.SupportsReferences {
			return ""
		}
		out := r.styles.Dim.Render("No results")
		if state.Suggestion != "" {
			out += "\n" + r.styles.Suggestion.Render(fmt.Sprintf("Did you mean %q?", state.Suggestion))
		}
		return out
	}

	start := state.ViewportOffset
	if start > len(state.Rows) {
		start = len(state.Rows)
	}
	end := start + state.ViewportHeight
	if end > len(state.Rows) {
		end = len(state.Rows)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := r.renderRow(state.Rows[i], state.Opts)
		if i == state.SelectedIndex {
			line = r.styles.Selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderRow renders a single result line, honoring the session's column
// options for definitions.
func (r *Renderer) renderRow(row Row, opts presenter.FindUsagesOptions) string {
	switch row.Kind {
	case RowDefinition:
		parts := []string{}
		if opts.IncludeKindColumn {
			parts = append(parts, r.styles.Kind.Render(fmt.Sprintf("[%s]", row.Def.Symbol.Kind)))
		}
		if opts.IncludeContainingTypeAndMemberColumns {
			parts = append(parts, r.styles.Container.Render(row.Def.Symbol.QualifiedName()))
		} else {
			parts = append(parts, r.styles.Symbol.Render(row.Def.Symbol.Name))
		}
		if row.Def.External {
			parts = append(parts, r.styles.External.Render("(external)"))
		}
		switch n := len(row.Def.SubLocations); n {
		case 0:
			parts = append(parts, r.styles.Dim.Render("no declaration site"))
		case 1:
			parts = append(parts, r.styles.Location.Render(formatLocation(row.Loc)))
		default:
			parts = append(parts, r.styles.Dim.Render(fmt.Sprintf("%d sites", n)))
		}
		return strings.Join(parts, " ")

	case RowSite:
		return "    " + r.styles.Location.Render(formatLocation(row.Loc))

	case RowFileHeader:
		return r.styles.FileHeader.Render(row.File)

	case RowReference:
		return "    " + r.styles.Location.Render(formatLocation(row.Loc))
	}
	return ""
}

func formatLocation(loc domain.Location) string {
	return fmt.Sprintf("%s:%d:%d", loc.Path, loc.Pos.Line, loc.Pos.Column)
}
