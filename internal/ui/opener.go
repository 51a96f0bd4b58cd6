package ui

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"symgrip/internal/domain"
	"symgrip/internal/presenter"
)

// ExternalOpener shows file locations outside the main view, either in
// $EDITOR or in the embedded ov pager. Transient navigation prefers the
// pager so the browsing flow is not interrupted; a full jump goes to the
// editor when one is configured.
type ExternalOpener struct {
	program          *tea.Program
	editorOnNavigate bool
}

// NewExternalOpener creates an opener not yet bound to a program
func NewExternalOpener(editorOnNavigate bool) *ExternalOpener {
	return &ExternalOpener{editorOnNavigate: editorOnNavigate}
}

// SetProgram sets the program reference for terminal management
func (o *ExternalOpener) SetProgram(p *tea.Program) {
	o.program = p
}

// Open shows the location. It declines with (false, nil) when no viewer
// is available for the requested style.
func (o *ExternalOpener) Open(ctx context.Context, loc domain.Location, opts presenter.NavigationOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	if opts.PreferTransientView && !o.editorOnNavigate {
		if err := o.showInPager(loc); err != nil {
			return false, err
		}
		return true, nil
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		// No editor configured; fall back to the pager view
		if err := o.showInPager(loc); err != nil {
			return false, err
		}
		return true, nil
	}
	if err := o.openInEditor(editor, loc); err != nil {
		return false, err
	}
	return true, nil
}

// openInEditor releases the terminal and runs the editor at the location
func (o *ExternalOpener) openInEditor(editor string, loc domain.Location) error {
	if o.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := o.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Clear screen to reduce visual artifacts when returning
		fmt.Print("\x1b[2J\x1b[H")
		time.Sleep(150 * time.Millisecond)
		_ = o.program.RestoreTerminal()
	}()

	// Most editors accept +line to position the cursor
	cmd := exec.Command(editor, fmt.Sprintf("+%d", loc.Pos.Line), loc.Path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Printf("Opening %s:%d in %s", loc.Path, loc.Pos.Line, editor)
	return cmd.Run()
}

// showInPager opens the document in the embedded ov pager
func (o *ExternalOpener) showInPager(loc domain.Location) error {
	if o.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := o.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		fmt.Print("\x1b[2J\x1b[H")
		time.Sleep(150 * time.Millisecond)
		_ = o.program.RestoreTerminal()
	}()

	pager, err := oviewer.Open(loc.Path)
	if err != nil {
		return err
	}
	log.Printf("Previewing %s:%d in pager", loc.Path, loc.Pos.Line)
	return pager.Run()
}
