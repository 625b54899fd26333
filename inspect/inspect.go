// Package inspect provides an interactive terminal browser over one
// preprocessor run, letting a developer step through the four passes
// and watch the macro table, section stack, literal pool, and
// conditional depth evolve. It is generalized from the teacher's
// single-instruction-stepping debugger TUI to single-stepping
// preprocessor stages.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/nberlette/gas-preprocessor/preprocessor"
)

// Browser is the text user interface for stepping through a
// preprocessor run's stages.
type Browser struct {
	App    *tview.Application
	Pages  *tview.Pages

	MainLayout *tview.Flex
	OutputView *tview.TextView
	StateView  *tview.TextView
	StageList  *tview.List

	stages  []preprocessor.Stage
	current int
}

// NewBrowser builds a Browser over the stages of one already-completed
// RunStages call.
func NewBrowser(stages []preprocessor.Stage) *Browser {
	b := &Browser{
		App:    tview.NewApplication(),
		stages: stages,
	}

	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	b.showStage(0)

	return b
}

func (b *Browser) initializeViews() {
	b.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	b.OutputView.SetBorder(true).SetTitle(" Output lines ")

	b.StateView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	b.StateView.SetBorder(true).SetTitle(" Component state ")

	b.StageList = tview.NewList().ShowSecondaryText(false)
	b.StageList.SetBorder(true).SetTitle(" Passes ")
	for i, stage := range b.stages {
		idx := i
		b.StageList.AddItem(fmt.Sprintf("%d. %s", i+1, stage.Name), "", 0, func() {
			b.showStage(idx)
		})
	}
}

func (b *Browser) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.OutputView, 0, 3, false).
		AddItem(b.StateView, 0, 1, false)

	b.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.StageList, 0, 1, true).
		AddItem(right, 0, 3, false)

	b.Pages = tview.NewPages().
		AddPage("main", b.MainLayout, true, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlN:
			b.showStage(b.current + 1)
			return nil
		case tcell.KeyCtrlP:
			b.showStage(b.current - 1)
			return nil
		case tcell.KeyCtrlC:
			b.App.Stop()
			return nil
		}
		return event
	})
}

// showStage renders the given stage index; an out-of-range index is
// ignored and the current stage stays shown.
func (b *Browser) showStage(idx int) {
	if idx < 0 || idx >= len(b.stages) {
		return
	}
	b.current = idx
	stage := b.stages[idx]

	b.OutputView.Clear()
	fmt.Fprintf(b.OutputView, "[yellow]%s[white] (%d lines)\n\n", stage.Name, len(stage.Lines))
	fmt.Fprint(b.OutputView, strings.Join(stage.Lines, "\n"))

	b.StateView.Clear()
	if stage.State == "" {
		fmt.Fprint(b.StateView, "[gray]no component state changed this pass[white]")
	} else {
		fmt.Fprint(b.StateView, stage.State)
	}

	b.StageList.SetCurrentItem(idx)
}

// Run starts the interactive browser. It blocks until the user quits
// (Ctrl-C) or closes the application.
func (b *Browser) Run() error {
	return b.App.SetRoot(b.Pages, true).SetFocus(b.StageList).Run()
}

// DumpStages renders every stage non-interactively, for `-dump-macros`/
// `-dump-literals`-style one-shot introspection without a TTY.
func DumpStages(stages []preprocessor.Stage) string {
	var sb strings.Builder
	for i, stage := range stages {
		fmt.Fprintf(&sb, "=== %d. %s (%d lines) ===\n", i+1, stage.Name, len(stage.Lines))
		if stage.State != "" {
			fmt.Fprintf(&sb, "%s\n", stage.State)
		}
		sb.WriteString(strings.Join(stage.Lines, "\n"))
		sb.WriteString("\n\n")
	}
	return sb.String()
}
