// Package tui plays a catalog in the terminal. Hotspots are drawn on a coarse
// map of the picture and picked by their label.
package tui

import (
	"fmt"
	"math"
	"strings"

	"hotspot-quiz-service/internal/app"
	"hotspot-quiz-service/internal/domain"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	mapWidth  = 60
	mapHeight = 18
)

type tviewUI struct {
	app   *tview.Application
	ctrl  *app.Controller
	texts domain.Texts
	items []domain.QuizItem

	prompt   *tview.TextView
	picture  *tview.TextView
	feedback *tview.TextView
	spots    *tview.List
	status   *tview.TextView

	view domain.View
}

// Run blocks until the player quits.
func Run(ctrl *app.Controller) error {
	ui := newTViewUI(ctrl)

	updates, cancel := ctrl.Subscribe()
	defer cancel()
	go func() {
		for view := range updates {
			ui.app.QueueUpdateDraw(func() { ui.render(view) })
		}
	}()

	ui.render(ctrl.Start())
	return ui.app.SetRoot(ui.layout(), true).EnableMouse(true).Run()
}

func newTViewUI(ctrl *app.Controller) *tviewUI {
	tview.Styles.PrimitiveBackgroundColor = tcell.ColorBlack
	tview.Styles.BorderColor = tcell.ColorGold
	tview.Styles.TitleColor = tcell.ColorGold
	tview.Styles.PrimaryTextColor = tcell.ColorWhite
	tview.Styles.SecondaryTextColor = tcell.ColorLightGray

	catalog := ctrl.Catalog()
	ui := &tviewUI{
		app:   tview.NewApplication(),
		ctrl:  ctrl,
		texts: catalog.Texts.WithDefaults(),
		items: catalog.Items,
	}
	ui.build(catalog.Title)
	return ui
}

func (ui *tviewUI) build(title string) {
	ui.prompt = tview.NewTextView().SetDynamicColors(true)
	ui.prompt.SetBorder(true).SetTitle(" " + ui.texts.Heading + " ")

	ui.picture = tview.NewTextView().SetDynamicColors(true)
	ui.picture.SetBorder(true).SetTitle(" " + title + " ")

	ui.feedback = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)

	ui.spots = tview.NewList().ShowSecondaryText(false)
	ui.spots.SetBorder(true).SetTitle(" Hotspots ")
	for i, item := range ui.items {
		id := item.ID
		ui.spots.AddItem(spotLabel(i, item, false), "", spotRune(i), func() {
			ui.ctrl.HandleClick(id)
		})
	}

	ui.status = tview.NewTextView().SetDynamicColors(true)

	ui.app.SetInputCapture(ui.handleGlobalKeys)
}

func (ui *tviewUI) layout() tview.Primitive {
	body := tview.NewFlex().
		AddItem(ui.picture, mapWidth+2, 0, false).
		AddItem(ui.spots, 0, 1, true)

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.prompt, 3, 0, false).
		AddItem(body, mapHeight+2, 0, true).
		AddItem(ui.feedback, 1, 0, false).
		AddItem(ui.status, 1, 0, false)
}

func (ui *tviewUI) handleGlobalKeys(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyEscape || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
		ui.app.Stop()
		return nil
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
		ui.ctrl.Reset()
		return nil
	}
	return ev
}

func (ui *tviewUI) render(view domain.View) {
	ui.view = view

	ui.prompt.SetText(promptText(view, ui.texts))
	ui.picture.SetText(renderMap(ui.items, view, mapWidth, mapHeight))
	ui.feedback.SetText(feedbackText(view))
	ui.status.SetText(statusLine(view, ui.texts))

	for i, item := range ui.items {
		ui.spots.SetItemText(i, spotLabel(i, item, view.Solved(item.ID)), "")
	}
}

func promptText(view domain.View, texts domain.Texts) string {
	switch {
	case view.Phase == domain.PhaseLoading:
		return texts.Loading
	case view.Finished && view.Summary != nil:
		if view.Summary.Comment == "" {
			return "[gold]" + view.Summary.Title + "[-]"
		}
		return "[gold]" + view.Summary.Title + "[-] " + view.Summary.Comment
	case view.CurrentItem != nil:
		return view.CurrentItem.Question
	}
	return ""
}

func feedbackText(view domain.View) string {
	if view.Feedback == nil {
		return ""
	}
	color := "red"
	if view.Feedback.Kind == domain.FeedbackCorrect {
		color = "green"
	}
	return fmt.Sprintf("[%s]%s[-]", color, view.Feedback.Message)
}

func statusLine(view domain.View, texts domain.Texts) string {
	reset := texts.Restart
	if view.Finished {
		reset = texts.PlayAgain
	}
	return fmt.Sprintf(" %d/%d  mistakes: %d  [gray]r[-] %s  [gray]q[-] quit", len(view.SolvedIDs), view.Total, view.Mistakes, reset)
}

// renderMap places every hotspot label on a width x height grid according to
// its percentage position. Solved hotspots are highlighted.
func renderMap(items []domain.QuizItem, view domain.View, width, height int) string {
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for i, item := range items {
		top, err := domain.ParsePercent(item.Position.Top)
		if err != nil {
			continue
		}
		left, err := domain.ParsePercent(item.Position.Left)
		if err != nil {
			continue
		}
		row := clamp(int(math.Round(top/100*float64(height-1))), height-1)
		col := clamp(int(math.Round(left/100*float64(width-1))), width-1)

		label := string(spotRune(i))
		if view.Solved(item.ID) {
			label = "[green]" + label + "[-]"
		}
		grid[row][col] = label
	}

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, ""))
	}
	return b.String()
}

func spotRune(i int) rune {
	if i < 9 {
		return rune('1' + i)
	}
	return rune('a' + i - 9)
}

func spotLabel(i int, item domain.QuizItem, solved bool) string {
	label := fmt.Sprintf("Hotspot %c (%s, %s)", spotRune(i), item.Position.Top, item.Position.Left)
	if solved {
		return "[green]" + label + " - " + item.Name + "[-]"
	}
	return label
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
