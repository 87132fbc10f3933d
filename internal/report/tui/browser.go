// Package tui implements an interactive findings browser over a
// *lint.Result, adapted from axe's view-hierarchy browser: a tree of
// findings grouped by category on the left, a detail pane on the right,
// navigated with the same key bindings.
package tui

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/wader/respect/internal/lint"
)

// finding is one leaf entry in the browser tree: its category label plus
// the detail text shown in the right-hand pane when selected.
type finding struct {
	label  string
	detail string
}

// Run launches the interactive findings browser over res and blocks until
// the user quits.
func Run(res *lint.Result) error {
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})))
	defer slog.SetDefault(prev)

	app := tview.NewApplication()
	pages := tview.NewPages()

	treeView := tview.NewTreeView()
	treeView.SetBorder(true).SetTitle(" Findings ")

	detailView := tview.NewTextView().SetDynamicColors(true)
	detailView.SetBorder(true).SetTitle(" Detail ")
	detailView.SetScrollable(true)

	footer := tview.NewTextView().
		SetTextAlign(tview.AlignLeft).
		SetText(" ↑↓ navigate  Enter detail  Esc back  q quit")
	treeWithFooter := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(treeView, 0, 1, true).
		AddItem(footer, 1, 0, false)
	detailWithFooter := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(detailView, 0, 1, true).
		AddItem(footer, 1, 0, false)

	pages.AddPage("tree", treeWithFooter, true, true)
	pages.AddPage("detail", detailWithFooter, true, false)

	root := tview.NewTreeNode(fmt.Sprintf(" Findings (%d) ", countFindings(res))).SetSelectable(false)
	addCategory(root, "Config errors", configErrorFindings(res))
	addCategory(root, "Missing references", missingFindings(res))
	addCategory(root, "Case mismatches", caseMismatchFindings(res))
	addCategory(root, "Unused resources", unusedFindings(res))
	addCategory(root, "Lint warnings", stringFindings("warning", res.LintWarnings))
	addCategory(root, "Lint errors", stringFindings("error", res.LintErrors))
	addCategory(root, "Unused ignore configs", unusedIgnoreFindings(res))
	treeView.SetRoot(root).SetCurrentNode(root)

	treeView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyEnter:
			node := treeView.GetCurrentNode()
			if node == nil {
				return event
			}
			f, ok := node.GetReference().(*finding)
			if !ok || f == nil {
				return event
			}
			detailView.SetText(f.detail)
			detailView.SetTitle(fmt.Sprintf(" Detail: %s ", f.label))
			detailView.ScrollToBeginning()
			pages.SwitchToPage("detail")
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() { //nolint:exhaustive
		case tcell.KeyEscape:
			pages.SwitchToPage("tree")
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	return app.SetRoot(pages, true).SetFocus(pages).Run()
}

func countFindings(res *lint.Result) int {
	return len(res.ConfigErrors) + len(res.MissingReferences) + len(res.CaseMismatches) + len(res.UnusedResources) +
		len(res.LintWarnings) + len(res.LintErrors) + len(res.UnusedIgnoreConfigs)
}

func addCategory(root *tview.TreeNode, label string, items []finding) {
	if len(items) == 0 {
		return
	}
	cat := tview.NewTreeNode(fmt.Sprintf("%s (%d)", label, len(items))).SetSelectable(false)
	for i := range items {
		leaf := tview.NewTreeNode(items[i].label).SetReference(&items[i]).SetSelectable(true)
		cat.AddChild(leaf)
	}
	root.AddChild(cat)
}

func configErrorFindings(res *lint.Result) []finding {
	out := make([]finding, 0, len(res.ConfigErrors))
	for _, e := range res.ConfigErrors {
		out = append(out, finding{label: e.Error(), detail: e.Error()})
	}
	return out
}

func missingFindings(res *lint.Result) []finding {
	out := make([]finding, 0, len(res.MissingReferences))
	for _, m := range res.MissingReferences {
		label := fmt.Sprintf("[red]%s[-] at %s", m.Missing, m.Location)
		detail := fmt.Sprintf("Missing: %s\nLocation: %s\n", m.Missing, m.Location)
		if m.Suggestion != "" {
			detail += fmt.Sprintf("Suggestion: %s\n", m.Suggestion)
		}
		if m.Hint != "" {
			detail += fmt.Sprintf("Hint: %s\n", m.Hint)
		}
		out = append(out, finding{label: label, detail: detail})
	}
	return out
}

func caseMismatchFindings(res *lint.Result) []finding {
	out := make([]finding, 0, len(res.CaseMismatches))
	for _, cm := range res.CaseMismatches {
		label := fmt.Sprintf("[yellow]%s[-] at %s", cm.Candidate, cm.Location)
		detail := fmt.Sprintf("Referenced: %s\nBundle resource: %s\nLocation: %s\n", cm.Candidate, cm.Resource.BaseName, cm.Location)
		out = append(out, finding{label: label, detail: detail})
	}
	return out
}

func unusedFindings(res *lint.Result) []finding {
	out := make([]finding, 0, len(res.UnusedResources))
	for _, u := range res.UnusedResources {
		out = append(out, finding{label: u, detail: fmt.Sprintf("Unused resource: %s\n", u)})
	}
	return out
}

func stringFindings(kind string, items []string) []finding {
	out := make([]finding, 0, len(items))
	for _, s := range items {
		out = append(out, finding{label: s, detail: fmt.Sprintf("%s: %s\n", kind, s)})
	}
	return out
}

func unusedIgnoreFindings(res *lint.Result) []finding {
	out := make([]finding, 0, len(res.UnusedIgnoreConfigs))
	for _, f := range res.UnusedIgnoreConfigs {
		label := fmt.Sprintf("%s never matched", f.Pattern)
		out = append(out, finding{label: label, detail: fmt.Sprintf("Ignore pattern %q (declared at %s) never matched anything.\n", f.Pattern, f.Location)})
	}
	return out
}
