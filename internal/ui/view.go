package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/aygame101/cardboard/internal/trello"
)

// renderMain renders the header, the active view and the footer.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.currentView {
	case ViewEditor:
		b.WriteString(m.renderEditor())
	default:
		b.WriteString(m.renderChecklists())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	title := styles.AccentText.Bold(true).Render("cardboard")
	card := styles.MutedText.Render("card " + m.cardID)
	line := title + "  " + card
	switch {
	case m.saving:
		line += "  " + styles.FaintText.Render("saving...")
	case m.loading:
		line += "  " + styles.FaintText.Render("loading...")
	}
	return styles.Header.Width(max(m.width, 1)).Render(line)
}

func (m Model) renderChecklists() string {
	styles := m.theme.Styles()
	if len(m.checklists) == 0 {
		return styles.Panel.Render(styles.FaintText.Render("No checklists. Press n to create one."))
	}

	var b strings.Builder
	for i, cl := range m.checklists {
		line := fmt.Sprintf("%s  %s", cl.Name, styles.FaintText.Render(progress(cl)))
		if i == m.selected {
			line = styles.Selected.Render("> " + line)
		} else {
			line = styles.Text.Render("  " + line)
		}
		b.WriteString(line)
		if i < len(m.checklists)-1 {
			b.WriteString("\n")
		}
	}
	return styles.Panel.Render(b.String())
}

func (m Model) renderEditor() string {
	styles := m.theme.Styles()
	buf := m.buffer

	var b strings.Builder
	name := buf.Name
	if name == "" {
		name = styles.FaintText.Render("(untitled)")
	}
	nameLine := "Name: " + name
	if buf.Dirty() {
		nameLine += styles.WarningText.Render("  *")
	}
	b.WriteString(m.row(0, nameLine, styles))
	b.WriteString("\n")

	if m.inputTarget == inputName {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	for i, item := range buf.Items {
		state := buf.RowState(i)
		marker := styles.StateStyle(state).Render(checkbox(state))
		if _, persisted := buf.RowID(i); !persisted {
			marker = styles.AccentText.Render("[+]")
		}
		b.WriteString(m.row(i+1, marker+" "+item, styles))
		b.WriteString("\n")
		if m.inputTarget == inputItem && m.cursor == i+1 {
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
	}
	if m.inputTarget == inputNewItem {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if len(buf.Items) == 0 && m.inputTarget != inputNewItem {
		b.WriteString(styles.FaintText.Render("  No items. Press a to add one."))
	}

	return styles.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) row(index int, content string, styles Styles) string {
	if index == m.cursor {
		return styles.Selected.Render("> " + content)
	}
	return styles.Text.Render("  " + content)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var lines []string
	for _, msg := range m.errors {
		lines = append(lines, styles.DangerText.Render("! "+msg))
	}
	if m.status != "" {
		lines = append(lines, styles.SuccessText.Render(m.status))
	}

	var hints []string
	for _, binding := range m.footerBindings() {
		h := binding.Help()
		hints = append(hints, styles.KeyHint.Render(h.Key)+" "+h.Desc)
	}
	lines = append(lines, styles.Footer.Render(strings.Join(hints, "  ")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) footerBindings() []key.Binding {
	k := m.keys
	switch {
	case m.inputTarget != inputNone:
		return []key.Binding{k.Confirm, k.Cancel}
	case m.currentView == ViewEditor:
		bindings := []key.Binding{k.Edit, k.Add, k.Remove, k.Toggle, k.Back}
		if k.Save.Enabled() {
			bindings = append([]key.Binding{k.Save}, bindings...)
		}
		return bindings
	default:
		return append([]key.Binding{k.Open, k.New, k.Delete}, k.ShortHelp()...)
	}
}

func checkbox(state trello.State) string {
	if state == trello.StateComplete {
		return "[x]"
	}
	return "[ ]"
}

func progress(cl trello.Checklist) string {
	done := 0
	for _, item := range cl.Items {
		if item.Complete() {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(cl.Items))
}
