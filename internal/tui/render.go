package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tianyangh/annotatui/internal/worklist"
)

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	draftStyle    = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
)

func (a *App) View() string {
	if a.state == viewLogin {
		return a.renderLogin()
	}
	body := a.renderAnnotate()
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderLogin() string {
	out := titleStyle.Render("Annotator Login") + "\n\n"
	out += "Enter your password:\n"
	out += a.secret.View() + "\n"
	if a.loginErr != "" {
		out += "\n" + errorStyle.Render(a.loginErr) + "\n"
	}
	out += "\n[enter] Login  [ctrl+c] Quit"
	return out
}

func (a *App) renderAnnotate() string {
	done, total := a.sess.Progress()
	title := titleStyle.Render(fmt.Sprintf("Text Annotation Tool - %s (%d/%d)", worklistName(a.sess.Path()), a.sess.Index()+1, total))

	out := title + "\n"
	out += fmt.Sprintf("Annotator: %s   Progress: %d / %d annotated\n", a.annotator.Name, done, total)
	out += "\n" + a.renderStatusLine() + "\n"
	out += "\n" + a.renderMetadata() + "\n"
	out += "\n" + a.renderContent() + "\n"
	out += "\n" + a.renderFields() + "\n"
	out += "\n[1] Natural  [2] Not Natural  [x] Clear  [c] Comment  [r] Revised query  [g] Category\n"
	out += "[←/→] Prev/Next  [↑/↓] Scroll  [esc] Logout  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderStatusLine() string {
	row := a.sess.Row()
	if row.Annotated() {
		return successStyle.Render(fmt.Sprintf("✔ Annotated as %q", row.Annotation))
	}
	return warnStyle.Render("● Not annotated yet")
}

func (a *App) renderMetadata() string {
	out := titleStyle.Render("Metadata") + "\n"
	if a.metaMissing {
		return out + warnStyle.Render("Metadata file not found.")
	}
	if a.meta == nil {
		return out + "loading..."
	}
	out += fmt.Sprintf("ID: %s    Diagram type: %s\n", a.meta.ID, a.meta.DiagramType)
	out += "User query: " + a.meta.UserQuery
	return out
}

// renderContent shows a window of the item text, scrolled by ↑/↓. A
// missing content file renders an error in place and leaves everything
// else usable.
func (a *App) renderContent() string {
	out := titleStyle.Render("Text to Annotate") + "\n"
	if a.contentErr != "" {
		return out + errorStyle.Render("Text file not found: "+a.contentErr)
	}
	lines := strings.Split(strings.TrimRight(a.content, "\n"), "\n")
	window := a.contentWindow()
	if a.scroll > len(lines)-window {
		a.scroll = max(0, len(lines)-window)
	}
	end := min(len(lines), a.scroll+window)
	out += strings.Join(lines[a.scroll:end], "\n")
	if end < len(lines) {
		out += draftStyle.Render(fmt.Sprintf("\n… (%d more lines)", len(lines)-end))
	}
	return out
}

// contentWindow is the number of content lines that fit after the fixed
// panes are accounted for.
func (a *App) contentWindow() int {
	return max(5, a.height-18)
}

func (a *App) renderFields() string {
	row := a.sess.Row()
	out := fmt.Sprintf("Comment:       %s%s\n", valueOrDash(a.sess.Comment()), draftTag(a.sess.Comment() != row.Comment))
	out += fmt.Sprintf("Revised query: %s%s\n", valueOrDash(a.sess.RevisedQuery()), draftTag(a.sess.RevisedQuery() != row.RevisedQuery))
	out += fmt.Sprintf("Category:      %s%s", valueOrDash(string(a.sess.CategoryBuffer())), draftTag(a.sess.CategoryBuffer() != row.Category))
	if a.sess.Dirty() {
		out += "\n" + warnStyle.Render("Drafts are committed by the next classification and discarded by navigation.")
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalComment:
		return titleStyle.Render("Comment") + fmt.Sprintf("\n%s█\n[enter] Save draft  [esc] Cancel", a.inputBuffer)
	case modalRevisedQuery:
		return titleStyle.Render("Revised query") + fmt.Sprintf("\n%s█\n[enter] Save draft  [esc] Cancel", a.inputBuffer)
	case modalCategoryPicker:
		out := titleStyle.Render("Select category") + "\n"
		options := append([]string{"[none]"}, categoryLabels()...)
		for i, opt := range options {
			line := "  " + opt
			if i == a.categoryCursor {
				line = selectedStyle.Render("▶ " + opt)
			}
			out += line + "\n"
		}
		out += "[enter] Select  [esc] Cancel"
		return out
	default:
		return ""
	}
}

func categoryLabels() []string {
	cats := worklist.Categories()
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = string(c)
	}
	return labels
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func draftTag(dirty bool) string {
	if !dirty {
		return ""
	}
	return "  " + draftStyle.Render("(draft)")
}
