package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/tianyangh/annotatui/internal/auth"
	"github.com/tianyangh/annotatui/internal/worklist"
)

const testSecret = "open-sesame"

// newTestApp lays out a 3-item corpus, a worklist and a logged-out app.
func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()

	var rows []worklist.Row
	for _, name := range []string{"001", "002", "003"} {
		itemDir := filepath.Join(dir, "data", "flow", name)
		require.NoError(t, os.MkdirAll(itemDir, 0o755))
		path := filepath.Join(itemDir, "task_description.txt")
		require.NoError(t, os.WriteFile(path, []byte("The flow chart shows item "+name+".\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(itemDir, "metadata.json"),
			[]byte(`{"id": "flow-`+name+`", "diagram_type": "flowchart", "user_query": "draw my process"}`), 0o644))
		rows = append(rows, worklist.Row{FilePath: path})
	}
	wlPath := filepath.Join(dir, "annotator_1.csv")
	require.NoError(t, worklist.Save(wlPath, rows))

	authenticator := auth.New([]auth.Entry{{Name: "tester", Secret: testSecret, Worklist: wlPath}})
	return New(context.Background(), authenticator, nil)
}

func typeKeys(t *testing.T, a *App, s string) {
	t.Helper()
	for _, r := range s {
		m, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		require.Same(t, a, m)
	}
}

// drain runs a command (possibly a batch) and feeds resulting messages
// back into the app, as the bubbletea runtime would.
func drain(t *testing.T, a *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, a, c)
		}
		return
	}
	_, next := a.Update(msg)
	drain(t, a, next)
}

func login(t *testing.T, a *App) {
	t.Helper()
	typeKeys(t, a, testSecret)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewAnnotate, a.state)
	drain(t, a, cmd)
}

func TestLoginRejectsBadSecret(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	typeKeys(t, a, "wrong")
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, viewLogin, a.state)
	require.Contains(t, a.View(), "Incorrect password.")

	// A good login afterwards still works; index starts at 0.
	typeKeys(t, a, testSecret)
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, viewAnnotate, a.state)
	require.Equal(t, 0, a.sess.Index())
}

func TestLoginFailsWhenWorklistMissing(t *testing.T) {
	t.Parallel()

	authenticator := auth.New([]auth.Entry{{Name: "x", Secret: "s", Worklist: filepath.Join(t.TempDir(), "gone.csv")}})
	a := New(context.Background(), authenticator, nil)
	typeKeys(t, a, "s")
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, viewLogin, a.state)
	require.Contains(t, a.View(), "not found")
}

func TestItemRenders(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	view := a.View()
	require.Contains(t, view, "The flow chart shows item 001.")
	require.Contains(t, view, "flowchart")
	require.Contains(t, view, "draw my process")
	require.Contains(t, view, "Not annotated yet")
}

func TestClassifyPersistsAndAdvances(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)
	path := a.sess.Path()

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	drain(t, a, cmd)

	require.Equal(t, 1, a.sess.Index())
	rows, err := worklist.Load(path)
	require.NoError(t, err)
	require.Equal(t, worklist.AnnotationNatural, rows[0].Annotation)
	require.Contains(t, a.View(), "item 002")
}

func TestToggleOffViaSameKey(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	drain(t, a, cmd)
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyLeft})
	drain(t, a, cmd)
	require.Equal(t, 0, a.sess.Index())

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	drain(t, a, cmd)
	require.Equal(t, 0, a.sess.Index(), "toggle-off does not advance")
	require.False(t, a.sess.Row().Annotated())

	rows, err := worklist.Load(a.sess.Path())
	require.NoError(t, err)
	require.False(t, rows[0].Annotated())
}

func TestClearWithNothingToClear(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	require.Contains(t, a.View(), "Nothing to clear.")
}

func TestCommentModalDraftsWithoutPersisting(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.Equal(t, modalComment, a.modal)
	typeKeys(t, a, "too wordy")
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, modalNone, a.modal)
	require.Equal(t, "too wordy", a.sess.Comment())
	require.Contains(t, a.View(), "(draft)")

	rows, err := worklist.Load(a.sess.Path())
	require.NoError(t, err)
	require.Empty(t, rows[0].Comment, "drafts stay out of the table until a classification")
}

func TestCategoryPicker(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	require.Equal(t, modalCategoryPicker, a.modal)
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, worklist.CategoryUnsure, a.sess.CategoryBuffer())

	// Classify commits the drafted category.
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	drain(t, a, cmd)
	rows, err := worklist.Load(a.sess.Path())
	require.NoError(t, err)
	require.Equal(t, worklist.CategoryUnsure, rows[0].Category)
}

func TestLogoutReturnsToLogin(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)

	_, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, viewLogin, a.state)
	require.Nil(t, a.sess)
	require.Contains(t, a.View(), "Annotator Login")
}

func TestMissingContentRendersInPlace(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	login(t, a)
	require.NoError(t, os.Remove(a.sess.Row().FilePath))

	drain(t, a, a.loadItem())
	view := a.View()
	require.Contains(t, view, "Text file not found")
	require.Contains(t, view, "[1] Natural", "controls stay usable")
}
