// Package tui is the terminal front end: a login gate and the annotation
// view. All state machine logic lives in internal/session; this package
// only translates keys into session calls and renders the result.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tianyangh/annotatui/internal/audit"
	"github.com/tianyangh/annotatui/internal/auth"
	"github.com/tianyangh/annotatui/internal/item"
	"github.com/tianyangh/annotatui/internal/session"
	"github.com/tianyangh/annotatui/internal/worklist"
)

// App ties together the login gate and the annotation session.
type App struct {
	ctx      context.Context
	auth     *auth.Authenticator
	resolver item.Resolver
	audit    *audit.Store // nil when the event log is unavailable

	state appState
	modal modalState

	secret   textinput.Model
	loginErr string

	annotator auth.Annotator
	sess      *session.Session

	content     string
	contentErr  string
	meta        *item.Metadata
	metaMissing bool
	scroll      int

	inputBuffer    string
	categoryCursor int

	status string
	width  int
	height int
}

type appState string

const (
	viewLogin    appState = "login"
	viewAnnotate appState = "annotate"
)

type modalState string

const (
	modalNone           modalState = ""
	modalComment        modalState = "comment"
	modalRevisedQuery   modalState = "revisedQuery"
	modalCategoryPicker modalState = "categoryPicker"
)

func New(ctx context.Context, authenticator *auth.Authenticator, auditStore *audit.Store) *App {
	secret := textinput.New()
	secret.Placeholder = "password"
	secret.EchoMode = textinput.EchoPassword
	secret.Focus()
	return &App{
		ctx:    ctx,
		auth:   authenticator,
		audit:  auditStore,
		state:  viewLogin,
		secret: secret,
		width:  100,
		height: 32,
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		if a.state == viewLogin {
			return a.handleLoginKey(m)
		}
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleAnnotateKey(m)
	case itemMsg:
		if a.sess != nil && m.index == a.sess.Index() {
			a.content, a.contentErr = m.content, m.contentErr
			a.meta, a.metaMissing = m.meta, m.metaMissing
			a.scroll = 0
		}
	}
	return a, nil
}

func (a *App) handleLoginKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		return a.login(strings.TrimSpace(a.secret.Value()))
	}
	var cmd tea.Cmd
	a.secret, cmd = a.secret.Update(m)
	return a, cmd
}

// login resolves the secret, loads the worklist and opens a session. A
// missing worklist is fatal for the session: the error is shown and the
// annotate view is never entered.
func (a *App) login(secret string) (tea.Model, tea.Cmd) {
	an, err := a.auth.Authenticate(secret)
	if err != nil {
		a.loginErr = "Incorrect password."
		a.secret.Reset()
		return a, nil
	}
	rows, err := worklist.Load(an.Worklist)
	if err != nil {
		a.secret.Reset()
		if errors.Is(err, worklist.ErrNotFound) {
			a.loginErr = fmt.Sprintf("Annotation file %q not found.", an.Worklist)
		} else {
			a.loginErr = err.Error()
		}
		return a, nil
	}
	sess, err := session.New(an.Name, an.Worklist, rows, session.SaverFunc(worklist.Save))
	if err != nil {
		a.loginErr = err.Error()
		return a, nil
	}
	a.annotator = an
	a.sess = sess
	a.state = viewAnnotate
	a.loginErr = ""
	a.status = ""
	a.secret.Reset()
	return a, a.loadItem()
}

func (a *App) logout() {
	a.state = viewLogin
	a.sess = nil
	a.annotator = auth.Annotator{}
	a.content, a.contentErr = "", ""
	a.meta, a.metaMissing = nil, false
	a.modal = modalNone
	a.status = ""
	a.secret.Reset()
	a.secret.Focus()
}

func (a *App) handleAnnotateKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "esc":
		a.logout()
		return a, nil
	case "left", "h":
		if a.sess.Prev() {
			a.status = ""
			return a, a.loadItem()
		}
	case "right", "l":
		if a.sess.Next() {
			a.status = ""
			return a, a.loadItem()
		}
	case "up", "k":
		if a.scroll > 0 {
			a.scroll--
		}
	case "down", "j":
		a.scroll++
	case "1":
		return a.classify(worklist.AnnotationNatural)
	case "2":
		return a.classify(worklist.AnnotationNotNatural)
	case "x":
		return a.clear()
	case "c":
		a.modal = modalComment
		a.inputBuffer = a.sess.Comment()
	case "r":
		a.modal = modalRevisedQuery
		a.inputBuffer = a.sess.RevisedQuery()
	case "g":
		a.modal = modalCategoryPicker
		a.categoryCursor = categoryIndex(a.sess.CategoryBuffer())
	}
	return a, nil
}

func (a *App) classify(v worklist.Annotation) (tea.Model, tea.Cmd) {
	out, err := a.sess.Classify(v)
	if err != nil {
		a.status = "error: " + err.Error()
		return a, nil
	}
	switch out.Action {
	case session.ActionToggle:
		a.status = "Annotation cleared (re-click)."
	default:
		a.status = fmt.Sprintf("Saved as %q.", out.To)
	}
	cmds := []tea.Cmd{a.recordCmd(out)}
	if out.Advanced {
		cmds = append(cmds, a.loadItem())
	}
	return a, tea.Batch(cmds...)
}

func (a *App) clear() (tea.Model, tea.Cmd) {
	if !a.sess.Row().Annotated() {
		a.status = "Nothing to clear."
		return a, nil
	}
	out, err := a.sess.Clear()
	if err != nil {
		a.status = "error: " + err.Error()
		return a, nil
	}
	a.status = "Annotation cleared."
	return a, a.recordCmd(out)
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.modal == modalCategoryPicker {
		switch m.String() {
		case "esc":
			a.modal = modalNone
		case "up", "k":
			if a.categoryCursor > 0 {
				a.categoryCursor--
			}
		case "down", "j":
			if a.categoryCursor < len(worklist.Categories()) { // index 0 is [none]
				a.categoryCursor++
			}
		case "enter":
			a.sess.SetCategory(categoryAt(a.categoryCursor))
			a.modal = modalNone
			a.status = "Category drafted. Classify to commit."
		}
		return a, nil
	}

	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyEnter:
		text := strings.TrimSpace(a.inputBuffer)
		switch a.modal {
		case modalComment:
			a.sess.SetComment(text)
			a.status = "Comment drafted. Classify to commit."
		case modalRevisedQuery:
			a.sess.SetRevisedQuery(text)
			a.status = "Revised query drafted. Classify to commit."
		}
		a.modal = modalNone
		a.inputBuffer = ""
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
	}
	return a, nil
}

// commands

func (a *App) loadItem() tea.Cmd {
	row := a.sess.Row()
	index := a.sess.Index()
	return func() tea.Msg {
		msg := itemMsg{index: index}
		text, err := a.resolver.Content(row)
		if err != nil {
			msg.contentErr = err.Error()
		} else {
			msg.content = text
		}
		meta, err := a.resolver.Metadata(row)
		if err != nil {
			msg.contentErr = strings.TrimSpace(msg.contentErr + "\n" + err.Error())
		}
		msg.meta = meta
		msg.metaMissing = meta == nil && err == nil
		return msg
	}
}

// recordCmd appends to the audit log. The log is advisory: failures are
// swallowed so they never undo or block a committed action.
func (a *App) recordCmd(out session.Outcome) tea.Cmd {
	if a.audit == nil {
		return nil
	}
	sess := a.sess
	return func() tea.Msg {
		_ = a.audit.Record(a.ctx, audit.Event{
			SessionID: sess.ID(),
			Annotator: sess.Annotator(),
			FilePath:  out.FilePath,
			Action:    string(out.Action),
			From:      string(out.From),
			To:        string(out.To),
		})
		return nil
	}
}

// messages

type itemMsg struct {
	index       int
	content     string
	contentErr  string
	meta        *item.Metadata
	metaMissing bool
}

func categoryIndex(c worklist.Category) int {
	for i, known := range worklist.Categories() {
		if known == c {
			return i + 1
		}
	}
	return 0
}

func categoryAt(cursor int) worklist.Category {
	if cursor == 0 {
		return worklist.CategoryNone
	}
	cats := worklist.Categories()
	if cursor-1 < len(cats) {
		return cats[cursor-1]
	}
	return worklist.CategoryNone
}

func worklistName(path string) string { return filepath.Base(path) }
