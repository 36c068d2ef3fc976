// Package session holds the state of one annotator's login: the loaded
// worklist, the current position, and draft edits that have not been
// committed by a classification action.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tianyangh/annotatui/internal/worklist"
)

// Saver persists a whole worklist table.
type Saver interface {
	Save(path string, rows []worklist.Row) error
}

// SaverFunc adapts a function to the Saver interface.
type SaverFunc func(path string, rows []worklist.Row) error

func (f SaverFunc) Save(path string, rows []worklist.Row) error { return f(path, rows) }

// buffers are draft values for the current row's optional fields. They
// reach the table only through a classification action.
type buffers struct {
	comment      string
	revisedQuery string
	category     worklist.Category
}

// Session owns a worklist for the duration of one login. The in-memory
// rows are a write-through cache of the on-disk table: every committing
// action rewrites the file before the change becomes visible.
type Session struct {
	id        string
	annotator string
	path      string
	saver     Saver
	rows      []worklist.Row
	index     int
	buf       buffers
}

// New starts a session at the first row.
func New(annotator, path string, rows []worklist.Row, saver Saver) (*Session, error) {
	if len(rows) == 0 {
		return nil, errors.New("worklist has no rows")
	}
	if saver == nil {
		return nil, errors.New("saver required")
	}
	s := &Session{
		id:        uuid.NewString(),
		annotator: annotator,
		path:      path,
		saver:     saver,
		rows:      rows,
	}
	s.resetBuffers()
	return s, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) Annotator() string { return s.annotator }

func (s *Session) Path() string { return s.path }

func (s *Session) Index() int { return s.index }

func (s *Session) Len() int { return len(s.rows) }

// Row returns a copy of the current row.
func (s *Session) Row() worklist.Row { return s.rows[s.index] }

// Progress counts annotated rows against the total.
func (s *Session) Progress() (done, total int) {
	for _, r := range s.rows {
		if r.Annotated() {
			done++
		}
	}
	return done, len(s.rows)
}

// Prev moves to the previous row. At the first row it is a no-op: the
// index and the buffers stay put and nothing is written.
func (s *Session) Prev() bool {
	if s.index == 0 {
		return false
	}
	s.index--
	s.resetBuffers()
	return true
}

// Next moves to the next row, a no-op at the last row.
func (s *Session) Next() bool {
	if s.index == len(s.rows)-1 {
		return false
	}
	s.index++
	s.resetBuffers()
	return true
}

// SetComment updates the draft comment for the current row.
func (s *Session) SetComment(v string) { s.buf.comment = v }

// SetRevisedQuery updates the draft revised query for the current row.
func (s *Session) SetRevisedQuery(v string) { s.buf.revisedQuery = v }

// SetCategory updates the draft category for the current row.
func (s *Session) SetCategory(c worklist.Category) { s.buf.category = c }

func (s *Session) Comment() string { return s.buf.comment }

func (s *Session) RevisedQuery() string { return s.buf.revisedQuery }

func (s *Session) CategoryBuffer() worklist.Category { return s.buf.category }

// Dirty reports whether any draft differs from the persisted row. Moving
// away from the row would discard these edits.
func (s *Session) Dirty() bool {
	r := s.rows[s.index]
	return s.buf.comment != r.Comment ||
		s.buf.revisedQuery != r.RevisedQuery ||
		s.buf.category != r.Category
}

// resetBuffers re-derives the drafts from the current persisted row.
// Uncommitted edits do not survive an index change; the classification
// click is the only save gesture.
func (s *Session) resetBuffers() {
	r := s.rows[s.index]
	s.buf = buffers{comment: r.Comment, revisedQuery: r.RevisedQuery, category: r.Category}
}

// persistRow writes the whole table with the current row already mutated,
// restoring the previous row value if the write fails so memory never
// gets ahead of disk.
func (s *Session) persistRow(prev worklist.Row) error {
	if err := s.saver.Save(s.path, s.rows); err != nil {
		s.rows[s.index] = prev
		return fmt.Errorf("save worklist: %w", err)
	}
	return nil
}
