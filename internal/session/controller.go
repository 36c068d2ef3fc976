package session

import "github.com/tianyangh/annotatui/internal/worklist"

// Action names a committing user gesture, for the audit trail and status
// line.
type Action string

const (
	ActionSet    Action = "set"
	ActionToggle Action = "toggle-off"
	ActionClear  Action = "clear"
)

// Outcome describes what a committing action did to the current row.
type Outcome struct {
	Action   Action
	FilePath string
	From     worklist.Annotation
	To       worklist.Annotation
	Advanced bool
}

// Classify applies a verdict to the current row.
//
// Clicking the verdict the row already carries toggles it off: the
// annotation and every optional field are cleared and the index stays so
// the item can be redone. Any other click commits the draft buffers
// together with the new verdict and advances to the next row, unless
// this is the last one. Either way the whole table is rewritten before
// the change is acknowledged.
func (s *Session) Classify(v worklist.Annotation) (Outcome, error) {
	row := &s.rows[s.index]
	prev := *row

	toggleOff := row.Annotation == v
	if toggleOff {
		row.ClearAnnotation()
	} else {
		row.Annotation = v
		row.Comment = s.buf.comment
		row.RevisedQuery = s.buf.revisedQuery
		row.Category = s.buf.category
	}
	if err := s.persistRow(prev); err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Action:   ActionSet,
		FilePath: prev.FilePath,
		From:     prev.Annotation,
		To:       row.Annotation,
	}
	if toggleOff {
		out.Action = ActionToggle
	} else if s.index < len(s.rows)-1 {
		s.index++
		out.Advanced = true
	}
	s.resetBuffers()
	return out, nil
}

// Clear wipes the current row's annotation and optional fields and
// persists. Draft buffers are not committed first; they are discarded
// along with the persisted values. The index never moves.
func (s *Session) Clear() (Outcome, error) {
	row := &s.rows[s.index]
	prev := *row

	row.ClearAnnotation()
	if err := s.persistRow(prev); err != nil {
		return Outcome{}, err
	}
	s.resetBuffers()
	return Outcome{
		Action:   ActionClear,
		FilePath: prev.FilePath,
		From:     prev.Annotation,
		To:       worklist.AnnotationNone,
	}, nil
}
