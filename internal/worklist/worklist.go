package worklist

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Annotation is the naturalness verdict for one item.
type Annotation string

const (
	AnnotationNone       Annotation = ""
	AnnotationNatural    Annotation = "Natural"
	AnnotationNotNatural Annotation = "Not Natural"
)

// ParseAnnotation validates a stored annotation value.
func ParseAnnotation(s string) (Annotation, error) {
	switch v := Annotation(normalizeCell(s)); v {
	case AnnotationNone, AnnotationNatural, AnnotationNotNatural:
		return v, nil
	default:
		return AnnotationNone, fmt.Errorf("unknown annotation %q", s)
	}
}

// Category is the optional reviewer-assigned bucket for an item.
type Category string

const (
	CategoryNone           Category = ""
	CategoryUnsure         Category = "Unsure"
	CategoryNeedDiscussion Category = "Need Discussion"
	CategoryNeedDataChange Category = "Need to Change Original Data"
	CategoryTooSimple      Category = "Too Simple"
	CategoryTooComplicated Category = "Too Complicated"
)

// Categories lists the assignable buckets, in display order.
func Categories() []Category {
	return []Category{
		CategoryUnsure,
		CategoryNeedDiscussion,
		CategoryNeedDataChange,
		CategoryTooSimple,
		CategoryTooComplicated,
	}
}

// ParseCategory validates a stored category value. Unknown values are
// rejected so a hand-edited worklist fails loudly at load time; the error
// includes the closest known bucket when one is reasonably near.
func ParseCategory(s string) (Category, error) {
	v := Category(normalizeCell(s))
	if v == CategoryNone {
		return v, nil
	}
	for _, c := range Categories() {
		if v == c {
			return c, nil
		}
	}
	if near := closestCategory(string(v)); near != CategoryNone {
		return CategoryNone, fmt.Errorf("unknown category %q (did you mean %q?)", s, near)
	}
	return CategoryNone, fmt.Errorf("unknown category %q", s)
}

func closestCategory(s string) Category {
	best := CategoryNone
	bestDist := len(s) // suggestion only when within half the input length
	for _, c := range Categories() {
		d := levenshtein.ComputeDistance(strings.ToLower(s), strings.ToLower(string(c)))
		if d < bestDist && d <= len(string(c))/2 {
			best, bestDist = c, d
		}
	}
	return best
}

// Row is one item's annotation record. FilePath points at the primary
// text resource; everything else is mutable annotator output.
type Row struct {
	FilePath     string
	Annotation   Annotation
	Comment      string
	RevisedQuery string
	Category     Category
}

// Annotated reports whether the row carries a verdict.
func (r Row) Annotated() bool { return r.Annotation != AnnotationNone }

// ClearAnnotation wipes the verdict and every optional field.
func (r *Row) ClearAnnotation() {
	r.Annotation = AnnotationNone
	r.Comment = ""
	r.RevisedQuery = ""
	r.Category = ""
}

// normalizeCell maps absent-value spellings to the empty string so
// presence checks downstream are a plain comparison. Worklists written by
// earlier tooling carry pandas NA artifacts in optional columns.
func normalizeCell(s string) string {
	switch t := strings.TrimSpace(s); t {
	case "nan", "NaN", "None", "null":
		return ""
	default:
		return t
	}
}
