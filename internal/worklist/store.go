package worklist

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound means the backing table is absent. Fatal for a session.
var ErrNotFound = errors.New("worklist file not found")

// header is the exact column order of the persisted table. The
// preparation step writes it and Load refuses anything else.
var header = []string{"file_path", "annotation", "comment", "revised_query", "category"}

// Load reads a whole worklist table. Optional columns are normalized to
// empty strings and enum columns are validated, so callers never see a
// value outside the closed sets.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) ([]Row, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true

	head, err := csvr.Read()
	if err == io.EOF {
		return nil, errors.New("empty worklist: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(head) != len(header) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(header), len(head))
	}
	for i, want := range header {
		if head[i] != want {
			return nil, fmt.Errorf("column %d: expected %q, got %q", i+1, want, head[i])
		}
	}

	var rows []Row
	seen := make(map[string]struct{})
	line := 1
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		fp := rec[0]
		if fp == "" {
			return nil, fmt.Errorf("line %d: empty file_path", line)
		}
		if _, dup := seen[fp]; dup {
			return nil, fmt.Errorf("line %d: duplicate file_path %q", line, fp)
		}
		seen[fp] = struct{}{}
		ann, err := ParseAnnotation(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cat, err := ParseCategory(rec[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, Row{
			FilePath:     fp,
			Annotation:   ann,
			Comment:      normalizeCell(rec[2]),
			RevisedQuery: normalizeCell(rec[3]),
			Category:     cat,
		})
	}
	return rows, nil
}

// Save overwrites the whole table. There is no partial write path: a
// worklist is small and human-paced, and whole-file rewrite keeps the
// on-disk form trivially consistent with memory.
func Save(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	for _, r := range rows {
		rec := []string{r.FilePath, string(r.Annotation), r.Comment, r.RevisedQuery, string(r.Category)}
		if err := w.Write(rec); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
