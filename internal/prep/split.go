// Package prep partitions a corpus into per-annotator worklists. It runs
// once, before any annotation session; the annotation side only ever
// mutates fields of the rows written here.
package prep

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/tianyangh/annotatui/internal/worklist"
)

// Discover walks root for files named leafName and returns their paths,
// sorted so the shuffle is the only source of ordering.
func Discover(root, leafName string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == leafName {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// SplitItems shuffles the items and deals them into n worklists of
// near-equal size (sizes differ by at most one, larger lists first).
func SplitItems(paths []string, n int, rng *rand.Rand) [][]string {
	shuffled := append([]string(nil), paths...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return evenSplit(shuffled, n)
}

// SplitGroups assigns whole top-level groups (the first directory level
// under root) to annotators: groups are shuffled and even-split, and an
// annotator receives every item of each assigned group. Items are
// shuffled within each worklist so nobody annotates one group
// back-to-back.
func SplitGroups(root, leafName string, n int, rng *rand.Rand) ([][]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", root, err)
	}
	var groups []string
	for _, e := range entries {
		if e.IsDir() {
			groups = append(groups, e.Name())
		}
	}
	sort.Strings(groups)
	rng.Shuffle(len(groups), func(i, j int) {
		groups[i], groups[j] = groups[j], groups[i]
	})

	lists := make([][]string, n)
	for i, assigned := range evenSplit(groups, n) {
		for _, g := range assigned {
			items, err := Discover(filepath.Join(root, g), leafName)
			if err != nil {
				return nil, err
			}
			lists[i] = append(lists[i], items...)
		}
		rng.Shuffle(len(lists[i]), func(a, b int) {
			lists[i][a], lists[i][b] = lists[i][b], lists[i][a]
		})
	}
	return lists, nil
}

// evenSplit deals items into n parts: the first len(items)%n parts get
// one extra item.
func evenSplit(items []string, n int) [][]string {
	parts := make([][]string, n)
	base, extra := len(items)/n, len(items)%n
	off := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		parts[i] = items[off : off+size : off+size]
		off += size
	}
	return parts
}

// WriteWorklists writes one annotator_N.csv per list into dir, with all
// annotation columns empty. Returns the written paths.
func WriteWorklists(dir string, lists [][]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	var written []string
	for i, list := range lists {
		rows := make([]worklist.Row, len(list))
		for j, p := range list {
			rows[j] = worklist.Row{FilePath: p}
		}
		path := filepath.Join(dir, fmt.Sprintf("annotator_%d.csv", i+1))
		if err := worklist.Save(path, rows); err != nil {
			return nil, err
		}
		written = append(written, path)
	}
	return written, nil
}
