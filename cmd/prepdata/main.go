// Command prepdata partitions a corpus into per-annotator worklists.
// It runs once, before any annotation session; worklist row order and
// count are fixed from here on.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/tianyangh/annotatui/internal/config"
	"github.com/tianyangh/annotatui/internal/prep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		root = flag.String("root", "data", "corpus root directory")
		out  = flag.String("out", "annotations", "output directory for worklists")
		n    = flag.Int("annotators", 3, "number of annotators")
		mode = flag.String("mode", "items", "split mode: items (shuffle individual items) or groups (assign whole top-level groups)")
		leaf = flag.String("leaf", cfg.Prep.LeafName, "primary text file name within each item directory")
		seed = flag.Int64("seed", 0, "shuffle seed (0 = time-based)")
	)
	flag.Parse()

	if *n < 1 {
		log.Fatal("annotators must be >= 1")
	}
	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(s))

	var lists [][]string
	switch *mode {
	case "items":
		items, err := prep.Discover(*root, *leaf)
		if err != nil {
			log.Fatalf("discover: %v", err)
		}
		fmt.Printf("Found %d items under %s\n", len(items), *root)
		lists = prep.SplitItems(items, *n, rng)
	case "groups":
		var err error
		lists, err = prep.SplitGroups(*root, *leaf, *n, rng)
		if err != nil {
			log.Fatalf("split groups: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	paths, err := prep.WriteWorklists(*out, lists)
	if err != nil {
		log.Fatalf("write worklists: %v", err)
	}
	for i, p := range paths {
		fmt.Printf("Created %s with %d items for annotator %d\n", p, len(lists[i]), i+1)
	}
}
