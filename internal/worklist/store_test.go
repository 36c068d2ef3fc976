package worklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{FilePath: "data/flow/001/task_description.txt", Annotation: AnnotationNatural, Comment: "reads well", Category: CategoryTooSimple},
		{FilePath: "data/flow/002/task_description.txt", Annotation: AnnotationNotNatural, RevisedQuery: "draw a simpler flow chart"},
		{FilePath: "data/gantt/001/task_description.txt"},
	}
	path := filepath.Join(t.TempDir(), "annotator_1.csv")
	require.NoError(t, Save(path, rows))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, rows, got)

	// Saving what we just loaded must be byte-stable.
	require.NoError(t, Save(path, got))
	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, got, again)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoadNormalizesPandasArtifacts(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		"file_path,annotation,comment,revised_query,category",
		"a.txt,Natural,nan,None,",
		"b.txt,,NaN,,Unsure",
	}, "\n")
	path := filepath.Join(t.TempDir(), "w.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "", rows[0].Comment)
	require.Equal(t, "", rows[0].RevisedQuery)
	require.Equal(t, AnnotationNone, rows[1].Annotation)
	require.Equal(t, "", rows[1].Comment)
	require.Equal(t, CategoryUnsure, rows[1].Category)
}

func TestLoadRejectsBadHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "w.csv")
	require.NoError(t, os.WriteFile(path, []byte("path,annotation,comment,revised_query,category\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, `expected "file_path"`)
}

func TestLoadRejectsDuplicatePaths(t *testing.T) {
	t.Parallel()

	data := strings.Join([]string{
		"file_path,annotation,comment,revised_query,category",
		"a.txt,,,,",
		"a.txt,,,,",
	}, "\n")
	path := filepath.Join(t.TempDir(), "w.csv")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "duplicate file_path")
}

func TestParseCategorySuggestsClosest(t *testing.T) {
	t.Parallel()

	_, err := ParseCategory("Too Simpel")
	require.Error(t, err)
	require.ErrorContains(t, err, `did you mean "Too Simple"`)

	_, err = ParseCategory("complete garbage value")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "did you mean")

	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestParseAnnotation(t *testing.T) {
	t.Parallel()

	got, err := ParseAnnotation("Natural")
	require.NoError(t, err)
	require.Equal(t, AnnotationNatural, got)

	got, err = ParseAnnotation("nan")
	require.NoError(t, err)
	require.Equal(t, AnnotationNone, got)

	_, err = ParseAnnotation("natural") // case matters in the table
	require.Error(t, err)
}
