package diskindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocket-tycoon/rocketindex/internal/errs"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := InMemory()
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func insertSymbol(t *testing.T, idx *Index, sym schema.Symbol) {
	t.Helper()
	tx, err := idx.DB().Begin()
	require.NoError(t, err)
	require.NoError(t, idx.InsertSymbols(tx, []schema.Symbol{sym}))
	require.NoError(t, tx.Commit())
}

func TestCreate_RejectsExistingFile(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	idx, err := Create(dbPath)
	require.NoError(t, err)
	idx.Close()

	_, err = Create(dbPath)
	assert.Error(t, err)
}

func TestOpen_MissingFileReturnsIndexNotFound(t *testing.T) {
	t.Parallel()
	_, err := Open(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.IndexNotFound)
}

func TestOpenOrCreate_CreatesThenOpens(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "nested", "index.db")

	idx1, err := OpenOrCreate(dbPath)
	require.NoError(t, err)
	require.NoError(t, idx1.SetMetadata("k", "v"))
	idx1.Close()

	idx2, err := OpenOrCreate(dbPath)
	require.NoError(t, err)
	defer idx2.Close()
	value, err := idx2.GetMetadata("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestInsertSymbols_FindByQualified(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)

	insertSymbol(t, idx, schema.Symbol{
		Name: "process_payment", Qualified: "PaymentService.process_payment",
		Kind: schema.KindFunction, Language: "go",
		Location:   schema.Location{File: "payment.go", Line: 42, Column: 5, EndLine: 50, EndColumn: 1},
		Visibility: schema.Public,
	})

	found, err := idx.FindByQualified("PaymentService.process_payment")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "process_payment", found.Name)
	assert.Equal(t, schema.KindFunction, found.Kind)
}

func TestFindAllByQualified_ReturnsOverloads(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)

	for _, loc := range []int{1, 2} {
		insertSymbol(t, idx, schema.Symbol{
			Name: "Run", Qualified: "Job.Run", Kind: schema.KindFunction, Language: "go",
			Location: schema.Location{File: "job.go", Line: loc, Column: 1, EndLine: loc, EndColumn: 1},
		})
	}

	all, err := idx.FindAllByQualified("Job.Run")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearch_GlobWildcards(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	insertSymbol(t, idx, schema.Symbol{Name: "PaymentService", Qualified: "PaymentService", Kind: schema.KindClass, Language: "rust"})

	results, err := idx.Search("Payment*", 10, "")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "PaymentService", results[0].Name)
}

func TestUpdateFileData_ReplacesAtomically(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)

	err := idx.UpdateFileData("a.go",
		[]schema.Symbol{{Name: "Old", Qualified: "Old", Kind: schema.KindFunction, Language: "go", Location: schema.Location{File: "a.go", Line: 1, Column: 1, EndLine: 1, EndColumn: 1}}},
		nil, nil,
	)
	require.NoError(t, err)

	err = idx.UpdateFileData("a.go",
		[]schema.Symbol{{Name: "New", Qualified: "New", Kind: schema.KindFunction, Language: "go", Location: schema.Location{File: "a.go", Line: 1, Column: 1, EndLine: 1, EndColumn: 1}}},
		nil, nil,
	)
	require.NoError(t, err)

	symbols, err := idx.SymbolsInFile("a.go")
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "New", symbols[0].Name)
}

func TestFindStaleFiles_ClassifiesModifiedDeletedNew(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)

	dir := t.TempDir()
	keptPath := filepath.Join(dir, "kept.go")
	require.NoError(t, os.WriteFile(keptPath, []byte("package a"), 0o644))
	newPath := filepath.Join(dir, "new.go")
	require.NoError(t, os.WriteFile(newPath, []byte("package a"), 0o644))

	require.NoError(t, idx.SetFileMtime(keptPath, 100))
	deletedPath := filepath.Join(dir, "gone.go")
	require.NoError(t, idx.SetFileMtime(deletedPath, 100))

	changes, err := idx.FindStaleFiles([]string{keptPath, newPath})
	require.NoError(t, err)

	reasons := map[string]string{}
	for _, c := range changes {
		reasons[c.Path] = c.Reason
	}
	assert.Equal(t, "deleted", reasons[deletedPath])
	assert.Equal(t, "new", reasons[newPath])
	assert.Equal(t, "modified", reasons[keptPath]) // mtime 100 never matches a real file
}

func TestFuzzySearch_BoundsByEditDistance(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	insertSymbol(t, idx, schema.Symbol{Name: "ProcessPayment", Qualified: "ProcessPayment", Kind: schema.KindFunction, Language: "go"})
	insertSymbol(t, idx, schema.Symbol{Name: "UnrelatedThing", Qualified: "UnrelatedThing", Kind: schema.KindFunction, Language: "go"})

	results, err := idx.FuzzySearch("ProcesPayment", 3, 5, "")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "ProcessPayment", results[0].Symbol.Name)
	assert.LessOrEqual(t, results[0].Distance, 3)
}

func TestSchemaVersion_MigratesForward(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "index.db")
	idx, err := Create(dbPath)
	require.NoError(t, err)

	require.NoError(t, idx.SetMetadata("schema_version", "3"))
	version, err := idx.GetSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 3, version)
	idx.Close()

	reopened, err := Open(dbPath)
	require.NoError(t, err)
	defer reopened.Close()
	version, err = reopened.GetSchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}
