package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocket-tycoon/rocketindex/internal/liveindex"
	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

func sym(name, qualified, file string, line, endLine int) schema.Symbol {
	return schema.Symbol{
		Name: name, Qualified: qualified, Kind: schema.KindFunction, Language: "go",
		Location: schema.Location{File: file, Line: line, Column: 1, EndLine: endLine, EndColumn: 1},
	}
}

func TestResolve_DirectQualifiedHit(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	live.AddSymbol(sym("Run", "pkg.Run", "a.go", 1, 3))

	r := New(live, nil)
	got := r.Resolve("pkg.Run", "b.go")
	require.NotNil(t, got)
	assert.Equal(t, "Run", got.Name)
}

func TestResolve_ViaOpens(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	live.AddSymbol(sym("Helper", "utils.Helper", "utils.go", 1, 3))
	live.AddOpen("main.go", "utils")

	r := New(live, nil)
	got := r.Resolve("Helper", "main.go")
	require.NotNil(t, got)
	assert.Equal(t, "utils.Helper", got.Qualified)
}

func TestResolve_Miss(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	r := New(live, nil)
	assert.Nil(t, r.Resolve("nonexistent.Thing", "main.go"))
}

func TestSpider_ForwardBFS(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	live.AddSymbol(sym("A", "pkg.A", "a.go", 1, 5))
	live.AddSymbol(sym("B", "pkg.B", "a.go", 10, 15))
	live.AddSymbol(sym("C", "pkg.C", "a.go", 20, 25))

	// A calls B (reference inside A's span at line 2); B calls C.
	live.AddReference("a.go", schema.Reference{Name: "B", Location: schema.Location{File: "a.go", Line: 2, Column: 1}})
	live.AddReference("a.go", schema.Reference{Name: "C", Location: schema.Location{File: "a.go", Line: 11, Column: 1}})

	r := New(live, nil)
	result := r.Spider("pkg.A", 2)

	var names []string
	for _, n := range result.Nodes {
		names = append(names, n.Symbol.Name)
	}
	assert.Contains(t, names, "A")
	assert.Contains(t, names, "B")
	assert.Contains(t, names, "C")
}

func TestCallers_FindsDirectCaller(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	live.AddSymbol(sym("Caller", "pkg.Caller", "a.go", 1, 5))
	live.AddSymbol(sym("Target", "pkg.Target", "b.go", 1, 5))
	live.AddReference("a.go", schema.Reference{Name: "pkg.Target", Location: schema.Location{File: "a.go", Line: 2, Column: 1}})

	r := New(live, nil)
	result := r.Callers("pkg.Target")

	var names []string
	for _, n := range result.Nodes {
		names = append(names, n.Symbol.Name)
	}
	assert.Contains(t, names, "Caller")
}

func TestSuggest_ReturnsCloseMatches(t *testing.T) {
	t.Parallel()
	live := liveindex.New()
	live.AddSymbol(sym("ProcessPayment", "pkg.ProcessPayment", "a.go", 1, 5))

	r := New(live, nil)
	suggestions := r.Suggest("ProcesPayment", 3, 5)
	require.NotEmpty(t, suggestions)
}
