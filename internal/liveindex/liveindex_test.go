package liveindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
	"github.com/rocket-tycoon/rocketindex/internal/typecache"
)

func makeSymbol(name, qualified, file string) schema.Symbol {
	return schema.Symbol{
		Name:      name,
		Qualified: qualified,
		Kind:      schema.KindFunction,
		Location:  schema.Location{File: file, Line: 1, Column: 1, EndLine: 1, EndColumn: 1},
		Language:  "fsharp",
	}
}

func TestAddAndGetSymbol(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("foo", "MyModule.foo", "src/test.fs"))

	got := idx.Get("MyModule.foo")
	require.NotNil(t, got)
	assert.Equal(t, "foo", got.Name)
	assert.Equal(t, 1, idx.SymbolCount())
}

func TestSymbolsInFile(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("foo", "M.foo", "src/a.fs"))
	idx.AddSymbol(makeSymbol("bar", "M.bar", "src/a.fs"))
	idx.AddSymbol(makeSymbol("baz", "M.baz", "src/b.fs"))

	assert.Len(t, idx.SymbolsInFile("src/a.fs"), 2)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("PaymentService", "App.PaymentService", "src/a.fs"))
	idx.AddSymbol(makeSymbol("PaymentRequest", "App.PaymentRequest", "src/a.fs"))
	idx.AddSymbol(makeSymbol("OrderService", "App.OrderService", "src/b.fs"))

	assert.Len(t, idx.Search("Payment*"), 2)
	assert.Len(t, idx.Search("Order"), 1)
}

func TestClearFile(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("foo", "M.foo", "src/a.fs"))
	idx.AddSymbol(makeSymbol("bar", "M.bar", "src/b.fs"))
	require.Equal(t, 2, idx.SymbolCount())

	idx.ClearFile("src/a.fs")

	assert.Equal(t, 1, idx.SymbolCount())
	assert.Nil(t, idx.Get("M.foo"))
	assert.NotNil(t, idx.Get("M.bar"))
}

func TestFindReferences(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("helper", "Utils.helper", "src/Utils.fs"))

	idx.AddReference("src/Main.fs", schema.Reference{
		Name:     "helper",
		Location: schema.Location{File: "src/Main.fs", Line: 10, Column: 5},
	})
	idx.AddReference("src/Main.fs", schema.Reference{
		Name:     "Utils.helper",
		Location: schema.Location{File: "src/Main.fs", Line: 15, Column: 5},
	})
	idx.AddReference("src/Other.fs", schema.Reference{
		Name:     "helper",
		Location: schema.Location{File: "src/Other.fs", Line: 20, Column: 5},
	})

	refs := idx.FindReferences("Utils.helper")
	assert.Len(t, refs, 3)
}

func TestFindReferences_NoSymbol(t *testing.T) {
	t.Parallel()
	idx := New()
	assert.Empty(t, idx.FindReferences("NonExistent.symbol"))
}

func TestFindReferences_DoesNotLeakUnrelatedDottedReferences(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("helper", "Utils.helper", "src/Utils.fs"))

	idx.AddReference("src/Main.fs", schema.Reference{
		Name:     "Utils.helper",
		Location: schema.Location{File: "src/Main.fs", Line: 10, Column: 5},
	})
	idx.AddReference("src/Other.fs", schema.Reference{
		Name:     "Other.unrelated",
		Location: schema.Location{File: "src/Other.fs", Line: 20, Column: 5},
	})

	refs := idx.FindReferences("Utils.helper")
	assert.Len(t, refs, 1)
	assert.Equal(t, "Utils.helper", refs[0].Name)
}

func TestFindReferences_MatchesScopeQualifiedCallSites(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("new", "Widget::new", "src/widget.rs"))

	idx.AddReference("src/main.rs", schema.Reference{
		Name:     "Widget::new",
		Location: schema.Location{File: "src/main.rs", Line: 7, Column: 5},
	})
	idx.AddReference("src/other.rs", schema.Reference{
		Name:     "Other::new",
		Location: schema.Location{File: "src/other.rs", Line: 9, Column: 5},
	})

	refs := idx.FindReferences("Widget::new")
	assert.Len(t, refs, 2)
	var names []string
	for _, r := range refs {
		names = append(names, r.Name)
	}
	assert.ElementsMatch(t, []string{"Widget::new", "Other::new"}, names)
}

func TestSymbolOverloading(t *testing.T) {
	t.Parallel()
	idx := New()
	sym1 := makeSymbol("parse", "Parser.parse", "src/Parser.fs")
	sym1.Location.Line = 10
	sym2 := makeSymbol("parse", "Parser.parse", "src/Parser.fs")
	sym2.Location.Line = 20

	idx.AddSymbol(sym1)
	idx.AddSymbol(sym2)

	assert.Equal(t, 2, idx.SymbolCount())
	assert.Equal(t, 20, idx.Get("Parser.parse").Location.Line)

	all := idx.GetAll("Parser.parse")
	require.Len(t, all, 2)
	assert.Equal(t, 10, all[0].Location.Line)
	assert.Equal(t, 20, all[1].Location.Line)
}

func TestSymbolShadowingAcrossFiles(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.AddSymbol(makeSymbol("config", "App.config", "src/Config.fs"))
	idx.AddSymbol(makeSymbol("config", "App.config", "src/Override.fs"))
	require.Equal(t, 2, idx.SymbolCount())

	idx.ClearFile("src/Config.fs")

	assert.Equal(t, 1, idx.SymbolCount())
	remaining := idx.Get("App.config")
	require.NotNil(t, remaining)
	assert.Equal(t, "src/Override.fs", remaining.Location.File)
}

func TestFileOrderBasic(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.SetFileOrder([]string{"src/A.fs", "src/B.fs", "src/C.fs"})

	assert.True(t, idx.HasFileOrder())
	assert.Equal(t, 3, idx.FileOrderCount())

	order, ok := idx.CompilationOrder("src/B.fs")
	require.True(t, ok)
	assert.Equal(t, 1, order)

	_, ok = idx.CompilationOrder("src/D.fs")
	assert.False(t, ok)
}

func TestCanReferenceWithOrder(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.SetFileOrder([]string{"src/A.fs", "src/B.fs", "src/C.fs"})

	assert.True(t, idx.CanReference("src/C.fs", "src/A.fs"))
	assert.True(t, idx.CanReference("src/B.fs", "src/A.fs"))
	assert.False(t, idx.CanReference("src/A.fs", "src/B.fs"))
	assert.False(t, idx.CanReference("src/B.fs", "src/C.fs"))
}

func TestCanReferenceWithoutOrder(t *testing.T) {
	t.Parallel()
	idx := New()
	assert.False(t, idx.HasFileOrder())
	assert.True(t, idx.CanReference("src/A.fs", "src/B.fs"))
	assert.True(t, idx.CanReference("src/B.fs", "src/A.fs"))
}

func TestFilesVisibleFrom(t *testing.T) {
	t.Parallel()
	idx := New()
	idx.SetFileOrder([]string{"src/A.fs", "src/B.fs", "src/C.fs"})

	assert.Empty(t, idx.FilesVisibleFrom("src/A.fs"))

	visible := idx.FilesVisibleFrom("src/B.fs")
	require.Len(t, visible, 1)
	assert.Equal(t, "src/A.fs", visible[0])

	assert.Len(t, idx.FilesVisibleFrom("src/C.fs"), 2)
}

func TestFileOrderWithWorkspaceRoot(t *testing.T) {
	t.Parallel()
	idx := NewWithRoot("/workspace")
	idx.SetFileOrder([]string{"/workspace/src/A.fs", "/workspace/src/B.fs"})

	order, ok := idx.CompilationOrder("src/A.fs")
	require.True(t, ok)
	assert.Equal(t, 0, order)

	order, ok = idx.CompilationOrder("/workspace/src/B.fs")
	require.True(t, ok)
	assert.Equal(t, 1, order)
}

func TestTypeCacheIntegration(t *testing.T) {
	t.Parallel()
	idx := New()
	assert.False(t, idx.HasTypeCache())
	_, ok := idx.GetSymbolType("MyModule.myString")
	assert.False(t, ok)

	cache := typecache.FromSchema(typecache.Schema{
		Symbols: []typecache.TypedSymbol{
			{Qualified: "MyModule.myString", TypeSignature: "string"},
		},
		Members: []typecache.Member{
			{TypeName: "User", Member: "Name", MemberType: "string", Kind: "Property"},
		},
	})
	idx.SetTypeCache(cache)

	assert.True(t, idx.HasTypeCache())
	typ, ok := idx.GetSymbolType("MyModule.myString")
	require.True(t, ok)
	assert.Equal(t, "string", typ)

	members, ok := idx.GetTypeMembers("User")
	require.True(t, ok)
	assert.Len(t, members, 1)
}
