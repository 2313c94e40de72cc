package typecache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFromSchema_IndexesSymbolsAndMembers(t *testing.T) {
	t.Parallel()
	cache := FromSchema(Schema{
		Version:     1,
		ExtractedAt: "2026-01-01T00:00:00Z",
		Project:     "demo",
		Symbols: []TypedSymbol{
			{Name: "myString", Qualified: "MyModule.myString", TypeSignature: "string"},
		},
		Members: []Member{
			{TypeName: "User", Member: "Name", MemberType: "string", Kind: "Property"},
			{TypeName: "User", Member: "Save", MemberType: "unit -> unit", Kind: "Method"},
		},
	})

	typ, ok := cache.GetType("MyModule.myString")
	require.True(t, ok)
	assert.Equal(t, "string", typ)

	_, ok = cache.GetType("Nonexistent")
	assert.False(t, ok)

	members, ok := cache.GetMembers("User")
	require.True(t, ok)
	assert.Len(t, members, 2)

	save, ok := cache.GetMember("User", "Save")
	require.True(t, ok)
	assert.Equal(t, "Method", save.Kind)

	_, ok = cache.GetMember("User", "Missing")
	assert.False(t, ok)
}
