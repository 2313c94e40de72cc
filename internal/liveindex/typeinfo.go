package liveindex

import (
	"github.com/rocket-tycoon/rocketindex/internal/schema"
	"github.com/rocket-tycoon/rocketindex/internal/typecache"
)

// SetTypeCache attaches an already-loaded type cache to the index, enabling
// type-aware resolution for hover and completion.
func (idx *Index) SetTypeCache(cache *typecache.Cache) { idx.typeCache = cache }

// HasTypeCache reports whether a type cache is attached.
func (idx *Index) HasTypeCache() bool { return idx.typeCache != nil }

// TypeCache returns the attached type cache, or nil.
func (idx *Index) TypeCache() *typecache.Cache { return idx.typeCache }

// GetSymbolType returns the type signature recorded for qualified, if a
// type cache is attached and holds an entry for it.
func (idx *Index) GetSymbolType(qualified string) (string, bool) {
	if idx.typeCache == nil {
		return "", false
	}
	return idx.typeCache.GetType(qualified)
}

// GetTypeMembers returns every recorded member of typeName, if a type
// cache is attached.
func (idx *Index) GetTypeMembers(typeName string) ([]schema.TypeMember, bool) {
	if idx.typeCache == nil {
		return nil, false
	}
	return idx.typeCache.GetMembers(typeName)
}

// GetTypeMember returns a single named member of typeName, if a type cache
// is attached.
func (idx *Index) GetTypeMember(typeName, member string) (schema.TypeMember, bool) {
	if idx.typeCache == nil {
		return schema.TypeMember{}, false
	}
	return idx.typeCache.GetMember(typeName, member)
}
