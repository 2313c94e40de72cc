// Package typecache loads the optional, externally-produced type cache: a
// JSON file emitted by a build-time tool (a compiler plugin, an LSP dump,
// whatever the language's own tooling can offer) that attaches inferred type
// signatures and type members to qualified symbol names. The live index
// consults it read-only; nothing in this module writes one back.
package typecache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// TypedSymbol is one entry in a type cache's symbol table: a qualified name
// paired with its inferred type signature.
type TypedSymbol struct {
	Name          string   `json:"name"`
	Qualified     string   `json:"qualified"`
	TypeSignature string   `json:"type"`
	File          string   `json:"file"`
	Line          int      `json:"line"`
	Parameters    []string `json:"parameters,omitempty"`
}

// Member is one entry in a type cache's member table, as written to disk.
// Unlike schema.TypeMember (which is keyed externally, by the disk index's
// members table) a cache file must carry the owning type name inline.
type Member struct {
	TypeName   string `json:"type_name"`
	Member     string `json:"member"`
	MemberType string `json:"member_type"`
	Kind       string `json:"kind"`
}

func (m Member) toSchema() schema.TypeMember {
	return schema.TypeMember{Member: m.Member, MemberType: m.MemberType, Kind: m.Kind}
}

// Schema is the on-disk JSON shape of a type cache file.
type Schema struct {
	Version     int           `json:"version"`
	ExtractedAt string        `json:"extracted_at"`
	Project     string        `json:"project"`
	Symbols     []TypedSymbol `json:"symbols"`
	Members     []Member      `json:"members"`
}

// Cache is a loaded type cache, indexed for O(1) lookup by qualified name.
type Cache struct {
	bySymbol  map[string]string
	byType    map[string][]schema.TypeMember
	byMember  map[string]schema.TypeMember
	extracted string
	project   string
}

// Load reads and indexes a type cache from path.
func Load(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read type cache %s: %w", path, err)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse type cache %s: %w", path, err)
	}
	return FromSchema(s), nil
}

// FromSchema builds an indexed Cache from an already-decoded Schema.
func FromSchema(s Schema) *Cache {
	c := &Cache{
		bySymbol:  make(map[string]string, len(s.Symbols)),
		byType:    make(map[string][]schema.TypeMember),
		byMember:  make(map[string]schema.TypeMember),
		extracted: s.ExtractedAt,
		project:   s.Project,
	}
	for _, sym := range s.Symbols {
		c.bySymbol[sym.Qualified] = sym.TypeSignature
	}
	for _, m := range s.Members {
		c.byType[m.TypeName] = append(c.byType[m.TypeName], m.toSchema())
		c.byMember[memberKey(m.TypeName, m.Member)] = m.toSchema()
	}
	return c
}

func memberKey(typeName, member string) string {
	return typeName + "." + member
}

// GetType returns the type signature recorded for a qualified symbol name.
func (c *Cache) GetType(qualified string) (string, bool) {
	t, ok := c.bySymbol[qualified]
	return t, ok
}

// GetMembers returns every member recorded for typeName.
func (c *Cache) GetMembers(typeName string) ([]schema.TypeMember, bool) {
	members, ok := c.byType[typeName]
	return members, ok
}

// GetMember returns a single named member of typeName.
func (c *Cache) GetMember(typeName, member string) (schema.TypeMember, bool) {
	m, ok := c.byMember[memberKey(typeName, member)]
	return m, ok
}

// AllTypes returns every qualified-name -> type-signature pair the cache
// holds, for callers that need to merge them into another store (the disk
// index's symbols.type_signature column).
func (c *Cache) AllTypes() map[string]string {
	out := make(map[string]string, len(c.bySymbol))
	for k, v := range c.bySymbol {
		out[k] = v
	}
	return out
}

// ExtractedAt returns the cache's recorded extraction timestamp, as written
// by the tool that produced it.
func (c *Cache) ExtractedAt() string { return c.extracted }

// Project returns the cache's recorded project name.
func (c *Cache) Project() string { return c.project }
