package diskindex

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// InsertSymbols bulk-inserts symbols in a single transaction.
func (idx *Index) InsertSymbols(tx *sql.Tx, symbols []schema.Symbol) error {
	stmt, err := tx.Prepare(`INSERT INTO symbols
		(name, qualified, kind, file, line, column, end_line, end_column, visibility, language, parent, mixins, attributes, implements, doc, signature)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare symbol insert: %w", err)
	}
	defer stmt.Close()

	for _, sym := range symbols {
		if _, err := stmt.Exec(
			sym.Name,
			sym.Qualified,
			sym.Kind.String(),
			sym.Location.File,
			sym.Location.Line,
			sym.Location.Column,
			sym.Location.EndLine,
			sym.Location.EndColumn,
			sym.Visibility.String(),
			sym.Language,
			nullableString(sym.Parent),
			jsonOrNull(sym.Mixins),
			jsonOrNull(sym.Attributes),
			jsonOrNull(sym.Implements),
			nullableString(sym.Doc),
			nullableString(sym.Signature),
		); err != nil {
			return fmt.Errorf("insert symbol %s: %w", sym.Qualified, err)
		}
	}
	return nil
}

// FindByQualified returns the first symbol with the given qualified name.
func (idx *Index) FindByQualified(qualified string) (*schema.Symbol, error) {
	row := idx.db.QueryRow(fmt.Sprintf("SELECT %s FROM symbols WHERE qualified = ? LIMIT 1", symbolColumns), qualified)
	sym, err := scanSymbol(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by qualified %s: %w", qualified, err)
	}
	return sym, nil
}

// FindAllByQualified returns every symbol with the given qualified name —
// used for overload/shadow resolution, where several definitions can share
// one qualified name.
func (idx *Index) FindAllByQualified(qualified string) ([]schema.Symbol, error) {
	rows, err := idx.db.Query(fmt.Sprintf("SELECT %s FROM symbols WHERE qualified = ?", symbolColumns), qualified)
	if err != nil {
		return nil, fmt.Errorf("find all by qualified %s: %w", qualified, err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// Search matches name or qualified name against a glob-style pattern (* and
// ? wildcards, translated to SQL LIKE).
func (idx *Index) Search(pattern string, limit int, language string) ([]schema.Symbol, error) {
	likePattern := strings.NewReplacer("*", "%", "?", "_").Replace(pattern)
	query := fmt.Sprintf("SELECT %s FROM symbols WHERE (name LIKE ? OR qualified LIKE ?)", symbolColumns)
	args := []any{likePattern, likePattern}
	if language != "" {
		query += " AND language = ?"
		args = append(args, language)
	}
	query += " LIMIT ?"
	args = append(args, limit)

	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", pattern, err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// SearchFTS runs an FTS5 query for prefix/word search, falling back to
// Search for patterns FTS5 handles poorly (suffix globs, embedded globs).
func (idx *Index) SearchFTS(pattern string, limit int, language string) ([]schema.Symbol, error) {
	trimmed := strings.TrimSpace(pattern)
	if strings.HasPrefix(trimmed, "*") || strings.Contains(trimmed, "**") {
		return idx.Search(pattern, limit, language)
	}

	var ftsQuery string
	switch {
	case strings.HasSuffix(trimmed, "*"):
		ftsQuery = trimmed
	case strings.Contains(trimmed, "*"):
		return idx.Search(pattern, limit, language)
	default:
		ftsQuery = trimmed + "*"
	}

	symbols, err := idx.searchFTSRaw(ftsQuery, limit, language)
	if err != nil {
		return idx.Search(pattern, limit, language)
	}
	return symbols, nil
}

func (idx *Index) searchFTSRaw(ftsQuery string, limit int, language string) ([]schema.Symbol, error) {
	cols := prefixedSymbolColumns("s")
	query := fmt.Sprintf(
		"SELECT %s FROM symbols s JOIN symbols_fts fts ON s.id = fts.rowid WHERE symbols_fts MATCH ?",
		cols,
	)
	args := []any{ftsQuery}
	if language != "" {
		query += " AND s.language = ?"
		args = append(args, language)
	}
	query += " ORDER BY rank LIMIT ?"
	args = append(args, limit)

	rows, err := idx.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

func prefixedSymbolColumns(alias string) string {
	cols := strings.Split(symbolColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// SymbolsInFile returns every symbol declared in file.
func (idx *Index) SymbolsInFile(file string) ([]schema.Symbol, error) {
	rows, err := idx.db.Query(fmt.Sprintf("SELECT %s FROM symbols WHERE file = ?", symbolColumns), file)
	if err != nil {
		return nil, fmt.Errorf("symbols in file %s: %w", file, err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// FindSubclasses returns symbols whose parent matches parent exactly.
func (idx *Index) FindSubclasses(parent string) ([]schema.Symbol, error) {
	rows, err := idx.db.Query(fmt.Sprintf("SELECT %s FROM symbols WHERE parent = ?", symbolColumns), parent)
	if err != nil {
		return nil, fmt.Errorf("find subclasses of %s: %w", parent, err)
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// CountSymbols returns the total number of indexed symbols.
func (idx *Index) CountSymbols() (int, error) {
	var count int
	if err := idx.db.QueryRow("SELECT COUNT(*) FROM symbols").Scan(&count); err != nil {
		return 0, fmt.Errorf("count symbols: %w", err)
	}
	return count, nil
}

// AllNames returns every distinct name and qualified name, for fuzzy-match
// candidate generation.
func (idx *Index) AllNames() ([]string, error) {
	rows, err := idx.db.Query("SELECT DISTINCT name FROM symbols UNION SELECT DISTINCT qualified FROM symbols")
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetSymbolType returns the recorded type signature for qualified, if the
// optional type cache has populated one.
func (idx *Index) GetSymbolType(qualified string) (string, error) {
	var sig sql.NullString
	err := idx.db.QueryRow(
		"SELECT type_signature FROM symbols WHERE qualified = ? AND type_signature IS NOT NULL LIMIT 1",
		qualified,
	).Scan(&sig)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get symbol type %s: %w", qualified, err)
	}
	return sig.String, nil
}

// UpdateSymbolType records an externally-produced type signature for every
// symbol matching qualified, marking it 'semantic' sourced.
func (idx *Index) UpdateSymbolType(qualified, typeSignature string) (int64, error) {
	res, err := idx.db.Exec(
		"UPDATE symbols SET type_signature = ?, source = 'semantic' WHERE qualified = ?",
		typeSignature, qualified,
	)
	if err != nil {
		return 0, fmt.Errorf("update symbol type %s: %w", qualified, err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSymbol(row scanner) (*schema.Symbol, error) {
	var (
		id                                     int64
		name, qualified, kind, file            string
		line, column, endLine, endColumn       int
		visibility, language                   string
		parent, mixins, attributes, implements sql.NullString
		doc, signature, typeSignature          sql.NullString
	)
	if err := row.Scan(&id, &name, &qualified, &kind, &file, &line, &column, &endLine, &endColumn,
		&visibility, &language, &parent, &mixins, &attributes, &implements, &doc, &signature, &typeSignature); err != nil {
		return nil, err
	}
	sym := &schema.Symbol{
		Name:      name,
		Qualified: qualified,
		Kind:      schema.ParseSymbolKind(kind),
		Location: schema.Location{
			File: file, Line: line, Column: column, EndLine: endLine, EndColumn: endColumn,
		},
		Visibility: schema.ParseVisibility(visibility),
		Language:   language,
		Parent:     parent.String,
		Doc:        doc.String,
		Signature:  signature.String,
	}
	decodeJSON(mixins.String, &sym.Mixins)
	decodeJSON(attributes.String, &sym.Attributes)
	decodeJSON(implements.String, &sym.Implements)
	return sym, nil
}

func scanSymbols(rows *sql.Rows) ([]schema.Symbol, error) {
	var symbols []schema.Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol row: %w", err)
		}
		symbols = append(symbols, *sym)
	}
	return symbols, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func jsonOrNull(v []string) any {
	if len(v) == 0 {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func decodeJSON(s string, out *[]string) {
	if s == "" {
		return
	}
	_ = json.Unmarshal([]byte(s), out)
}
