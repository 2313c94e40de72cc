package diskindex

import (
	"database/sql"
	"fmt"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// InsertReferences bulk-inserts references for file in tx.
func (idx *Index) InsertReferences(tx *sql.Tx, file string, refs []schema.Reference) error {
	stmt, err := tx.Prepare("INSERT INTO refs (name, file, line, column) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare reference insert: %w", err)
	}
	defer stmt.Close()

	for _, ref := range refs {
		if _, err := stmt.Exec(ref.Name, file, ref.Location.Line, ref.Location.Column); err != nil {
			return fmt.Errorf("insert reference %s: %w", ref.Name, err)
		}
	}
	return nil
}

// FindReferences returns references whose name exactly matches, or whose
// qualified form ends with ".name" / "::name" — so a bare "User" also
// matches "Module.User" and "Module::User".
func (idx *Index) FindReferences(name string) ([]schema.Reference, error) {
	rows, err := idx.db.Query(
		`SELECT name, file, line, column FROM refs
		 WHERE name = ? OR name LIKE '%.' || ? OR name LIKE '%::' || ?`,
		name, name, name,
	)
	if err != nil {
		return nil, fmt.Errorf("find references to %s: %w", name, err)
	}
	defer rows.Close()
	return scanRefs(rows)
}

// ReferencesInFile returns every reference recorded in file.
func (idx *Index) ReferencesInFile(file string) ([]schema.Reference, error) {
	rows, err := idx.db.Query("SELECT name, file, line, column FROM refs WHERE file = ?", file)
	if err != nil {
		return nil, fmt.Errorf("references in file %s: %w", file, err)
	}
	defer rows.Close()
	return scanRefs(rows)
}

func scanRefs(rows *sql.Rows) ([]schema.Reference, error) {
	var refs []schema.Reference
	for rows.Next() {
		var name, file string
		var line, column int
		if err := rows.Scan(&name, &file, &line, &column); err != nil {
			return nil, fmt.Errorf("scan reference row: %w", err)
		}
		refs = append(refs, schema.Reference{
			Name:     name,
			Location: schema.Location{File: file, Line: line, Column: column},
		})
	}
	return refs, rows.Err()
}

// InsertOpens bulk-inserts open/import/use directives for file in tx.
func (idx *Index) InsertOpens(tx *sql.Tx, file string, opens []schema.Open) error {
	stmt, err := tx.Prepare("INSERT INTO opens (file, module_path, line) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare open insert: %w", err)
	}
	defer stmt.Close()

	for _, open := range opens {
		if _, err := stmt.Exec(file, open.Path, open.Line); err != nil {
			return fmt.Errorf("insert open %s: %w", open.Path, err)
		}
	}
	return nil
}

// OpensForFile returns the module paths opened by file, in source order.
func (idx *Index) OpensForFile(file string) ([]string, error) {
	rows, err := idx.db.Query("SELECT module_path FROM opens WHERE file = ? ORDER BY line", file)
	if err != nil {
		return nil, fmt.Errorf("opens for file %s: %w", file, err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan open row: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}
