package diskindex

import (
	"database/sql"
	"fmt"

	"github.com/rocket-tycoon/rocketindex/internal/schema"
)

// InsertMembers bulk-inserts externally-produced type members (from the
// optional typecache) for a single type.
func (idx *Index) InsertMembers(tx *sql.Tx, typeName string, members []schema.TypeMember) error {
	stmt, err := tx.Prepare("INSERT INTO members (type_name, member_name, member_type, kind) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.Exec(typeName, m.Member, m.MemberType, m.Kind); err != nil {
			return fmt.Errorf("insert member %s.%s: %w", typeName, m.Member, err)
		}
	}
	return nil
}

// GetMembers returns every recorded member of typeName.
func (idx *Index) GetMembers(typeName string) ([]schema.TypeMember, error) {
	rows, err := idx.db.Query(
		"SELECT type_name, member_name, member_type, kind FROM members WHERE type_name = ?",
		typeName,
	)
	if err != nil {
		return nil, fmt.Errorf("get members of %s: %w", typeName, err)
	}
	defer rows.Close()

	var members []schema.TypeMember
	for rows.Next() {
		var tn, name, memberType, kind string
		if err := rows.Scan(&tn, &name, &memberType, &kind); err != nil {
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		members = append(members, schema.TypeMember{Member: name, MemberType: memberType, Kind: kind})
	}
	return members, rows.Err()
}

// GetMember returns a single named member of typeName, if recorded.
func (idx *Index) GetMember(typeName, memberName string) (*schema.TypeMember, error) {
	var name, memberType, kind string
	err := idx.db.QueryRow(
		"SELECT member_name, member_type, kind FROM members WHERE type_name = ? AND member_name = ? LIMIT 1",
		typeName, memberName,
	).Scan(&name, &memberType, &kind)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member %s.%s: %w", typeName, memberName, err)
	}
	return &schema.TypeMember{Member: name, MemberType: memberType, Kind: kind}, nil
}

// ClearTypeMembers deletes every recorded member of typeName.
func (idx *Index) ClearTypeMembers(typeName string) (int64, error) {
	res, err := idx.db.Exec("DELETE FROM members WHERE type_name = ?", typeName)
	if err != nil {
		return 0, fmt.Errorf("clear members of %s: %w", typeName, err)
	}
	return res.RowsAffected()
}

// ClearAllMembers deletes every recorded member, ahead of a full type-cache
// refresh.
func (idx *Index) ClearAllMembers() (int64, error) {
	res, err := idx.db.Exec("DELETE FROM members")
	if err != nil {
		return 0, fmt.Errorf("clear all members: %w", err)
	}
	return res.RowsAffected()
}
