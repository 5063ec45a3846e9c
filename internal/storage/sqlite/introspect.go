package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Table describes one user table for the schema visualizer
type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreign_keys,omitempty"`
}

// Column describes one column of a table
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	NotNull    bool   `json:"not_null"`
	PrimaryKey bool   `json:"primary_key"`
}

// ForeignKey describes one outgoing reference from a table
type ForeignKey struct {
	Column    string `json:"column"`
	RefTable  string `json:"ref_table"`
	RefColumn string `json:"ref_column"`
}

// ListTables introspects the database schema: every user table with its
// columns and foreign keys, in name order. Internal bookkeeping tables
// (sqlite_*, counters) are skipped.
func (s *SQLiteStorage) ListTables(ctx context.Context) ([]Table, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		if strings.HasSuffix(name, "_counters") {
			continue
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		table := Table{Name: name}

		if table.Columns, err = s.tableColumns(ctx, name); err != nil {
			return nil, err
		}
		if table.ForeignKeys, err = s.tableForeignKeys(ctx, name); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *SQLiteStorage) tableColumns(ctx context.Context, table string) ([]Column, error) {
	// PRAGMA table_info doesn't support placeholders; table names come
	// from sqlite_master, not user input
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column
	for rows.Next() {
		var (
			cid     int
			col     Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info for %s: %w", table, err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = pk != 0
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (s *SQLiteStorage) tableForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%q)", table))
	if err != nil {
		return nil, fmt.Errorf("failed to get foreign keys for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var fks []ForeignKey
	for rows.Next() {
		var (
			id, seq                   int
			fk                        ForeignKey
			refColumn                 sql.NullString // NULL when referencing an implicit rowid PK
			onUpdate, onDelete, match string
		)
		if err := rows.Scan(&id, &seq, &fk.RefTable, &fk.Column, &refColumn,
			&onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key for %s: %w", table, err)
		}
		if refColumn.Valid {
			fk.RefColumn = refColumn.String
		} else {
			fk.RefColumn = "id"
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
