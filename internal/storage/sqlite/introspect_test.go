package sqlite

import (
	"context"
	"testing"
)

func TestListTables(t *testing.T) {
	store := setupTestDB(t)
	defer func() { _ = store.Close() }()

	tables, err := store.ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables failed: %v", err)
	}

	byName := make(map[string]Table)
	for _, table := range tables {
		byName[table.Name] = table
	}

	for _, want := range []string{"tasks", "members", "duties", "goals", "kpis",
		"kpi_points", "notifications", "user_settings", "menu_configs",
		"email_prefs", "events", "config"} {
		if _, ok := byName[want]; !ok {
			t.Errorf("Expected table %s in introspection output", want)
		}
	}

	// Counter bookkeeping is hidden from the visualizer
	if _, ok := byName["task_counters"]; ok {
		t.Error("task_counters should be skipped")
	}

	duties := byName["duties"]
	var hasMemberFK bool
	for _, fk := range duties.ForeignKeys {
		if fk.Column == "member_id" && fk.RefTable == "members" && fk.RefColumn == "id" {
			hasMemberFK = true
		}
	}
	if !hasMemberFK {
		t.Errorf("Expected duties.member_id -> members.id, got %+v", duties.ForeignKeys)
	}

	tasks := byName["tasks"]
	var idIsPK bool
	for _, col := range tasks.Columns {
		if col.Name == "id" && col.PrimaryKey {
			idIsPK = true
		}
	}
	if !idIsPK {
		t.Errorf("Expected tasks.id marked primary key, got %+v", tasks.Columns)
	}

	// Deterministic name order
	for i := 1; i < len(tables); i++ {
		if tables[i-1].Name > tables[i].Name {
			t.Errorf("Tables not sorted: %s before %s", tables[i-1].Name, tables[i].Name)
		}
	}
}
