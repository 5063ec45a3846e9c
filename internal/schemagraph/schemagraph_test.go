package schemagraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewdeck/crewdeck/internal/storage/sqlite"
)

func table(name string, fks ...sqlite.ForeignKey) sqlite.Table {
	return sqlite.Table{
		Name: name,
		Columns: []sqlite.Column{
			{Name: "id", Type: "TEXT", PrimaryKey: true},
			{Name: "name", Type: "TEXT"},
		},
		ForeignKeys: fks,
	}
}

func nodeByName(t *testing.T, g Graph, name string) Node {
	t.Helper()
	for _, n := range g.Nodes {
		if n.Table == name {
			return n
		}
	}
	t.Fatalf("node %s not found", name)
	return Node{}
}

func TestBuildLayering(t *testing.T) {
	// members <- duties, members <- goals, tasks standalone
	g := Build([]sqlite.Table{
		table("duties", sqlite.ForeignKey{Column: "member_id", RefTable: "members", RefColumn: "id"}),
		table("members"),
		table("goals", sqlite.ForeignKey{Column: "owner_id", RefTable: "members", RefColumn: "id"}),
		table("tasks"),
	})

	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 2)

	assert.Equal(t, 0, nodeByName(t, g, "members").Layer)
	assert.Equal(t, 0, nodeByName(t, g, "tasks").Layer)
	assert.Equal(t, 1, nodeByName(t, g, "duties").Layer)
	assert.Equal(t, 1, nodeByName(t, g, "goals").Layer)

	// Alphabetical within layer 1: duties before goals
	assert.Equal(t, 0, nodeByName(t, g, "duties").Order)
	assert.Equal(t, 1, nodeByName(t, g, "goals").Order)
}

func TestBuildChainLayering(t *testing.T) {
	// kpi_points -> kpis -> (nothing): two-level chain
	g := Build([]sqlite.Table{
		table("kpi_points", sqlite.ForeignKey{Column: "kpi_id", RefTable: "kpis", RefColumn: "id"}),
		table("kpis"),
		table("reviews",
			sqlite.ForeignKey{Column: "point_id", RefTable: "kpi_points", RefColumn: "id"},
			sqlite.ForeignKey{Column: "kpi_id", RefTable: "kpis", RefColumn: "id"},
		),
	})

	assert.Equal(t, 0, nodeByName(t, g, "kpis").Layer)
	assert.Equal(t, 1, nodeByName(t, g, "kpi_points").Layer)
	// Longest path wins: reviews references both layers, lands at 2
	assert.Equal(t, 2, nodeByName(t, g, "reviews").Layer)
}

func TestBuildCardinality(t *testing.T) {
	profile := sqlite.Table{
		Name: "profiles",
		Columns: []sqlite.Column{
			{Name: "member_id", Type: "TEXT", PrimaryKey: true},
		},
		ForeignKeys: []sqlite.ForeignKey{
			{Column: "member_id", RefTable: "members", RefColumn: "id"},
		},
	}
	g := Build([]sqlite.Table{table("members"), profile})

	require.Len(t, g.Edges, 1)
	assert.Equal(t, "one-to-one", g.Edges[0].Cardinality)

	g = Build([]sqlite.Table{
		table("members"),
		table("duties", sqlite.ForeignKey{Column: "member_id", RefTable: "members", RefColumn: "id"}),
	})
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "many-to-one", g.Edges[0].Cardinality)
}

func TestBuildIgnoresDanglingAndSelfReferences(t *testing.T) {
	g := Build([]sqlite.Table{
		// FK to a table outside the introspected set
		table("orphans", sqlite.ForeignKey{Column: "x_id", RefTable: "externals", RefColumn: "id"}),
		// Self-referencing table must not recurse forever or deepen layout
		table("folders", sqlite.ForeignKey{Column: "parent_id", RefTable: "folders", RefColumn: "id"}),
	})

	assert.Equal(t, 0, nodeByName(t, g, "orphans").Layer)
	assert.Equal(t, 0, nodeByName(t, g, "folders").Layer)

	// Dangling edge dropped, self-edge kept
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "folders", g.Edges[0].From)
	assert.Equal(t, "folders", g.Edges[0].To)
}

func TestBuildDeterministic(t *testing.T) {
	input := []sqlite.Table{
		table("zeta", sqlite.ForeignKey{Column: "a_id", RefTable: "alpha", RefColumn: "id"}),
		table("alpha"),
		table("mid", sqlite.ForeignKey{Column: "a_id", RefTable: "alpha", RefColumn: "id"}),
	}
	first := Build(input)

	// Shuffled input produces identical output
	shuffled := []sqlite.Table{input[2], input[0], input[1]}
	second := Build(shuffled)

	assert.Equal(t, first, second)
}
