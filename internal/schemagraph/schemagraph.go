// Package schemagraph turns introspected database tables into a laid-out
// graph for the ER diagram view: one node per table, one edge per foreign
// key, with layered positions so the client can render without running its
// own layout pass.
package schemagraph

import (
	"sort"

	"github.com/crewdeck/crewdeck/internal/storage/sqlite"
)

// Node is one table box in the diagram
type Node struct {
	Table   string          `json:"table"`
	Columns []sqlite.Column `json:"columns"`
	// Layer is the node's depth in the FK hierarchy: referenced-only
	// tables sit at layer 0, tables referencing them below, and so on.
	Layer int `json:"layer"`
	// Order is the node's stable position within its layer.
	Order int `json:"order"`
}

// Edge is one foreign-key arrow between table boxes
type Edge struct {
	From        string `json:"from"` // referencing table
	FromColumn  string `json:"from_column"`
	To          string `json:"to"` // referenced table
	ToColumn    string `json:"to_column"`
	Cardinality string `json:"cardinality"` // "many-to-one" or "one-to-one"
}

// Graph is the complete diagram payload
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build converts introspected tables into a diagram graph. Output is
// deterministic: nodes are layered by longest FK path from the roots and
// alphabetical within a layer; edges follow node order.
func Build(tables []sqlite.Table) Graph {
	sorted := make([]sqlite.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	known := make(map[string]bool, len(sorted))
	for _, t := range sorted {
		known[t.Name] = true
	}

	// refs[t] = tables t references (FK targets inside the graph only)
	refs := make(map[string][]string, len(sorted))
	var edges []Edge
	for _, t := range sorted {
		for _, fk := range t.ForeignKeys {
			if !known[fk.RefTable] {
				continue
			}
			refs[t.Name] = append(refs[t.Name], fk.RefTable)
			edges = append(edges, Edge{
				From:        t.Name,
				FromColumn:  fk.Column,
				To:          fk.RefTable,
				ToColumn:    fk.RefColumn,
				Cardinality: cardinality(t, fk),
			})
		}
	}

	layers := assignLayers(sorted, refs)

	// Stable order within each layer: alphabetical, counted per layer
	perLayer := make(map[int]int)
	nodes := make([]Node, 0, len(sorted))
	for _, t := range sorted {
		layer := layers[t.Name]
		nodes = append(nodes, Node{
			Table:   t.Name,
			Columns: t.Columns,
			Layer:   layer,
			Order:   perLayer[layer],
		})
		perLayer[layer]++
	}

	return Graph{Nodes: nodes, Edges: edges}
}

// cardinality is many-to-one unless the referencing column is unique on its
// own (primary key), which collapses the relation to one-to-one.
func cardinality(t sqlite.Table, fk sqlite.ForeignKey) string {
	for _, col := range t.Columns {
		if col.Name == fk.Column && col.PrimaryKey {
			return "one-to-one"
		}
	}
	return "many-to-one"
}

// assignLayers computes longest-path layering: a table's layer is one more
// than the deepest table it references. Tables with no in-graph references
// are layer 0. FK cycles are broken by freezing already-visited tables at
// their current depth.
func assignLayers(tables []sqlite.Table, refs map[string][]string) map[string]int {
	layers := make(map[string]int, len(tables))
	state := make(map[string]int, len(tables)) // 0 unvisited, 1 in progress, 2 done

	var visit func(name string) int
	visit = func(name string) int {
		switch state[name] {
		case 1:
			// Cycle: freeze at current depth
			return layers[name]
		case 2:
			return layers[name]
		}
		state[name] = 1

		depth := 0
		for _, ref := range refs[name] {
			if ref == name {
				continue // self-reference doesn't deepen the layout
			}
			if d := visit(ref) + 1; d > depth {
				depth = d
			}
		}
		layers[name] = depth
		state[name] = 2
		return depth
	}

	for _, t := range tables {
		visit(t.Name)
	}
	return layers
}
