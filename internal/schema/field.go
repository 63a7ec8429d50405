package schema

import "github.com/nethalo/bulkreader/internal/cqltype"

// Field is one column of a table: its role (partition key, clustering
// column, static, or regular), name, type, and definition-order
// position.
type Field struct {
	IsPartitionKey     bool
	IsClusteringColumn bool
	IsStatic           bool
	Name               string
	Type               cqltype.Type
	Position           int
}

// Fields is a sortable slice of Field ordered partition-key columns
// (by definition order) < clustering columns (by definition order) <
// other columns (by name).
type Fields []Field

func (f Fields) Len() int      { return len(f) }
func (f Fields) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f Fields) Less(i, j int) bool {
	a, b := f[i], f[j]
	rank := func(field Field) int {
		switch {
		case field.IsPartitionKey:
			return 0
		case field.IsClusteringColumn:
			return 1
		default:
			return 2
		}
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra < rb
	}
	if ra <= 1 {
		// Partition-key and clustering columns sort by their declared
		// position within their own group.
		return a.Position < b.Position
	}
	return a.Name < b.Name
}
