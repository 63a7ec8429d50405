package schema

import (
	"sort"

	"github.com/nethalo/bulkreader/internal/cqltype"
	"github.com/nethalo/bulkreader/internal/ring"
)

// UDT is a resolved user-defined type, keyed by (keyspace, name) in
// the registry.
type UDT struct {
	Keyspace string
	Name     string
	Fields   []cqltype.UDTField
}

// AsType returns the UDT as a cqltype.Type for embedding in a column
// or another UDT's field.
func (u UDT) AsType() cqltype.Type {
	return cqltype.UDT(u.Keyspace, u.Name, u.Fields)
}

// Key is the registry lookup key for a UDT.
func (u UDT) Key() udtKey { return udtKey{u.Keyspace, u.Name} }

type udtKey struct {
	keyspace string
	name     string
}

// TableMetadata is the keyspace-scoped intermediate the builder
// constructs before producing the immutable, engine-facing CqlSchema.
type TableMetadata struct {
	Keyspace string
	Table    string
	Columns  Fields // declaration order, as parsed (not sorted)
}

// Schema is the immutable, fully-built schema a job's rows are decoded
// against.
type Schema struct {
	Keyspace          string
	Table             string
	CreateStmt        string
	ReplicationFactor ring.ReplicationFactor
	Fields            Fields
	UDTs              []UDT
}

// FieldsInOrder returns a defensive copy of Fields sorted per the
// ordering invariant, safe to hand to a caller that might otherwise be
// tempted to sort the builder's own slice in place.
func (s Schema) FieldsInOrder() Fields {
	out := append(Fields(nil), s.Fields...)
	sort.Sort(out)
	return out
}

// PartitionKeyFields returns the partition-key columns in definition
// order.
func (s Schema) PartitionKeyFields() Fields {
	var out Fields
	for _, f := range s.Fields {
		if f.IsPartitionKey {
			out = append(out, f)
		}
	}
	sort.Sort(out)
	return out
}

// ClusteringFields returns the clustering columns in definition order.
func (s Schema) ClusteringFields() Fields {
	var out Fields
	for _, f := range s.Fields {
		if f.IsClusteringColumn {
			out = append(out, f)
		}
	}
	sort.Sort(out)
	return out
}
