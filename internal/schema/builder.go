package schema

import (
	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/cqlparser"
	"github.com/nethalo/bulkreader/internal/cqltype"
	"github.com/nethalo/bulkreader/internal/ring"
)

// Builder parses a table DDL and a set of UDT DDLs into a built Schema.
// A Builder is stateless beyond its configuration; the mutable state
// it touches lives in the Registry.
type Builder struct {
	Parser   cqlparser.Parser
	Registry *Registry
}

// NewBuilder returns a Builder using the default CQL parser and the
// process-wide registry. Callers that want an isolated registry (e.g.
// tests running builds concurrently with distinct schemas) should set
// Registry to schema.NewRegistry() explicitly.
func NewBuilder() *Builder {
	return &Builder{Parser: cqlparser.Default, Registry: Global}
}

// Build parses the table DDL, rewrites its package references, parses
// and resolves every UDT DDL to a fixpoint, installs the result into
// the registry, and assembles the final field list in column order.
func (b *Builder) Build(tableDDL string, keyspace string, rf ring.ReplicationFactor, partitioner ring.Partitioner, udtDDLs []string) (*Schema, error) {
	if b.Parser == nil {
		b.Parser = cqlparser.Default
	}
	if b.Registry == nil {
		b.Registry = Global
	}

	// Step 1: package rewriting, applied to the DDL before parsing.
	shadedDDL := ConvertToShadedPackages(tableDDL)

	// Step 2: UDT parsing into raw statements.
	rawUDTs := make([]*cqlparser.RawUDT, 0, len(udtDDLs))
	for _, udtDDL := range udtDDLs {
		raw, err := b.Parser.ParseUDT(ConvertToShadedPackages(udtDDL), keyspace)
		if err != nil {
			return nil, &bulkerr.SchemaParseError{Statement: udtDDL, Cause: err}
		}
		rawUDTs = append(rawUDTs, raw)
	}

	// Step 6 (done before step 3/4 since columns may reference UDTs):
	// iterative fixpoint resolution of the UDT work queue.
	if err := b.resolveUDTs(keyspace, rawUDTs); err != nil {
		return nil, err
	}

	// Step 3: table parsing, bound to the keyspace.
	rawTable, err := b.Parser.ParseCreateTable(shadedDDL, keyspace)
	if err != nil {
		return nil, &bulkerr.SchemaParseError{Statement: tableDDL, Cause: err}
	}

	// Step 7: field construction in select (schema) order.
	fields, err := b.buildFields(rawTable)
	if err != nil {
		return nil, err
	}

	// Step 4: type validation, structural recursion over every field.
	for _, f := range fields {
		if err := f.Type.Validate(); err != nil {
			name, _ := cqltype.UnsupportedTypeName(err)
			if name == "" {
				name = f.Type.String()
			}
			return nil, &bulkerr.UnsupportedType{TypeName: name}
		}
	}

	meta := &TableMetadata{Keyspace: rawTable.Keyspace, Table: rawTable.Table, Columns: fields}

	// Step 5: global registration, serialized by the registry's mutex.
	if err := b.Registry.InstallKeyspace(rawTable.Keyspace, rf, meta); err != nil {
		return nil, err
	}

	udts := make([]UDT, 0, len(rawUDTs))
	for _, raw := range rawUDTs {
		if u, ok := b.Registry.LookupUDT(raw.Keyspace, raw.Name); ok {
			udts = append(udts, u)
		}
	}

	return &Schema{
		Keyspace:          rawTable.Keyspace,
		Table:             rawTable.Table,
		CreateStmt:        shadedDDL,
		ReplicationFactor: rf,
		Fields:            fields,
		UDTs:              udts,
	}, nil
}

// resolveUDTs removes a UDT from the work queue iff every UDT it
// transitively references is already resolved; otherwise re-enqueues
// it. A full pass making no progress is a cycle.
func (b *Builder) resolveUDTs(defaultKeyspace string, items []*cqlparser.RawUDT) error {
	pending := append([]*cqlparser.RawUDT(nil), items...)
	resolve := b.udtResolver()

	for len(pending) > 0 {
		var stillPending []*cqlparser.RawUDT
		progressed := false

		for _, raw := range pending {
			fields := make([]cqltype.UDTField, 0, len(raw.Fields))
			ok := true
			for _, rf := range raw.Fields {
				t, err := cqlparser.ParseType(rf.TypeString, raw.Keyspace, resolve)
				if err != nil {
					ok = false
					break
				}
				fields = append(fields, cqltype.UDTField{Name: rf.Name, Type: t})
			}
			if !ok {
				stillPending = append(stillPending, raw)
				continue
			}
			b.Registry.InstallUDT(UDT{Keyspace: raw.Keyspace, Name: raw.Name, Fields: fields})
			progressed = true
		}

		if !progressed && len(stillPending) > 0 {
			names := make([]string, len(stillPending))
			for i, raw := range stillPending {
				names[i] = raw.Keyspace + "." + raw.Name
			}
			return &bulkerr.SchemaCycleError{Keyspace: defaultKeyspace, Unresolved: names}
		}
		pending = stillPending
	}
	return nil
}

// buildFields walks raw columns in declaration order, resolving each
// column's type (UDT by name, or a parsed CQL type string) and
// wrapping single-cell-freezable, not-yet-frozen types in Frozen.
func (b *Builder) buildFields(rawTable *cqlparser.RawTable) (Fields, error) {
	resolve := b.udtResolver()

	fields := make(Fields, 0, len(rawTable.Columns))
	for i, col := range rawTable.Columns {
		t, err := cqlparser.ParseType(col.TypeString, rawTable.Keyspace, resolve)
		if err != nil {
			return nil, &bulkerr.SchemaParseError{Statement: col.TypeString, Cause: err}
		}
		if t.IsSingleCellFreezable() {
			t = cqltype.Frozen(t)
		}

		field := Field{
			IsPartitionKey:     col.PartitionKeyPos >= 0,
			IsClusteringColumn: col.ClusteringPos >= 0,
			IsStatic:           col.Static,
			Name:               col.Name,
			Type:               t,
			Position:           i,
		}
		switch {
		case field.IsPartitionKey:
			field.Position = col.PartitionKeyPos
		case field.IsClusteringColumn:
			field.Position = col.ClusteringPos
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// udtResolver returns the cqlparser.UDTResolver backed by this
// builder's registry, shared by both resolveUDTs and buildFields.
func (b *Builder) udtResolver() cqlparser.UDTResolver {
	return func(ks, name string) (cqltype.Type, bool) {
		u, ok := b.Registry.LookupUDT(ks, name)
		if !ok {
			return cqltype.Type{}, false
		}
		return u.AsType(), true
	}
}
