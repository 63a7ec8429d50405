package schema

import (
	"sort"
	"sync"

	"github.com/nethalo/bulkreader/internal/bulkerr"
	"github.com/nethalo/bulkreader/internal/ring"
)

// Registry is the schema builder's process-wide mutable state.
// Installation and lookups are serialized by mu. A Registry may also
// be constructed per job via NewRegistry when process-wide sharing is
// not wanted; the default remains a shared global.
type Registry struct {
	mu        sync.Mutex
	keyspaces map[string]*keyspaceEntry
}

type keyspaceEntry struct {
	rf     ring.ReplicationFactor
	tables map[string]*TableMetadata
	udts   map[udtKey]UDT
}

// NewRegistry builds an empty, independent registry.
func NewRegistry() *Registry {
	return &Registry{keyspaces: make(map[string]*keyspaceEntry)}
}

// Global is the default process-wide registry schema builds install
// into when no explicit Registry is supplied.
var Global = NewRegistry()

// InstallKeyspace atomically installs a new keyspace with the given
// replication factor and table if the keyspace is not yet registered;
// if it is registered but the table is missing, the table alone is
// installed into the existing keyspace. Calling this twice with the
// same (keyspace, table) is a no-op on the second call.
func (r *Registry) InstallKeyspace(keyspace string, rf ring.ReplicationFactor, table *TableMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ks, ok := r.keyspaces[keyspace]
	if !ok {
		ks = &keyspaceEntry{rf: rf, tables: make(map[string]*TableMetadata), udts: make(map[udtKey]UDT)}
		r.keyspaces[keyspace] = ks
	}
	if _, ok := ks.tables[table.Table]; !ok {
		ks.tables[table.Table] = table
	}

	// Post-condition check: the install above must always succeed.
	if _, ok := r.keyspaces[keyspace]; !ok {
		return &bulkerr.SchemaRegistrationError{Keyspace: keyspace, Table: table.Table, Reason: "keyspace missing after install"}
	}
	if _, ok := r.keyspaces[keyspace].tables[table.Table]; !ok {
		return &bulkerr.SchemaRegistrationError{Keyspace: keyspace, Table: table.Table, Reason: "table missing after install"}
	}
	return nil
}

// InstallUDT registers a resolved UDT in its keyspace, creating the
// keyspace entry if necessary. Installing the same UDT twice is a
// no-op.
func (r *Registry) InstallUDT(u UDT) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ks, ok := r.keyspaces[u.Keyspace]
	if !ok {
		ks = &keyspaceEntry{tables: make(map[string]*TableMetadata), udts: make(map[udtKey]UDT)}
		r.keyspaces[u.Keyspace] = ks
	}
	if _, exists := ks.udts[u.Key()]; !exists {
		ks.udts[u.Key()] = u
	}
}

// LookupUDT returns an already-installed UDT by keyspace and name.
func (r *Registry) LookupUDT(keyspace, name string) (UDT, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ks, ok := r.keyspaces[keyspace]
	if !ok {
		return UDT{}, false
	}
	u, ok := ks.udts[udtKey{keyspace, name}]
	return u, ok
}

// LookupTable returns an already-installed table's metadata.
func (r *Registry) LookupTable(keyspace, table string) (*TableMetadata, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ks, ok := r.keyspaces[keyspace]
	if !ok {
		return nil, false
	}
	t, ok := ks.tables[table]
	return t, ok
}

// installedKeyspaces returns keyspace names in sorted order, used only
// by tests to assert registry contents deterministically.
func (r *Registry) installedKeyspaces() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.keyspaces))
	for k := range r.keyspaces {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
