// Package cqltype implements the recursively-defined CqlType variant
// and its structural validation, independent of how a type was parsed
// from DDL.
package cqltype

import (
	"fmt"
	"strings"
)

// Kind discriminates the CqlType variant.
type Kind int

const (
	KindNative Kind = iota
	KindList
	KindSet
	KindMap
	KindTuple
	KindUDT
	KindFrozen
)

// NativeKind enumerates the fixed set of native CQL types.
type NativeKind string

const (
	Ascii     NativeKind = "ascii"
	BigInt    NativeKind = "bigint"
	Blob      NativeKind = "blob"
	Boolean   NativeKind = "boolean"
	Date      NativeKind = "date"
	Decimal   NativeKind = "decimal"
	Double    NativeKind = "double"
	Duration  NativeKind = "duration"
	Empty     NativeKind = "empty"
	Float     NativeKind = "float"
	Inet      NativeKind = "inet"
	Int       NativeKind = "int"
	SmallInt  NativeKind = "smallint"
	Text      NativeKind = "text"
	Time      NativeKind = "time"
	Timestamp NativeKind = "timestamp"
	TimeUUID  NativeKind = "timeuuid"
	TinyInt   NativeKind = "tinyint"
	UUID      NativeKind = "uuid"
	VarChar   NativeKind = "varchar"
	VarInt    NativeKind = "varint"

	// Counter and Custom are recognized natives but unsupported: they
	// exist here so error messages can name the type, rather than
	// falling through "unknown top-level type".
	Counter NativeKind = "counter"
	Custom  NativeKind = "custom"
)

var supportedNatives = map[NativeKind]bool{
	Ascii: true, BigInt: true, Blob: true, Boolean: true, Date: true,
	Decimal: true, Double: true, Duration: true, Empty: true, Float: true,
	Inet: true, Int: true, SmallInt: true, Text: true, Time: true,
	Timestamp: true, TimeUUID: true, TinyInt: true, UUID: true,
	VarChar: true, VarInt: true,
}

// IsSupported reports whether a native kind is in the accepted set.
func (n NativeKind) IsSupported() bool {
	return supportedNatives[n]
}

// UDTField is one (name, type) member of a user-defined type, in
// declared order.
type UDTField struct {
	Name string
	Type Type
}

// Type is the tagged CQL type variant. Exactly one of the
// kind-specific fields is meaningful for a given Kind; Type is
// intentionally not an interface hierarchy so that validation can be
// written as plain structural recursion.
type Type struct {
	Kind Kind

	Native NativeKind // KindNative

	Elem *Type // KindList, KindSet, KindFrozen (the wrapped type)

	MapKey   *Type // KindMap
	MapValue *Type // KindMap

	TupleFields []Type // KindTuple

	UDTKeyspace string     // KindUDT
	UDTName     string     // KindUDT
	UDTFields   []UDTField // KindUDT
}

func Native(kind NativeKind) Type       { return Type{Kind: KindNative, Native: kind} }
func List(elem Type) Type               { return Type{Kind: KindList, Elem: &elem} }
func Set(elem Type) Type                { return Type{Kind: KindSet, Elem: &elem} }
func Map(key, value Type) Type          { return Type{Kind: KindMap, MapKey: &key, MapValue: &value} }
func Tuple(fields ...Type) Type         { return Type{Kind: KindTuple, TupleFields: fields} }
func Frozen(inner Type) Type            { return Type{Kind: KindFrozen, Elem: &inner} }
func UDT(keyspace, name string, fields []UDTField) Type {
	return Type{Kind: KindUDT, UDTKeyspace: keyspace, UDTName: name, UDTFields: fields}
}

// IsFrozen reports whether t is already wrapped in Frozen.
func (t Type) IsFrozen() bool { return t.Kind == KindFrozen }

// IsMultiCell reports whether a type is encoded as multiple cells
// when unfrozen: collections and non-frozen UDTs are multi-cell;
// everything else (natives, tuples, anything already frozen) is
// single-cell. Of the single-cell types, only those not already
// frozen are freezable (see IsSingleCellFreezable).
func (t Type) IsMultiCell() bool {
	switch t.Kind {
	case KindList, KindSet, KindMap, KindUDT:
		return true
	default:
		return false
	}
}

// IsSingleCellFreezable reports whether t may be wrapped in Frozen(t)
// (schema builder step 7).
func (t Type) IsSingleCellFreezable() bool {
	return !t.IsMultiCell() && !t.IsFrozen()
}

// String renders t as CQL type syntax, used for diagnostics and for
// round-tripping into CREATE TABLE statements.
func (t Type) String() string {
	switch t.Kind {
	case KindNative:
		return string(t.Native)
	case KindList:
		return fmt.Sprintf("list<%s>", t.Elem)
	case KindSet:
		return fmt.Sprintf("set<%s>", t.Elem)
	case KindMap:
		return fmt.Sprintf("map<%s, %s>", t.MapKey, t.MapValue)
	case KindTuple:
		parts := make([]string, len(t.TupleFields))
		for i, f := range t.TupleFields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("tuple<%s>", strings.Join(parts, ", "))
	case KindUDT:
		if t.UDTKeyspace != "" {
			return fmt.Sprintf("%s.%s", t.UDTKeyspace, t.UDTName)
		}
		return t.UDTName
	case KindFrozen:
		return fmt.Sprintf("frozen<%s>", t.Elem)
	default:
		return "unknown"
	}
}

// Validate recurses structurally: natives must be supported,
// collections/tuples/UDTs/frozen recurse into their members, and any
// other top-level kind is unsupported.
func (t Type) Validate() error {
	switch t.Kind {
	case KindNative:
		if !t.Native.IsSupported() {
			return &unsupportedTypeError{name: string(t.Native)}
		}
		return nil
	case KindList, KindSet:
		return t.Elem.Validate()
	case KindMap:
		if err := t.MapKey.Validate(); err != nil {
			return err
		}
		return t.MapValue.Validate()
	case KindTuple:
		for _, f := range t.TupleFields {
			if err := f.Validate(); err != nil {
				return err
			}
		}
		return nil
	case KindUDT:
		for _, f := range t.UDTFields {
			if err := f.Type.Validate(); err != nil {
				return err
			}
		}
		return nil
	case KindFrozen:
		return t.Elem.Validate()
	default:
		return &unsupportedTypeError{name: "<unknown>"}
	}
}

// unsupportedTypeError is a package-local marker; the schema builder
// wraps it into bulkerr.UnsupportedType so callers outside this
// package never need to know about cqltype's internals.
type unsupportedTypeError struct{ name string }

func (e *unsupportedTypeError) Error() string { return fmt.Sprintf("unsupported CQL type %q", e.name) }

// UnsupportedTypeName extracts the offending type name from an error
// produced by Validate, or "" if err did not come from Validate.
func UnsupportedTypeName(err error) (string, bool) {
	ute, ok := err.(*unsupportedTypeError)
	if !ok {
		return "", false
	}
	return ute.name, true
}
