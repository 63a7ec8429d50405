package cqlparser

import (
	"fmt"
	"strings"

	"github.com/nethalo/bulkreader/internal/cqltype"
)

// UDTResolver looks up an already-resolved UDT by (keyspace, name),
// the callback the schema builder's fixpoint resolver supplies while
// walking the work queue.
type UDTResolver func(keyspace, name string) (cqltype.Type, bool)

var nativeKeywords = map[string]cqltype.NativeKind{
	"ascii": cqltype.Ascii, "bigint": cqltype.BigInt, "blob": cqltype.Blob,
	"boolean": cqltype.Boolean, "date": cqltype.Date, "decimal": cqltype.Decimal,
	"double": cqltype.Double, "duration": cqltype.Duration, "empty": cqltype.Empty,
	"float": cqltype.Float, "inet": cqltype.Inet, "int": cqltype.Int,
	"smallint": cqltype.SmallInt, "text": cqltype.Text, "time": cqltype.Time,
	"timestamp": cqltype.Timestamp, "timeuuid": cqltype.TimeUUID,
	"tinyint": cqltype.TinyInt, "uuid": cqltype.UUID, "varchar": cqltype.VarChar,
	"varint": cqltype.VarInt, "counter": cqltype.Counter, "custom": cqltype.Custom,
}

// ParseType recursively parses a CQL type string (e.g.
// "map<text, frozen<list<int>>>") into a cqltype.Type. UDT references
// are resolved via resolve; an unresolved UDT name is reported as a
// parse error (the schema builder's fixpoint loop uses that error to
// put a UDT back on its work queue until its dependencies resolve).
func ParseType(s string, defaultKeyspace string, resolve UDTResolver) (cqltype.Type, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "frozen<") && strings.HasSuffix(s, ">"):
		inner := s[len("frozen<") : len(s)-1]
		innerType, err := ParseType(inner, defaultKeyspace, resolve)
		if err != nil {
			return cqltype.Type{}, err
		}
		return cqltype.Frozen(innerType), nil

	case strings.HasPrefix(lower, "list<") && strings.HasSuffix(s, ">"):
		inner := s[len("list<") : len(s)-1]
		innerType, err := ParseType(inner, defaultKeyspace, resolve)
		if err != nil {
			return cqltype.Type{}, err
		}
		return cqltype.List(innerType), nil

	case strings.HasPrefix(lower, "set<") && strings.HasSuffix(s, ">"):
		inner := s[len("set<") : len(s)-1]
		innerType, err := ParseType(inner, defaultKeyspace, resolve)
		if err != nil {
			return cqltype.Type{}, err
		}
		return cqltype.Set(innerType), nil

	case strings.HasPrefix(lower, "map<") && strings.HasSuffix(s, ">"):
		inner := s[len("map<") : len(s)-1]
		parts, err := splitTopLevel(inner)
		if err != nil || len(parts) != 2 {
			return cqltype.Type{}, fmt.Errorf("malformed map type %q", s)
		}
		keyType, err := ParseType(parts[0], defaultKeyspace, resolve)
		if err != nil {
			return cqltype.Type{}, err
		}
		valType, err := ParseType(parts[1], defaultKeyspace, resolve)
		if err != nil {
			return cqltype.Type{}, err
		}
		return cqltype.Map(keyType, valType), nil

	case strings.HasPrefix(lower, "tuple<") && strings.HasSuffix(s, ">"):
		inner := s[len("tuple<") : len(s)-1]
		parts, err := splitTopLevel(inner)
		if err != nil {
			return cqltype.Type{}, err
		}
		fields := make([]cqltype.Type, 0, len(parts))
		for _, p := range parts {
			ft, err := ParseType(p, defaultKeyspace, resolve)
			if err != nil {
				return cqltype.Type{}, err
			}
			fields = append(fields, ft)
		}
		return cqltype.Tuple(fields...), nil

	default:
		if native, ok := nativeKeywords[lower]; ok {
			return cqltype.Native(native), nil
		}
		// Not a recognized keyword: treat as a UDT reference.
		ks, name := splitQualified(s, defaultKeyspace)
		if resolved, ok := resolve(ks, name); ok {
			return resolved, nil
		}
		return cqltype.Type{}, fmt.Errorf("unresolved type reference %q", s)
	}
}
