// Package cqlparser parses CREATE TABLE and CREATE TYPE fragments into
// raw structures the schema builder finalizes against a keyspace and
// type registry.
//
// CQL's generic collection, UDT, and frozen<> syntax has no ready-made
// parser to reuse, so this is a small hand-written lexer/recursive-
// descent parser rather than an AST library: a regex pre-pass to
// isolate clauses, then a typed-result descent over each one.
package cqlparser

import (
	"fmt"
	"regexp"
	"strings"
)

// RawColumn is one column definition extracted from a CREATE TABLE
// statement, before type resolution.
type RawColumn struct {
	Name            string
	TypeString      string
	Static          bool
	PartitionKeyPos int // -1 if not a partition key column
	ClusteringPos   int // -1 if not a clustering column
}

// RawTable is a parsed (but not yet type-resolved) CREATE TABLE.
type RawTable struct {
	Keyspace string
	Table    string
	Columns  []RawColumn
}

// RawUDTField is one (name, type-string) member of a CREATE TYPE.
type RawUDTField struct {
	Name       string
	TypeString string
}

// RawUDT is a parsed (but not yet type-resolved) CREATE TYPE.
type RawUDT struct {
	Keyspace string
	Name     string
	Fields   []RawUDTField
}

// Parser parses a CREATE TABLE fragment to raw table metadata, and a
// UDT fragment to a raw type statement. Both return structured errors
// on malformed input.
type Parser interface {
	ParseCreateTable(ddl string, defaultKeyspace string) (*RawTable, error)
	ParseUDT(ddl string, defaultKeyspace string) (*RawUDT, error)
}

// Default is the package-level default Parser, stateless and safe for
// concurrent use by multiple schema builds.
var Default Parser = defaultParser{}

type defaultParser struct{}

var (
	reCreateTable   = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w."]+)\s*\((.*?)\)\s*(?:WITH\s+(.*))?;?\s*$`)
	reCreateType    = regexp.MustCompile(`(?is)^\s*CREATE\s+TYPE\s+(?:IF\s+NOT\s+EXISTS\s+)?([\w."]+)\s*\((.*)\)\s*;?\s*$`)
	rePrimaryKeyHdr = regexp.MustCompile(`(?is)^PRIMARY\s+KEY\s*\((.*)\)$`)
)

func splitQualified(name string, defaultKeyspace string) (keyspace, local string) {
	name = strings.Trim(name, `"`)
	if before, after, ok := strings.Cut(name, "."); ok {
		return strings.Trim(before, `"`), strings.Trim(after, `"`)
	}
	return defaultKeyspace, name
}

// ParseCreateTable implements Parser.
func (defaultParser) ParseCreateTable(ddl string, defaultKeyspace string) (*RawTable, error) {
	ddl = strings.TrimSpace(ddl)
	m := reCreateTable.FindStringSubmatch(ddl)
	if m == nil {
		return nil, fmt.Errorf("does not match CREATE TABLE grammar")
	}

	ks, table := splitQualified(m[1], defaultKeyspace)
	body := m[2]

	defs, pkClause, err := splitTableBody(body)
	if err != nil {
		return nil, fmt.Errorf("parsing column definitions: %w", err)
	}

	// Inline shorthand: `colname type PRIMARY KEY` with no standalone
	// PRIMARY KEY(...) clause at all.
	var inlinePK string
	if pkClause == "" {
		for i, def := range defs {
			if stripped, ok := stripInlinePrimaryKey(def); ok {
				defs[i] = stripped
				name, _, _, err := parseColumnDef(stripped)
				if err != nil {
					return nil, err
				}
				inlinePK = name
				break
			}
		}
	}

	partitionCols, clusteringCols, err := parsePrimaryKey(pkClause, defs)
	if err != nil {
		return nil, err
	}
	if inlinePK != "" {
		partitionCols[inlinePK] = 0
	}

	columns := make([]RawColumn, 0, len(defs))
	for _, def := range defs {
		name, typeStr, static, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		col := RawColumn{Name: name, TypeString: typeStr, Static: static, PartitionKeyPos: -1, ClusteringPos: -1}
		if pos, ok := partitionCols[name]; ok {
			col.PartitionKeyPos = pos
		}
		if pos, ok := clusteringCols[name]; ok {
			col.ClusteringPos = pos
		}
		columns = append(columns, col)
	}

	if len(partitionCols) == 0 {
		return nil, fmt.Errorf("CREATE TABLE %s.%s has no PRIMARY KEY clause", ks, table)
	}

	return &RawTable{Keyspace: ks, Table: table, Columns: columns}, nil
}

var reInlinePrimaryKey = regexp.MustCompile(`(?i)^(.*)\bPRIMARY\s+KEY\s*$`)

// stripInlinePrimaryKey recognizes the `colname type PRIMARY KEY`
// shorthand and returns the definition with the trailing marker
// removed, since CQL allows declaring a single-column partition key
// inline rather than via a standalone PRIMARY KEY(...) clause.
func stripInlinePrimaryKey(def string) (string, bool) {
	m := reInlinePrimaryKey.FindStringSubmatch(strings.TrimSpace(def))
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ParseUDT implements Parser.
func (defaultParser) ParseUDT(ddl string, defaultKeyspace string) (*RawUDT, error) {
	ddl = strings.TrimSpace(ddl)
	m := reCreateType.FindStringSubmatch(ddl)
	if m == nil {
		return nil, fmt.Errorf("does not match CREATE TYPE grammar")
	}

	ks, name := splitQualified(m[1], defaultKeyspace)
	parts, err := splitTopLevel(m[2])
	if err != nil {
		return nil, fmt.Errorf("parsing field definitions: %w", err)
	}

	fields := make([]RawUDTField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		fname, ftype, err := splitNameAndType(part)
		if err != nil {
			return nil, err
		}
		fields = append(fields, RawUDTField{Name: fname, TypeString: ftype})
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("CREATE TYPE %s.%s has no fields", ks, name)
	}

	return &RawUDT{Keyspace: ks, Name: name, Fields: fields}, nil
}

// splitTableBody separates column definitions from a standalone
// top-level PRIMARY KEY(...) clause. The inline "col type PRIMARY KEY"
// form is left in its column definition here; ParseCreateTable
// handles it when no standalone clause is present.
func splitTableBody(body string) (defs []string, pkClause string, err error) {
	parts, err := splitTopLevel(body)
	if err != nil {
		return nil, "", err
	}

	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if strings.HasPrefix(strings.ToUpper(trimmed), "PRIMARY KEY") {
			pkClause = trimmed
			continue
		}
		if trimmed != "" {
			defs = append(defs, trimmed)
		}
	}
	return defs, pkClause, nil
}

// splitTopLevel splits s on commas that are not nested inside <>, (),
// or quotes, so a field list like "a map<int, text>, b int" splits
// into two fields instead of three.
func splitTopLevel(s string) ([]string, error) {
	var parts []string
	var depthParen, depthAngle int
	var inQuote bool
	start := 0

	for i, r := range s {
		switch r {
		case '\'':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				depthParen++
			}
		case ')':
			if !inQuote {
				depthParen--
				if depthParen < 0 {
					return nil, fmt.Errorf("unbalanced parentheses at offset %d", i)
				}
			}
		case '<':
			if !inQuote {
				depthAngle++
			}
		case '>':
			if !inQuote {
				depthAngle--
				if depthAngle < 0 {
					return nil, fmt.Errorf("unbalanced angle brackets at offset %d", i)
				}
			}
		case ',':
			if !inQuote && depthParen == 0 && depthAngle == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depthParen != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	if depthAngle != 0 {
		return nil, fmt.Errorf("unbalanced angle brackets")
	}
	parts = append(parts, s[start:])
	return parts, nil
}

var reStaticSuffix = regexp.MustCompile(`(?i)\bSTATIC\b`)

// parseColumnDef splits "name type [STATIC]" into its parts. The type
// string may itself contain spaces (e.g. "frozen<map<text, int>>"), so
// only the first token is taken as the name.
func parseColumnDef(def string) (name, typeStr string, static bool, err error) {
	def = strings.TrimSpace(def)
	if reStaticSuffix.MatchString(def) {
		static = true
		def = strings.TrimSpace(reStaticSuffix.ReplaceAllString(def, ""))
	}

	name, typeStr, err = splitNameAndType(def)
	return name, typeStr, static, err
}

func splitNameAndType(def string) (name, typeStr string, err error) {
	def = strings.TrimSpace(def)
	idx := strings.IndexAny(def, " \t")
	if idx < 0 {
		return "", "", fmt.Errorf("malformed column/field definition %q", def)
	}
	name = strings.Trim(def[:idx], `"`)
	typeStr = strings.TrimSpace(def[idx+1:])
	if name == "" || typeStr == "" {
		return "", "", fmt.Errorf("malformed column/field definition %q", def)
	}
	return name, typeStr, nil
}

// parsePrimaryKey parses `PRIMARY KEY ((pk1, pk2), ck1, ck2)` or the
// single-partition-key shorthand `PRIMARY KEY (pk1, ck1)`, returning
// column name -> 0-based position maps for partition and clustering
// columns.
func parsePrimaryKey(clause string, defs []string) (partitionPos, clusteringPos map[string]int, err error) {
	partitionPos = map[string]int{}
	clusteringPos = map[string]int{}
	if clause == "" {
		return partitionPos, clusteringPos, nil
	}

	m := rePrimaryKeyHdr.FindStringSubmatch(strings.TrimSpace(clause))
	if m == nil {
		return nil, nil, fmt.Errorf("malformed PRIMARY KEY clause %q", clause)
	}

	elems, splitErr := splitTopLevel(m[1])
	if splitErr != nil {
		return nil, nil, splitErr
	}
	if len(elems) == 0 {
		return nil, nil, fmt.Errorf("empty PRIMARY KEY clause")
	}

	var partitionCols, clusteringCols []string
	first := strings.TrimSpace(elems[0])
	if strings.HasPrefix(first, "(") && strings.HasSuffix(first, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(first, "("), ")")
		parts, innerErr := splitTopLevel(inner)
		if innerErr != nil {
			return nil, nil, innerErr
		}
		for _, p := range parts {
			partitionCols = append(partitionCols, strings.Trim(strings.TrimSpace(p), `"`))
		}
		for _, p := range elems[1:] {
			clusteringCols = append(clusteringCols, strings.Trim(strings.TrimSpace(p), `"`))
		}
	} else {
		// Shorthand: the first top-level name is the sole partition
		// key, everything after is a clustering column.
		partitionCols = []string{strings.Trim(first, `"`)}
		for _, p := range elems[1:] {
			clusteringCols = append(clusteringCols, strings.Trim(strings.TrimSpace(p), `"`))
		}
	}

	for i, c := range partitionCols {
		partitionPos[c] = i
	}
	for i, c := range clusteringCols {
		clusteringPos[c] = i
	}
	return partitionPos, clusteringPos, nil
}
