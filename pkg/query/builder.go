package query

import (
	"fmt"
	"reflect"
	"strings"
)

type condition struct {
	clause string
	args   []any
}

// SortField names a projected field and its direction.
type SortField struct {
	Field      string
	Descending bool
}

// Builder assembles parameterized SELECT statements over a ProjectionMap.
// Placeholders are numbered in the order conditions are added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	sort        []SortField
	defaultSort []SortField
	lock        string
}

// NewBuilder creates a Builder over projection. defaultSort applies when
// OrderByFields yields no usable field.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields reads "name,-created_at" style input. A leading "-"
// sorts descending and blank segments are skipped.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: field, Descending: desc})
	}
	return fields
}

// Build returns the filtered and ordered SELECT.
func (b *Builder) Build() (string, []any) {
	where, args := b.buildWhere(nil)
	return b.selectFrom() + where + b.buildOrderBy() + b.lock, args
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere(nil)
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns the ordered SELECT restricted to limit rows after offset.
func (b *Builder) BuildPage(limit, offset int) (string, []any) {
	where, args := b.buildWhere(nil)
	return fmt.Sprintf("%s%s%s LIMIT %d OFFSET %d",
		b.selectFrom(), where, b.buildOrderBy(), limit, offset), args
}

// BuildSingle selects the row whose idField equals id. Conditions added
// before the call narrow the match, so an owner scope still applies.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	where, args := b.buildWhere(&condition{
		clause: b.projection.Column(idField) + " = $%d",
		args:   []any{id},
	})
	return b.selectFrom() + where + b.lock, args
}

// BuildSingleOrNull selects at most one row matching the current conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.buildWhere(nil)
	return b.selectFrom() + where + " LIMIT 1" + b.lock, args
}

// ForUpdate locks the selected rows of the given aliases until the
// surrounding transaction ends. With no aliases the base table is locked.
func (b *Builder) ForUpdate(aliases ...string) *Builder {
	if len(aliases) == 0 {
		aliases = []string{b.projection.Alias()}
	}
	b.lock = " FOR UPDATE OF " + strings.Join(aliases, ", ")
	return b
}

// OrderByFields replaces the default sort. Fields the projection does not
// map are dropped so caller input never reaches the SQL text.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = b.sort[:0]
	for _, f := range fields {
		if col, ok := b.projection.Lookup(f.Field); ok {
			b.sort = append(b.sort, SortField{Field: col, Descending: f.Descending})
		}
	}
	return b
}

// WhereContains adds a case-insensitive substring match. Nil or empty
// values add nothing.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	return b.where(b.projection.Column(field)+" ILIKE $%d", "%"+*value+"%")
}

// WhereEquals adds an equality condition. Nil values add nothing.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	return b.where(b.projection.Column(field)+" = $%d", value)
}

// WhereSearch matches search against any of fields.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	clauses := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		clauses[i] = b.projection.Column(field) + " ILIKE $%d"
		args[i] = "%" + *search + "%"
	}
	return b.where("("+strings.Join(clauses, " OR ")+")", args...)
}

func (b *Builder) where(clause string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{clause: clause, args: args})
	return b
}

func (b *Builder) selectFrom() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

func (b *Builder) buildOrderBy() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}
	if len(fields) == 0 {
		return ""
	}

	parts := make([]string, len(fields))
	for i, f := range fields {
		dir := "ASC"
		if f.Descending {
			dir = "DESC"
		}
		parts[i] = b.projection.Column(f.Field) + " " + dir
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

// buildWhere joins lead (when set) and the builder's conditions with AND,
// numbering placeholders from $1.
func (b *Builder) buildWhere(lead *condition) (string, []any) {
	conds := b.conditions
	if lead != nil {
		conds = append([]condition{*lead}, conds...)
	}
	if len(conds) == 0 {
		return "", nil
	}

	clauses := make([]string, len(conds))
	var args []any
	for i, c := range conds {
		clause := c.clause
		for _, arg := range c.args {
			args = append(args, arg)
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", len(args)), 1)
		}
		clauses[i] = clause
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
