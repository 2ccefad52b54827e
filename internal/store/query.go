package store

import (
	"fmt"
	"strings"
	"time"
)

// ExpiryWindow is how far into the future expires_at is pushed on every
// insert or update of an expirable resource.
const ExpiryWindow = 30 * 24 * time.Hour

// Scope selects rows by archive state.
type Scope uint8

const (
	// Any ignores archived_at.
	Any Scope = iota
	// Unarchived keeps rows whose archived_at is NULL.
	Unarchived
	// Archived keeps rows whose archived_at is set.
	Archived
)

type queryOptions struct {
	filters []Field
	orderBy string
	limit   int
}

// QueryOption refines a select, join or delete.
type QueryOption func(*queryOptions)

// Where adds an equality filter. Filters are combined with AND in the order
// they are given. A Null value matches rows where the column IS NULL.
func Where(column string, v Value) QueryOption {
	return func(o *queryOptions) {
		o.filters = append(o.filters, Field{Column: column, Value: v})
	}
}

// OrderBy replaces the default created_at ASC ordering.
func OrderBy(order string) QueryOption {
	return func(o *queryOptions) {
		o.orderBy = order
	}
}

// Limit caps the number of rows returned.
func Limit(n int) QueryOption {
	return func(o *queryOptions) {
		o.limit = n
	}
}

func collectOptions(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type selectQuery struct {
	table      string
	join       string
	archivable bool
	scope      Scope
	opts       queryOptions
}

func buildSelect(q selectQuery) (string, []any, error) {
	if !validIdent(q.table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, q.table)
	}

	columns := "*"
	from := q.table
	qualifier := ""
	if q.join != "" {
		if !validIdent(q.join) {
			return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, q.join)
		}
		columns = q.table + ".*"
		qualifier = q.table + "."
		from = fmt.Sprintf("%s JOIN %s ON %s.%s = %s.id", q.table, q.join, q.join, ForeignKey(q.table), q.table)
	}

	conds, args, err := conditions(q.opts.filters, 1)
	if err != nil {
		return "", nil, err
	}

	scopeCond, err := scopeCondition(q.scope, q.archivable, qualifier)
	if err != nil {
		return "", nil, err
	}
	if scopeCond != "" {
		conds = append(conds, scopeCond)
	}

	order := q.opts.orderBy
	if order == "" {
		order = qualifier + "created_at ASC"
	}
	if !validOrder(order) {
		return "", nil, fmt.Errorf("%w: order %q", ErrInvalidIdentifier, order)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", columns, from)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(order)
	if q.opts.limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.opts.limit)
	}

	return b.String(), args, nil
}

func buildInsert(table string, fields []Field) (string, []any, error) {
	if !validIdent(table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	if len(fields) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", table), nil, nil
	}

	cols := make([]string, 0, len(fields))
	vals := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if !validIdent(f.Column) {
			return "", nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, f.Column)
		}
		cols = append(cols, f.Column)
		if f.Value.IsNull() {
			vals = append(vals, "NULL")
			continue
		}
		args = append(args, f.Value)
		vals = append(vals, placeholder(f.Value, len(args)))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(cols, ", "), strings.Join(vals, ", "))
	return query, args, nil
}

// buildUpdate targets the row with id. Guards narrow the WHERE clause so the
// write only lands while they still hold.
func buildUpdate(table, id string, fields, guards []Field) (string, []any, error) {
	if !validIdent(table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		if !validIdent(f.Column) {
			return "", nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, f.Column)
		}
		if f.Value.IsNull() {
			sets = append(sets, f.Column+" = NULL")
			continue
		}
		args = append(args, f.Value)
		sets = append(sets, fmt.Sprintf("%s = %s", f.Column, placeholder(f.Value, len(args))))
	}
	args = append(args, String(id))

	where := []string{fmt.Sprintf("id = $%d", len(args))}
	conds, guardArgs, err := conditions(guards, len(args)+1)
	if err != nil {
		return "", nil, err
	}
	where = append(where, conds...)
	args = append(args, guardArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(sets, ", "), strings.Join(where, " AND "))
	return query, args, nil
}

func buildDelete(table string, archivable bool, filters []Field, now time.Time) (string, []any, error) {
	if !validIdent(table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	if len(filters) == 0 {
		return "", nil, ErrNoFilters
	}

	if !archivable {
		conds, args, err := conditions(filters, 1)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("DELETE FROM %s WHERE %s", table, strings.Join(conds, " AND ")), args, nil
	}

	stamp := Time(now)
	conds, args, err := conditions(filters, 2)
	if err != nil {
		return "", nil, err
	}
	conds = append(conds, "archived_at IS NULL")
	args = append([]any{stamp}, args...)

	query := fmt.Sprintf("UPDATE %s SET archived_at = %s WHERE %s",
		table, placeholder(stamp, 1), strings.Join(conds, " AND "))
	return query, args, nil
}

// buildPurge removes rows archived before the cutoff.
func buildPurge(table string, before time.Time) (string, []any, error) {
	if !validIdent(table) {
		return "", nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, table)
	}
	stamp := Time(before)
	query := fmt.Sprintf("DELETE FROM %s WHERE archived_at IS NOT NULL AND archived_at < %s", table, placeholder(stamp, 1))
	return query, []any{stamp}, nil
}

func conditions(filters []Field, start int) ([]string, []any, error) {
	conds := make([]string, 0, len(filters)+1)
	args := make([]any, 0, len(filters))
	idx := start
	for _, f := range filters {
		if !validIdent(f.Column) {
			return nil, nil, fmt.Errorf("%w: column %q", ErrInvalidIdentifier, f.Column)
		}
		if f.Value.IsNull() {
			conds = append(conds, f.Column+" IS NULL")
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", f.Column, idx))
		args = append(args, f.Value)
		idx++
	}
	return conds, args, nil
}

func scopeCondition(scope Scope, archivable bool, qualifier string) (string, error) {
	switch scope {
	case Unarchived:
		if !archivable {
			return "", nil
		}
		return qualifier + "archived_at IS NULL", nil
	case Archived:
		if !archivable {
			return "", ErrNotArchivable
		}
		return qualifier + "archived_at IS NOT NULL", nil
	default:
		return "", nil
	}
}

func placeholder(v Value, idx int) string {
	if cast := v.Cast(); cast != "" {
		return fmt.Sprintf("CAST($%d AS %s)", idx, cast)
	}
	return fmt.Sprintf("$%d", idx)
}

// withField returns fields with f replacing any existing assignment to the
// same column, or appended when there is none.
func withField(fields []Field, f Field) []Field {
	out := make([]Field, 0, len(fields)+1)
	replaced := false
	for _, existing := range fields {
		if existing.Column == f.Column {
			out = append(out, f)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, f)
	}
	return out
}

func stampInsert(tr Traits, fields []Field, now time.Time, id string) []Field {
	out := make([]Field, 0, len(fields)+4)
	if tr.HasID {
		out = append(out, Set("id", String(id)))
	}
	for _, f := range fields {
		if tr.HasID && f.Column == "id" {
			continue
		}
		out = append(out, f)
	}

	if tr.Creatable {
		out = withField(out, Set("created_at", Time(now)))
	}
	if tr.Updatable {
		out = withField(out, Set("updated_at", Time(now)))
	}
	if tr.Expirable {
		out = withField(out, Set("expires_at", Time(now.Add(ExpiryWindow))))
	}
	return out
}

func stampUpdate(tr Traits, fields []Field, now time.Time) []Field {
	out := fields
	if tr.Updatable {
		out = withField(out, Set("updated_at", Time(now)))
	}
	if tr.Expirable {
		out = withField(out, Set("expires_at", Time(now.Add(ExpiryWindow))))
	}
	return out
}
