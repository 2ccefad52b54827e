package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Traits declares which bookkeeping columns a resource carries.
type Traits struct {
	// HasID means the table has a server-generated id column.
	HasID bool
	// Archivable means delete sets archived_at instead of removing the row.
	Archivable bool
	// Updatable means updated_at is stamped on insert and every update.
	Updatable bool
	// Creatable means created_at is stamped on insert.
	Creatable bool
	// Expirable means expires_at is pushed ExpiryWindow ahead on insert and update.
	Expirable bool
}

// Table describes how a resource type T is persisted: its table name, its
// traits and the function decoding a row into T.
type Table[T any] struct {
	store  *Store
	name   string
	traits Traits
	decode pgx.RowToFunc[T]
	now    func() time.Time
}

// TableOption customizes a Table.
type TableOption[T any] func(*Table[T])

// WithName overrides the table name derived from T.
func WithName[T any](name string) TableOption[T] {
	return func(t *Table[T]) {
		t.name = name
	}
}

// WithDecoder overrides the default by-name struct decoder.
func WithDecoder[T any](fn pgx.RowToFunc[T]) TableOption[T] {
	return func(t *Table[T]) {
		t.decode = fn
	}
}

// NewTable registers T as a resource. Columns are mapped through db struct
// tags and the table name is derived from the type name.
func NewTable[T any](s *Store, traits Traits, opts ...TableOption[T]) *Table[T] {
	t := &Table[T]{
		store:  s,
		name:   TableName(reflect.TypeFor[T]().Name()),
		traits: traits,
		decode: pgx.RowToStructByName[T],
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// Traits returns the resource traits.
func (t *Table[T]) Traits() Traits { return t.traits }

// FindOne returns the first row matching the filters, or ErrNotFound.
func (t *Table[T]) FindOne(ctx context.Context, scope Scope, opts ...QueryOption) (*T, error) {
	o := collectOptions(opts)
	o.limit = 1

	query, args, err := buildSelect(selectQuery{table: t.name, archivable: t.traits.Archivable, scope: scope, opts: o})
	if err != nil {
		return nil, err
	}

	rows, err := t.store.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, translate("querying "+t.name, err)
	}

	row, err := pgx.CollectOneRow(rows, t.decode)
	if err != nil {
		return nil, translate("decoding "+t.name, err)
	}
	return &row, nil
}

// FindAll returns every row matching the filters. No match yields an empty
// slice, not an error.
func (t *Table[T]) FindAll(ctx context.Context, scope Scope, opts ...QueryOption) ([]T, error) {
	query, args, err := buildSelect(selectQuery{table: t.name, archivable: t.traits.Archivable, scope: scope, opts: collectOptions(opts)})
	if err != nil {
		return nil, err
	}
	return t.collect(ctx, query, args)
}

// JoinAll returns rows of T joined to other through other.<t>_id = t.id.
// Filter columns should be qualified with their table name. The scope applies
// to T.
func (t *Table[T]) JoinAll(ctx context.Context, other interface{ Name() string }, scope Scope, opts ...QueryOption) ([]T, error) {
	query, args, err := buildSelect(selectQuery{
		table:      t.name,
		join:       other.Name(),
		archivable: t.traits.Archivable,
		scope:      scope,
		opts:       collectOptions(opts),
	})
	if err != nil {
		return nil, err
	}
	return t.collect(ctx, query, args)
}

// Insert stamps id and bookkeeping columns per the traits, inserts the row
// and returns it as stored.
func (t *Table[T]) Insert(ctx context.Context, fields ...Field) (*T, error) {
	fields = stampInsert(t.traits, fields, t.now(), uuid.NewString())

	query, args, err := buildInsert(t.name, fields)
	if err != nil {
		return nil, err
	}

	rows, err := t.store.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, translate("inserting into "+t.name, err)
	}

	row, err := pgx.CollectOneRow(rows, t.decode)
	if err != nil {
		return nil, translate("inserting into "+t.name, err)
	}
	return &row, nil
}

// Update applies fields to the row with the given id, stamping updated_at and
// expires_at per the traits, and returns the row re-read after the write.
func (t *Table[T]) Update(ctx context.Context, id string, fields ...Field) (*T, error) {
	return t.UpdateIf(ctx, id, fields)
}

// UpdateIf is Update restricted to a row that also matches guards. It answers
// ErrNotFound when no row matched, including when a guard no longer holds.
func (t *Table[T]) UpdateIf(ctx context.Context, id string, fields []Field, guards ...QueryOption) (*T, error) {
	if !t.traits.HasID {
		return nil, fmt.Errorf("updating %s: resource has no id column", t.name)
	}

	fields = stampUpdate(t.traits, fields, t.now())
	if len(fields) == 0 {
		return t.FindOne(ctx, Any, append([]QueryOption{Where("id", String(id))}, guards...)...)
	}

	query, args, err := buildUpdate(t.name, id, fields, collectOptions(guards).filters)
	if err != nil {
		return nil, err
	}

	tag, err := t.store.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return nil, translate("updating "+t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return t.FindOne(ctx, Any, Where("id", String(id)))
}

// Delete archives the matching rows when the resource is archivable and
// removes them otherwise. It returns the number of rows affected.
func (t *Table[T]) Delete(ctx context.Context, opts ...QueryOption) (int64, error) {
	query, args, err := buildDelete(t.name, t.traits.Archivable, collectOptions(opts).filters, t.now())
	if err != nil {
		return 0, err
	}

	tag, err := t.store.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, translate("deleting from "+t.name, err)
	}
	return tag.RowsAffected(), nil
}

// Purge permanently removes rows archived before the cutoff. It fails with
// ErrNotArchivable on resources without archived_at.
func (t *Table[T]) Purge(ctx context.Context, before time.Time) (int64, error) {
	if !t.traits.Archivable {
		return 0, ErrNotArchivable
	}
	query, args, err := buildPurge(t.name, before)
	if err != nil {
		return 0, err
	}

	tag, err := t.store.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return 0, translate("purging "+t.name, err)
	}
	return tag.RowsAffected(), nil
}

func (t *Table[T]) collect(ctx context.Context, query string, args []any) ([]T, error) {
	rows, err := t.store.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, translate("querying "+t.name, err)
	}

	items, err := pgx.CollectRows(rows, t.decode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []T{}, nil
		}
		return nil, translate("decoding "+t.name, err)
	}

	if items == nil {
		items = []T{}
	}
	return items, nil
}
