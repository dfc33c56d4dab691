package backend

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Op string

const (
	OpEq   Op = "eq"
	OpNeq  Op = "neq"
	OpGte  Op = "gte"
	OpLte  Op = "lte"
	OpIn   Op = "in"
	OpLike Op = "ilike"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, v any) Filter  { return Filter{Column: column, Op: OpEq, Value: v} }
func Neq(column string, v any) Filter { return Filter{Column: column, Op: OpNeq, Value: v} }
func Gte(column string, v any) Filter { return Filter{Column: column, Op: OpGte, Value: v} }
func Lte(column string, v any) Filter { return Filter{Column: column, Op: OpLte, Value: v} }
func In(column string, v any) Filter  { return Filter{Column: column, Op: OpIn, Value: v} }

type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Query descreve um select simples sobre uma tabela. Joins são nomes de
// associações do model (ex.: "Client", "Service").
type Query struct {
	Columns []string
	Filters []Filter
	Order   []Order
	Limit   int
	Joins   []string
}

// Table é o acesso por entidade: select/insert/update/delete.
type Table[T any] interface {
	Select(ctx context.Context, q Query) ([]T, error)
	Get(ctx context.Context, id uuid.UUID, joins ...string) (*T, error)
	Insert(ctx context.Context, row *T) error
	Update(ctx context.Context, id uuid.UUID, row *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

var columnName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ErrInvalidQuery indica coluna ou operador fora do permitido.
var ErrInvalidQuery = errors.New("invalid_query")

// =====================================================
// GORM
// =====================================================

type GormTable[T any] struct {
	db *gorm.DB
}

func NewGormTable[T any](db *gorm.DB) *GormTable[T] {
	return &GormTable[T]{db: db}
}

func (t *GormTable[T]) Select(ctx context.Context, q Query) ([]T, error) {
	tx := t.db.WithContext(ctx).Model(new(T))

	if len(q.Columns) > 0 {
		for _, col := range q.Columns {
			if !columnName.MatchString(col) {
				return nil, errors.Wrapf(ErrInvalidQuery, "column %q", col)
			}
		}
		tx = tx.Select(q.Columns)
	}

	for _, f := range q.Filters {
		cond, err := condition(f)
		if err != nil {
			return nil, err
		}
		tx = tx.Where(cond, f.Value)
	}

	for _, o := range q.Order {
		if !columnName.MatchString(o.Column) {
			return nil, errors.Wrapf(ErrInvalidQuery, "order %q", o.Column)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	for _, j := range q.Joins {
		tx = tx.Preload(j)
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, translate(err, "select")
	}
	return rows, nil
}

func condition(f Filter) (string, error) {
	if !columnName.MatchString(f.Column) {
		return "", errors.Wrapf(ErrInvalidQuery, "filter %q", f.Column)
	}

	switch f.Op {
	case OpEq:
		return fmt.Sprintf("%s = ?", f.Column), nil
	case OpNeq:
		return fmt.Sprintf("%s <> ?", f.Column), nil
	case OpGte:
		return fmt.Sprintf("%s >= ?", f.Column), nil
	case OpLte:
		return fmt.Sprintf("%s <= ?", f.Column), nil
	case OpIn:
		return fmt.Sprintf("%s IN ?", f.Column), nil
	case OpLike:
		return fmt.Sprintf("%s ILIKE ?", f.Column), nil
	}
	return "", errors.Wrapf(ErrInvalidQuery, "operator %q", f.Op)
}

func (t *GormTable[T]) Get(ctx context.Context, id uuid.UUID, joins ...string) (*T, error) {
	tx := t.db.WithContext(ctx)
	for _, j := range joins {
		tx = tx.Preload(j)
	}

	var row T
	if err := tx.First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get")
	}
	return &row, nil
}

func (t *GormTable[T]) Insert(ctx context.Context, row *T) error {
	err := t.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(row).Error
	return translate(err, "insert")
}

// Update grava todas as colunas do row (inclusive valores zero) menos id
// e created_at.
func (t *GormTable[T]) Update(ctx context.Context, id uuid.UUID, row *T) error {
	res := t.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(row)
	if res.Error != nil {
		return translate(res.Error, "update")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "update")
	}
	return nil
}

func (t *GormTable[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := t.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, "delete")
	}
	if res.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "delete")
	}
	return nil
}
