// Package memory implementa a superfície do backend em memória. É usado
// pelos testes e pelo modo de desenvolvimento sem banco.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
)

type row = map[string]any

// JoinFunc resolve uma associação para a linha informada.
type JoinFunc func(ctx context.Context, r row) (any, error)

type join struct {
	key string
	fn  JoinFunc
}

// Table guarda as linhas como mapas JSON, usando as tags json do model
// como nomes de coluna.
type Table[T any] struct {
	mu    sync.Mutex
	rows  []row
	joins map[string]join
	calls map[string]int
	err   error
	now   func() time.Time

	// BeforeOp roda antes de cada operação, fora do lock.
	BeforeOp func(ctx context.Context, op string) error
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		joins: make(map[string]join),
		calls: make(map[string]int),
		now:   time.Now,
	}
}

// Join registra uma associação: name é o nome usado em Query.Joins e key
// a chave json onde o resultado aparece.
func (t *Table[T]) Join(name, key string, fn JoinFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.joins[name] = join{key: key, fn: fn}
}

// SetError faz todas as operações seguintes falharem com err (nil limpa).
func (t *Table[T]) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

func (t *Table[T]) Calls(op string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls[op]
}

func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table[T]) enter(ctx context.Context, op string) error {
	t.mu.Lock()
	t.calls[op]++
	hook := t.BeforeOp
	t.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, op); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// =====================================================
// READ
// =====================================================

func (t *Table[T]) Select(ctx context.Context, q backend.Query) ([]T, error) {
	if err := t.enter(ctx, "select"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	var matched []row
	for _, r := range t.rows {
		ok, err := matches(r, q.Filters)
		if err != nil {
			t.mu.Unlock()
			return nil, err
		}
		if ok {
			matched = append(matched, clone(r))
		}
	}
	joins := t.joinsFor(q.Joins)
	t.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range q.Order {
			c := compare(matched[i][o.Column], matched[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, r := range matched {
		if err := resolve(ctx, r, joins); err != nil {
			return nil, err
		}
		if len(q.Columns) > 0 {
			r = project(r, q.Columns, joins)
		}

		var v T
		if err := decode(r, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (t *Table[T]) Get(ctx context.Context, id uuid.UUID, names ...string) (*T, error) {
	if err := t.enter(ctx, "get"); err != nil {
		return nil, err
	}

	t.mu.Lock()
	idx := t.index(id)
	if idx < 0 {
		t.mu.Unlock()
		return nil, errors.Wrap(backend.ErrNotFound, "get")
	}
	r := clone(t.rows[idx])
	joins := t.joinsFor(names)
	t.mu.Unlock()

	if err := resolve(ctx, r, joins); err != nil {
		return nil, err
	}

	var v T
	if err := decode(r, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Rows devolve todas as linhas sem passar pelos hooks.
func (t *Table[T]) Rows() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		var v T
		if err := decode(r, &v); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// =====================================================
// WRITE
// =====================================================

func (t *Table[T]) Insert(ctx context.Context, v *T) error {
	if err := t.enter(ctx, "insert"); err != nil {
		return err
	}

	r, err := encode(v)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stripJoins(r)

	id, _ := uuid.Parse(fmt.Sprint(r["id"]))
	if id == uuid.Nil {
		id = uuid.New()
		r["id"] = id.String()
	}
	if t.index(id) >= 0 {
		return errors.Wrap(&backend.StoreError{
			Kind:    backend.ErrConstraint,
			Code:    "23505",
			Message: "duplicate key value violates unique constraint",
		}, "insert")
	}

	now := t.now().UTC().Format(time.RFC3339Nano)
	for _, key := range []string{"created_at", "updated_at", "enviado_em"} {
		if isZeroTime(r, key) {
			r[key] = now
		}
	}

	t.rows = append(t.rows, r)
	return decode(clone(r), v)
}

func (t *Table[T]) Update(ctx context.Context, id uuid.UUID, v *T) error {
	if err := t.enter(ctx, "update"); err != nil {
		return err
	}

	r, err := encode(v)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.index(id)
	if idx < 0 {
		return errors.Wrap(backend.ErrNotFound, "update")
	}

	t.stripJoins(r)
	old := t.rows[idx]
	r["id"] = old["id"]
	if _, ok := old["created_at"]; ok {
		r["created_at"] = old["created_at"]
	}
	if _, ok := r["updated_at"]; ok {
		r["updated_at"] = t.now().UTC().Format(time.RFC3339Nano)
	}

	t.rows[idx] = r
	return nil
}

func (t *Table[T]) Delete(ctx context.Context, id uuid.UUID) error {
	if err := t.enter(ctx, "delete"); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.index(id)
	if idx < 0 {
		return errors.Wrap(backend.ErrNotFound, "delete")
	}
	t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
	return nil
}

// =====================================================
// HELPERS
// =====================================================

func (t *Table[T]) index(id uuid.UUID) int {
	s := id.String()
	for i, r := range t.rows {
		if r["id"] == s {
			return i
		}
	}
	return -1
}

func (t *Table[T]) joinsFor(names []string) []join {
	out := make([]join, 0, len(names))
	for _, n := range names {
		if j, ok := t.joins[n]; ok {
			out = append(out, j)
		}
	}
	return out
}

func (t *Table[T]) stripJoins(r row) {
	for _, j := range t.joins {
		delete(r, j.key)
	}
}

func resolve(ctx context.Context, r row, joins []join) error {
	for _, j := range joins {
		v, err := j.fn(ctx, r)
		if err != nil {
			return err
		}
		r[j.key] = v
	}
	return nil
}

func project(r row, columns []string, joins []join) row {
	out := row{"id": r["id"]}
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	for _, j := range joins {
		out[j.key] = r[j.key]
	}
	return out
}

func encode(v any) (row, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode row")
	}
	var r row
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, errors.Wrap(err, "encode row")
	}
	return r, nil
}

func decode(r row, v any) error {
	b, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "decode row")
	}
	return errors.Wrap(json.Unmarshal(b, v), "decode row")
}

func clone(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func isZeroTime(r row, key string) bool {
	v, ok := r[key]
	if !ok {
		return false
	}
	s, _ := v.(string)
	return s == "" || strings.HasPrefix(s, "0001-01-01")
}

// normalize converte um valor Go para a mesma forma que ele tem na linha.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(b, &out)
	return out, err
}

func matches(r row, filters []backend.Filter) (bool, error) {
	for _, f := range filters {
		want, err := normalize(f.Value)
		if err != nil {
			return false, errors.Wrap(backend.ErrInvalidQuery, err.Error())
		}
		got := r[f.Column]

		switch f.Op {
		case backend.OpEq:
			if compare(got, want) != 0 {
				return false, nil
			}
		case backend.OpNeq:
			if compare(got, want) == 0 {
				return false, nil
			}
		case backend.OpGte:
			if got == nil || compare(got, want) < 0 {
				return false, nil
			}
		case backend.OpLte:
			if got == nil || compare(got, want) > 0 {
				return false, nil
			}
		case backend.OpIn:
			list, _ := want.([]any)
			found := false
			for _, item := range list {
				if compare(got, item) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		case backend.OpLike:
			pattern := strings.ToLower(strings.Trim(fmt.Sprint(want), "%"))
			if !strings.Contains(strings.ToLower(fmt.Sprint(got)), pattern) {
				return false, nil
			}
		default:
			return false, errors.Wrapf(backend.ErrInvalidQuery, "operator %q", f.Op)
		}
	}
	return true, nil
}

// compare ordena nil antes de tudo, números numericamente e o resto como texto.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}

	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
