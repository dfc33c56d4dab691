// Package form implementa o formulário de criação/edição de entidades.
package form

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

type Entity interface {
	EntityID() uuid.UUID
}

// Saver é o lado de escrita de backend.Table.
type Saver[T any] interface {
	Insert(ctx context.Context, row *T) error
	Update(ctx context.Context, id uuid.UUID, row *T) error
}

var (
	ErrClosed = stderrors.New("form_closed")
	ErrBusy   = stderrors.New("form_submitting")
)

type Options[T any] struct {
	Defaults func() T
	// Check roda depois das tags de validação.
	Check func(*T) error
	// Prepare ajusta o rascunho logo antes de gravar (ex.: created_by).
	Prepare func(draft *T, creating bool)
	OnSaved func(ctx context.Context, saved T, created bool)
}

// Form guarda um rascunho. Abrir para outra entidade troca o rascunho;
// abrir sem entidade volta aos valores padrão.
type Form[T Entity] struct {
	saver    Saver[T]
	validate *validator.Validate
	opts     Options[T]

	mu         sync.Mutex
	open       bool
	editingID  uuid.UUID
	draft      T
	err        error
	submitting bool
}

func New[T Entity](saver Saver[T], v *validator.Validate, opts Options[T]) *Form[T] {
	if opts.Defaults == nil {
		opts.Defaults = func() T {
			var zero T
			return zero
		}
	}
	return &Form[T]{saver: saver, validate: v, opts: opts}
}

// Fork devolve um form fechado com o mesmo saver e as mesmas opções.
// Cada requisição HTTP grava pelo seu próprio fork; o rascunho da aba
// não é tocado.
func (f *Form[T]) Fork() *Form[T] {
	return &Form[T]{saver: f.saver, validate: f.validate, opts: f.opts}
}

func (f *Form[T]) Open(editing *T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := uuid.Nil
	if editing != nil {
		target = (*editing).EntityID()
	}

	if !f.open || f.editingID != target {
		if editing != nil {
			f.draft = *editing
		} else {
			f.draft = f.opts.Defaults()
		}
		f.editingID = target
	}

	f.open = true
	f.err = nil
}

func (f *Form[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.err = nil
}

func (f *Form[T]) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

// Editing informa se o submit vai atualizar em vez de inserir.
func (f *Form[T]) Editing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.editingID != uuid.Nil
}

func (f *Form[T]) Draft() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *Form[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *Form[T]) Edit(fn func(draft *T)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return ErrClosed
	}
	fn(&f.draft)
	return nil
}

// Submit faz exatamente uma chamada remota: update se havia entidade em
// edição, insert caso contrário. Sucesso fecha o form; falha o mantém
// aberto com Err.
func (f *Form[T]) Submit(ctx context.Context) (T, error) {
	var zero T

	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return zero, ErrClosed
	}
	if f.submitting {
		f.mu.Unlock()
		return zero, ErrBusy
	}

	draft := f.draft
	id := f.editingID
	creating := id == uuid.Nil

	if f.opts.Prepare != nil {
		f.opts.Prepare(&draft, creating)
	}

	if err := f.check(&draft); err != nil {
		f.err = err
		f.mu.Unlock()
		return zero, err
	}

	f.submitting = true
	f.mu.Unlock()

	var err error
	if creating {
		err = f.saver.Insert(ctx, &draft)
	} else {
		err = f.saver.Update(ctx, id, &draft)
	}

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.err = err
		f.mu.Unlock()
		return zero, err
	}
	f.open = false
	f.err = nil
	f.editingID = uuid.Nil
	f.draft = f.opts.Defaults()
	f.mu.Unlock()

	if f.opts.OnSaved != nil {
		f.opts.OnSaved(ctx, draft, creating)
	}
	return draft, nil
}

func (f *Form[T]) check(draft *T) error {
	if f.validate != nil {
		if err := validators.Struct(f.validate, draft); err != nil {
			return err
		}
	}
	if f.opts.Check != nil {
		return f.opts.Check(draft)
	}
	return nil
}
