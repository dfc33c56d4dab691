package backend

import (
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = stderrors.New("not_found")
	ErrConstraint         = stderrors.New("constraint_violation")
	ErrPermission         = stderrors.New("permission_denied")
	ErrInvalidCredentials = stderrors.New("invalid_credentials")
	ErrSessionExpired     = stderrors.New("session_expired")
	ErrEmailTaken         = stderrors.New("email_already_registered")
)

// StoreError carrega a mensagem original do banco para ser mostrada
// ao usuário sem reescrita.
type StoreError struct {
	Kind    error
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Kind
}

// translate converte erros do gorm/pgx na taxonomia do backend.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, op)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		kind := classify(pgErr.Code)
		if kind != nil {
			return errors.Wrap(&StoreError{
				Kind:    kind,
				Code:    pgErr.Code,
				Message: pgErr.Message,
			}, op)
		}
	}

	return errors.Wrap(err, op)
}

func classify(code string) error {
	switch {
	case code == "42501":
		return ErrPermission
	case len(code) == 5 && code[:2] == "23":
		return ErrConstraint
	}
	return nil
}
