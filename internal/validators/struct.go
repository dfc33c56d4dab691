package validators

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New devolve um validador que reporta os campos pelo nome json.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var messages = map[string]string{
	"required": "Campo obrigatório.",
	"email":    "E-mail inválido.",
	"datetime": "Data ou horário inválido.",
	"gte":      "Valor não pode ser negativo.",
	"gt":       "Valor deve ser maior que zero.",
	"oneof":    "Opção inválida.",
	"url":      "URL inválida.",
	"hexcolor": "Cor inválida.",
	"min":      "Valor muito curto.",
}

// Message traduz uma tag de validação para o texto mostrado ao usuário.
func Message(tag string) string {
	if m, ok := messages[tag]; ok {
		return m
	}
	return "Valor inválido."
}

// ValidationError agrupa as falhas por campo.
type ValidationError struct {
	fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

func (e *ValidationError) Fields() map[string]string {
	return e.fields
}

// Struct valida v e devolve *ValidationError com as mensagens por campo.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = Message(fe.Tag())
		}
	}
	return NewValidationError(fields)
}
