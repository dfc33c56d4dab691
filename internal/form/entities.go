package form

import (
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/validators"
)

// =====================================================
// APPOINTMENT
// =====================================================

type AppointmentForm struct {
	*Form[models.Appointment]
}

func NewAppointmentForm(saver Saver[models.Appointment], v *validator.Validate, opts Options[models.Appointment]) *AppointmentForm {
	if opts.Defaults == nil {
		opts.Defaults = func() models.Appointment {
			return models.Appointment{Status: models.StatusPendente}
		}
	}
	return &AppointmentForm{Form: New(saver, v, opts)}
}

func (f *AppointmentForm) Fork() *AppointmentForm {
	return &AppointmentForm{Form: f.Form.Fork()}
}

// SelectService troca o serviço e sugere o preço atual como valor.
// O valor continua editável até o submit.
func (f *AppointmentForm) SelectService(svc models.Service) error {
	return f.Edit(func(a *models.Appointment) {
		a.ServiceID = svc.ID
		a.Valor = svc.Preco
	})
}

func (f *AppointmentForm) SetValor(v float64) error {
	return f.Edit(func(a *models.Appointment) {
		a.Valor = v
	})
}

// =====================================================
// TRANSACTION
// =====================================================

type TransactionForm struct {
	*Form[models.Transaction]
}

func NewTransactionForm(saver Saver[models.Transaction], v *validator.Validate, opts Options[models.Transaction]) *TransactionForm {
	if opts.Defaults == nil {
		opts.Defaults = func() models.Transaction {
			return models.Transaction{Tipo: models.TipoEntrada}
		}
	}
	return &TransactionForm{Form: New(saver, v, opts)}
}

func (f *TransactionForm) Fork() *TransactionForm {
	return &TransactionForm{Form: f.Form.Fork()}
}

// SelectCategory copia o nome da categoria para o campo texto.
func (f *TransactionForm) SelectCategory(cat models.TransactionCategory) error {
	return f.Edit(func(t *models.Transaction) {
		id := cat.ID
		t.CategoryID = &id
		t.Categoria = cat.Nome
		t.Tipo = cat.Tipo
	})
}

// =====================================================
// SETTINGS
// =====================================================

// CheckBusinessHours recusa horários fora do formato de sete dias.
func CheckBusinessHours(s *models.StudioSettings) error {
	if len(s.HorasFuncionamento) == 0 {
		s.HorasFuncionamento = studio.DefaultBusinessHours().JSON()
		return nil
	}

	h, err := studio.ParseBusinessHours(s.HorasFuncionamento)
	if err == nil {
		err = h.Validate()
	}
	if err != nil {
		return validators.NewValidationError(map[string]string{
			"horas_funcionamento": "Horário de funcionamento inválido.",
		})
	}
	return nil
}

func NewSettingsForm(saver Saver[models.StudioSettings], v *validator.Validate, opts Options[models.StudioSettings]) *Form[models.StudioSettings] {
	if opts.Defaults == nil {
		opts.Defaults = func() models.StudioSettings {
			cor := "#1e3a8a"
			return models.StudioSettings{
				CorPrimaria:        &cor,
				HorasFuncionamento: studio.DefaultBusinessHours().JSON(),
			}
		}
	}
	if opts.Check == nil {
		opts.Check = CheckBusinessHours
	}
	return New(saver, v, opts)
}
