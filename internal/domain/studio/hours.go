package studio

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

// DaySchedule é o expediente de um dia da semana.
type DaySchedule struct {
	Ativo      bool   `json:"ativo"`
	Abertura   string `json:"abertura"`
	Fechamento string `json:"fechamento"`
}

// BusinessHours tem exatamente as sete chaves de dia da semana.
type BusinessHours struct {
	Segunda DaySchedule `json:"segunda"`
	Terca   DaySchedule `json:"terca"`
	Quarta  DaySchedule `json:"quarta"`
	Quinta  DaySchedule `json:"quinta"`
	Sexta   DaySchedule `json:"sexta"`
	Sabado  DaySchedule `json:"sabado"`
	Domingo DaySchedule `json:"domingo"`
}

// WeekdayKeys segue a ordem de time.Weekday (domingo = 0).
var WeekdayKeys = [7]string{"domingo", "segunda", "terca", "quarta", "quinta", "sexta", "sabado"}

var weekdayLabels = [7]string{
	"Domingo", "Segunda-feira", "Terça-feira", "Quarta-feira",
	"Quinta-feira", "Sexta-feira", "Sábado",
}

func WeekdayLabel(wd time.Weekday) string {
	return weekdayLabels[wd]
}

var ErrInvalidBusinessHours = stderrors.New("invalid_business_hours")

func DefaultBusinessHours() BusinessHours {
	weekday := DaySchedule{Ativo: false, Abertura: "09:00", Fechamento: "18:00"}
	weekend := DaySchedule{Ativo: false, Abertura: "09:00", Fechamento: "16:00"}
	return BusinessHours{
		Segunda: weekday,
		Terca:   weekday,
		Quarta:  weekday,
		Quinta:  weekday,
		Sexta:   weekday,
		Sabado:  weekend,
		Domingo: weekend,
	}
}

// =====================================================
// PARSE
// =====================================================

type rawDay struct {
	Ativo      *bool   `json:"ativo"`
	Abertura   *string `json:"abertura"`
	Fechamento *string `json:"fechamento"`
}

// ParseBusinessHours aceita somente o formato completo: as sete chaves,
// cada uma com ativo booleano e horários HH:MM.
func ParseBusinessHours(raw []byte) (BusinessHours, error) {
	var days map[string]json.RawMessage
	if err := json.Unmarshal(raw, &days); err != nil || days == nil {
		return BusinessHours{}, ErrInvalidBusinessHours
	}

	var h BusinessHours
	for i, key := range WeekdayKeys {
		msg, ok := days[key]
		if !ok {
			return BusinessHours{}, fmt.Errorf("%w: missing %s", ErrInvalidBusinessHours, key)
		}

		var d rawDay
		if err := json.Unmarshal(msg, &d); err != nil {
			return BusinessHours{}, fmt.Errorf("%w: %s", ErrInvalidBusinessHours, key)
		}
		if d.Ativo == nil || d.Abertura == nil || d.Fechamento == nil {
			return BusinessHours{}, fmt.Errorf("%w: %s incomplete", ErrInvalidBusinessHours, key)
		}
		if !validClock(*d.Abertura) || !validClock(*d.Fechamento) {
			return BusinessHours{}, fmt.Errorf("%w: %s time", ErrInvalidBusinessHours, key)
		}

		*h.day(time.Weekday(i)) = DaySchedule{
			Ativo:      *d.Ativo,
			Abertura:   *d.Abertura,
			Fechamento: *d.Fechamento,
		}
	}

	return h, nil
}

// ParseOrDefault devolve os horários padrão quando o formato não confere.
func ParseOrDefault(raw []byte) (BusinessHours, bool) {
	h, err := ParseBusinessHours(raw)
	if err != nil {
		return DefaultBusinessHours(), false
	}
	return h, true
}

func validClock(s string) bool {
	_, err := time.Parse(timezone.ClockLayout, s)
	return err == nil
}

func (h *BusinessHours) day(wd time.Weekday) *DaySchedule {
	switch wd {
	case time.Monday:
		return &h.Segunda
	case time.Tuesday:
		return &h.Terca
	case time.Wednesday:
		return &h.Quarta
	case time.Thursday:
		return &h.Quinta
	case time.Friday:
		return &h.Sexta
	case time.Saturday:
		return &h.Sabado
	}
	return &h.Domingo
}

func (h BusinessHours) Day(wd time.Weekday) DaySchedule {
	return *h.day(wd)
}

// NamedDay é um dia com chave e rótulo, para listar na tela.
type NamedDay struct {
	Key   string
	Label string
	DaySchedule
}

// Week devolve os sete dias começando na segunda.
func (h BusinessHours) Week() []NamedDay {
	out := make([]NamedDay, 0, len(WeekdayKeys))
	for i := 1; i <= len(WeekdayKeys); i++ {
		wd := time.Weekday(i % 7)
		out = append(out, NamedDay{Key: WeekdayKeys[wd], Label: weekdayLabels[wd], DaySchedule: h.Day(wd)})
	}
	return out
}

func (h BusinessHours) JSON() models.JSON {
	b, _ := json.Marshal(h)
	return models.JSON(b)
}

// Validate confere os horários antes de gravar.
func (h BusinessHours) Validate() error {
	for i := range WeekdayKeys {
		d := h.Day(time.Weekday(i))
		if !validClock(d.Abertura) || !validClock(d.Fechamento) {
			return fmt.Errorf("%w: %s time", ErrInvalidBusinessHours, WeekdayKeys[i])
		}
		if d.Ativo && d.Fechamento <= d.Abertura {
			return fmt.Errorf("%w: %s closes before opening", ErrInvalidBusinessHours, WeekdayKeys[i])
		}
	}
	return nil
}

// =====================================================
// STATUS
// =====================================================

// OpenAt informa se o estúdio está aberto no instante t. O fechamento é exclusivo.
func (h BusinessHours) OpenAt(t time.Time) (bool, DaySchedule) {
	d := h.Day(t.Weekday())
	if !d.Ativo {
		return false, d
	}

	clock := t.Format(timezone.ClockLayout)
	return clock >= d.Abertura && clock < d.Fechamento, d
}
