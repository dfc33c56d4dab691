package appointment

import (
	"time"

	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

const SlotStep = 30 * time.Minute

// Grade usada na página pública quando não há horário configurado.
const (
	FallbackFirstSlot = "08:00"
	FallbackLastSlot  = "18:30"
)

type TimeSlot struct {
	Hora       string `json:"hora"`
	Disponivel bool   `json:"disponivel"`
}

type SlotInput struct {
	Date time.Time
	// Hours nil usa a grade padrão 08:00–18:30.
	Hours *studio.BusinessHours
	Taken map[string]bool
	Now   time.Time
}

// Slots monta a grade de 30 em 30 minutos do dia. Horários já ocupados
// ou que já passaram vêm marcados como indisponíveis.
func Slots(in SlotInput) []TimeSlot {
	loc := in.Date.Location()

	parseHM := func(hm string) time.Time {
		t, _ := time.Parse(timezone.ClockLayout, hm)
		return time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		)
	}

	var first, last time.Time
	if in.Hours == nil {
		first = parseHM(FallbackFirstSlot)
		last = parseHM(FallbackLastSlot)
	} else {
		day := in.Hours.Day(in.Date.Weekday())
		if !day.Ativo {
			return []TimeSlot{}
		}
		first = parseHM(day.Abertura)
		// último horário começa antes do fechamento
		last = parseHM(day.Fechamento).Add(-SlotStep)
	}

	slots := []TimeSlot{}
	for cur := first; !cur.After(last); cur = cur.Add(SlotStep) {
		hora := cur.Format(timezone.ClockLayout)
		free := !in.Taken[hora]
		if !in.Now.IsZero() && !cur.After(in.Now) {
			free = false
		}
		slots = append(slots, TimeSlot{Hora: hora, Disponivel: free})
	}

	return slots
}
