package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location devolve o fuso pedido ou o padrão do estúdio.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock devolve o "agora" do estúdio; nos testes é trocado por um relógio fixo.
type Clock func() time.Time

func SystemClock(tz string) Clock {
	loc := Location(tz)
	return func() time.Time {
		return time.Now().In(loc)
	}
}

func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func Today(now time.Time) string {
	return now.Format(DateLayout)
}

func ClockTime(now time.Time) string {
	return now.Format(ClockLayout)
}

// ParseDay interpreta YYYY-MM-DD no fuso informado.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, day, loc)
}

// MonthRange devolve o primeiro e o último dia do mês de now.
func MonthRange(now time.Time) (string, string) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
