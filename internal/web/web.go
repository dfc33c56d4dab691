// Package web guarda os templates HTML das páginas servidas pelo gin.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/notify"
)

//go:embed templates/*.html
var files embed.FS

// Templates carrega todos os templates; cada página é referenciada pelo
// nome do arquivo (ex.: "auth.html").
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"brl":       BRL,
		"dataBR":    notify.BrazilianDate,
		"hora":      notify.ShortTime,
		"deref":     deref,
		"statusCSS": statusCSS,
	}
}

// BRL formata valores como "R$ 1.234,50".
func BRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	raw := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(raw, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + frac
	if neg {
		return "-" + out
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statusCSS(status string) string {
	switch status {
	case models.StatusConfirmado:
		return "status-ok"
	case models.StatusConcluido, models.StatusRealizado:
		return "status-done"
	case models.StatusCancelado:
		return "status-off"
	default:
		return "status-pending"
	}
}
