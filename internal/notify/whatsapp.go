// Package notify prepara o aviso ao cliente e registra a intenção de envio.
// A entrega em si acontece fora do app (WhatsApp ou e-mail).
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BruksfildServices01/studio-manager/internal/backend"
)

const countryCode = "55"

// Digits mantém somente os dígitos do telefone.
func Digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink monta o deep link wa.me com o DDI do Brasil.
func WhatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s%s?text=%s", countryCode, Digits(phone), escape(message))
}

// escape codifica o texto para a query; espaço vira %20, não "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BrazilianDate converte YYYY-MM-DD para dd/mm/aaaa.
func BrazilianDate(iso string) string {
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}

// ShortTime corta segundos de HH:MM:SS.
func ShortTime(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

func ReminderMessage(next backend.NextAppointment) string {
	return fmt.Sprintf(
		"Olá %s! 👋\n\nLembrando do seu agendamento:\n📅 Data: %s\n⏰ Horário: %s\n💄 Serviço: %s\n\nEstamos te esperando! ✨",
		next.ClientName,
		BrazilianDate(next.AppointmentDate),
		ShortTime(next.AppointmentTime),
		next.ServiceName,
	)
}
