package backend

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-manager/internal/domain/studio"
	"github.com/BruksfildServices01/studio-manager/internal/models"
	"github.com/BruksfildServices01/studio-manager/internal/timezone"
)

type DashboardStats struct {
	AppointmentsToday int64   `json:"appointments_today"`
	RevenueToday      float64 `json:"revenue_today"`
	TotalClients      int64   `json:"total_clients"`
	ServicesCompleted int64   `json:"services_completed"`
}

type NextAppointment struct {
	AppointmentID   uuid.UUID `json:"appointment_id"`
	ClientID        uuid.UUID `json:"client_id"`
	ClientName      string    `json:"client_name"`
	ClientPhone     string    `json:"client_phone"`
	ClientEmail     *string   `json:"client_email,omitempty"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	ServiceName     string    `json:"service_name"`
}

type RandomClient struct {
	ID       uuid.UUID `json:"id"`
	Nome     string    `json:"nome"`
	Telefone string    `json:"telefone"`
}

type StudioStatus struct {
	IsOpen      bool   `json:"is_open"`
	CurrentDay  string `json:"current_day"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

// Functions são as funções agregadas, somente leitura.
// NextAppointment e RandomClient devolvem nil quando não há resultado.
type Functions interface {
	DashboardStats(ctx context.Context) (DashboardStats, error)
	NextAppointment(ctx context.Context) (*NextAppointment, error)
	RandomClient(ctx context.Context) (*RandomClient, error)
	StudioStatus(ctx context.Context) (StudioStatus, error)
	StudioName(ctx context.Context) (string, error)
}

// UpcomingStatuses são os status que ainda contam como compromisso.
var UpcomingStatuses = []string{models.StatusPendente, models.StatusConfirmado}

// CompletedStatuses aceita as duas grafias usadas para serviço feito.
var CompletedStatuses = []string{models.StatusConcluido, models.StatusRealizado}

// DefaultStudioName é usado quando ainda não existe configuração.
const DefaultStudioName = "Studio"

// StatusFromSettings calcula aberto/fechado a partir da configuração mais recente.
func StatusFromSettings(settings *models.StudioSettings, now time.Time) StudioStatus {
	hours := studio.DefaultBusinessHours()
	if settings != nil {
		hours, _ = studio.ParseOrDefault(settings.HorasFuncionamento)
	}

	open, day := hours.OpenAt(now)
	return StudioStatus{
		IsOpen:      open,
		CurrentDay:  studio.WeekdayLabel(now.Weekday()),
		OpeningTime: day.Abertura,
		ClosingTime: day.Fechamento,
	}
}

// =====================================================
// GORM
// =====================================================

type GormFunctions struct {
	db    *gorm.DB
	clock timezone.Clock
}

func NewGormFunctions(db *gorm.DB, clock timezone.Clock) *GormFunctions {
	return &GormFunctions{db: db, clock: clock}
}

func (f *GormFunctions) DashboardStats(ctx context.Context) (DashboardStats, error) {
	now := f.clock()
	today := timezone.Today(now)
	monthStart, monthEnd := timezone.MonthRange(now)
	db := f.db.WithContext(ctx)

	var stats DashboardStats

	if err := db.Model(&models.Appointment{}).
		Where("data = ? AND status <> ?", today, models.StatusCancelado).
		Count(&stats.AppointmentsToday).Error; err != nil {
		return stats, translate(err, "appointments today")
	}

	if err := db.Model(&models.Transaction{}).
		Where("data = ? AND tipo = ?", today, models.TipoEntrada).
		Select("COALESCE(SUM(valor), 0)").
		Scan(&stats.RevenueToday).Error; err != nil {
		return stats, translate(err, "revenue today")
	}

	if err := db.Model(&models.Client{}).
		Count(&stats.TotalClients).Error; err != nil {
		return stats, translate(err, "total clients")
	}

	if err := db.Model(&models.Appointment{}).
		Where("data BETWEEN ? AND ?", monthStart, monthEnd).
		Where("status IN ?", CompletedStatuses).
		Count(&stats.ServicesCompleted).Error; err != nil {
		return stats, translate(err, "services completed")
	}

	return stats, nil
}

func (f *GormFunctions) NextAppointment(ctx context.Context) (*NextAppointment, error) {
	now := f.clock()
	today := timezone.Today(now)

	var rows []NextAppointment
	err := f.db.WithContext(ctx).
		Table("appointments AS a").
		Select(`a.id AS appointment_id, c.id AS client_id, c.nome AS client_name,
			c.telefone AS client_phone, c.email AS client_email,
			a.data AS appointment_date, a.hora AS appointment_time, s.nome AS service_name`).
		Joins("JOIN clients c ON c.id = a.client_id").
		Joins("JOIN services s ON s.id = a.service_id").
		Where("a.status IN ?", UpcomingStatuses).
		Where("a.data > ? OR (a.data = ? AND a.hora >= ?)", today, today, timezone.ClockTime(now)).
		Order("a.data, a.hora").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "next appointment")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (f *GormFunctions) RandomClient(ctx context.Context) (*RandomClient, error) {
	var rows []RandomClient
	err := f.db.WithContext(ctx).
		Model(&models.Client{}).
		Select("id, nome, telefone").
		Order("RANDOM()").
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "random client")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (f *GormFunctions) latestSettings(ctx context.Context) (*models.StudioSettings, error) {
	var s models.StudioSettings
	err := f.db.WithContext(ctx).Order("created_at DESC").First(&s).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "studio settings")
	}
	return &s, nil
}

func (f *GormFunctions) StudioStatus(ctx context.Context) (StudioStatus, error) {
	settings, err := f.latestSettings(ctx)
	if err != nil {
		return StudioStatus{}, err
	}
	return StatusFromSettings(settings, f.clock()), nil
}

func (f *GormFunctions) StudioName(ctx context.Context) (string, error) {
	settings, err := f.latestSettings(ctx)
	if err != nil {
		return "", err
	}
	if settings == nil || settings.Nome == "" {
		return DefaultStudioName, nil
	}
	return settings.Nome, nil
}
