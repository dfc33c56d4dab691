package backend

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/studio-manager/internal/models"
)

// Store agrupa as tabelas acessadas pelo painel.
type Store struct {
	Profiles       Table[models.Profile]
	Clients        Table[models.Client]
	Services       Table[models.Service]
	Appointments   Table[models.Appointment]
	Transactions   Table[models.Transaction]
	Categories     Table[models.TransactionCategory]
	Settings       Table[models.StudioSettings]
	PublicBookings Table[models.PublicBooking]
	Notifications  Table[models.Notification]
}

func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Profiles:       NewGormTable[models.Profile](db),
		Clients:        NewGormTable[models.Client](db),
		Services:       NewGormTable[models.Service](db),
		Appointments:   NewGormTable[models.Appointment](db),
		Transactions:   NewGormTable[models.Transaction](db),
		Categories:     NewGormTable[models.TransactionCategory](db),
		Settings:       NewGormTable[models.StudioSettings](db),
		PublicBookings: NewGormTable[models.PublicBooking](db),
		Notifications:  NewGormTable[models.Notification](db),
	}
}

// Backend é a superfície completa de colaboradores.
type Backend struct {
	Auth      Auth
	Bus       EventBus
	Store     *Store
	Functions Functions
}
