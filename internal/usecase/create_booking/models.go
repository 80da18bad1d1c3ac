package create_booking

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	ShopID    int64            // ID салона
	StaffID   *int64           // ID мастера, nil - любой свободный мастер
	ServiceID int64            // ID услуги
	Date      time.Time        // Дата записи (без времени)
	Time      types.TimeString // Время начала, элемент каталога слотов
	Customer  Customer         // Контакты клиента
	Notes     *string          // Заметки (опционально)
}

// Customer контакты клиента: имя и хотя бы один способ связи
type Customer struct {
	Name  string
	Email *string
	Phone *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	ShopID          int64
	StaffID         int64 // Назначенный мастер (в режиме "любой мастер" выбирается сервисом)
	ServiceID       int64
	Date            time.Time
	Time            types.TimeString
	DurationMinutes int
	Status          string
	Customer        Customer
	Notes           *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
