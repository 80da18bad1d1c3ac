package create_booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	berlin, _     = time.LoadLocation("Europe/Berlin")
	monday        = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	tuesday       = time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	sundayMorning = time.Date(2026, time.March, 1, 10, 0, 0, 0, berlin)
)

func testPolicy() domain.BookingPolicy {
	return domain.BookingPolicy{
		Location:           berlin,
		DayRollover:        types.MustTimeString("19:00"),
		AdvanceBookingDays: 60,
		MinNoticeMinutes:   30,
	}
}

// testRules пн-сб 10:00-19:00, слоты каждые 30 минут, Boris отдыхает по понедельникам
func testRules() *domain.CalendarRules {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rules := &domain.CalendarRules{
		ShopID: 1,
		Region: "DE-NW",
		Staff: []domain.StaffMember{
			{ID: 1, Name: "Anna", StartDate: start, IsActive: true},
			{ID: 2, Name: "Boris", FreeDay: ptr.Ptr(1), StartDate: start, IsActive: true},
		},
	}
	for d := 0; d < 7; d++ {
		oh := domain.OpeningHours{DayOfWeek: d, OpenTime: types.MustTimeString("10:00"), CloseTime: types.MustTimeString("19:00")}
		if d == int(time.Sunday) {
			oh = domain.OpeningHours{DayOfWeek: d, IsClosed: true}
		}
		rules.OpeningHours = append(rules.OpeningHours, oh)
	}
	for i, m := 0, 9*60; m < 20*60; i, m = i+1, m+30 {
		rules.TimeSlots = append(rules.TimeSlots, domain.TimeSlotDefinition{
			ID: int64(i + 1), Time: types.FromMinutes(m), Active: true, SortOrder: i,
		})
	}
	return rules
}

func haircut() *domain.Service {
	return &domain.Service{ID: 10, ShopID: 1, Name: "Haircut", DurationMinutes: 30, IsActive: true}
}

func validRequest(staffID *int64, date time.Time, at string) *Request {
	return &Request{
		ShopID:    1,
		StaffID:   staffID,
		ServiceID: 10,
		Date:      date,
		Time:      types.MustTimeString(at),
		Customer:  Customer{Name: "Max Mustermann", Email: ptr.Ptr("max@example.com")},
	}
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// testify моки

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) LockStaffDay(ctx context.Context, staffID int64, date time.Time) error {
	return m.Called(ctx, staffID, date).Error(0)
}

func (m *mockAppointments) ListBookedByStaffDate(ctx context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	args := m.Called(ctx, staffID, date)
	list, _ := args.Get(0).([]*domain.Appointment)
	return list, args.Error(1)
}

func (m *mockAppointments) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	args := m.Called(ctx, a)
	created, _ := args.Get(0).(*domain.Appointment)
	return created, args.Error(1)
}

type mockRules struct{ mock.Mock }

func (m *mockRules) LoadRules(ctx context.Context, shopID int64) (*domain.CalendarRules, error) {
	args := m.Called(ctx, shopID)
	rules, _ := args.Get(0).(*domain.CalendarRules)
	return rules, args.Error(1)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetService(ctx context.Context, shopID, serviceID int64) (*domain.Service, error) {
	args := m.Called(ctx, shopID, serviceID)
	svc, _ := args.Get(0).(*domain.Service)
	return svc, args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) ObserveBooking(outcome string) {
	m.Called(outcome)
}

// passthroughTx выполняет функцию без транзакции
type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// In-memory журнал с транзакциями и блокировками дня мастера.
// Записи транзакции становятся видны другим только после фиксации

type memTxKey struct{}

type memTx struct {
	unlocks []func()
	pending []*domain.Appointment
}

type memLedger struct {
	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	rows   []*domain.Appointment
	nextID int64
}

func newMemLedger() *memLedger {
	return &memLedger{locks: make(map[string]*sync.Mutex)}
}

func (l *memLedger) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))
	if err == nil {
		l.mu.Lock()
		l.rows = append(l.rows, tx.pending...)
		l.mu.Unlock()
	}
	for i := len(tx.unlocks) - 1; i >= 0; i-- {
		tx.unlocks[i]()
	}
	return err
}

func (l *memLedger) LockStaffDay(ctx context.Context, staffID int64, date time.Time) error {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return appointmentRepo.ErrTransactionRequired
	}
	key := fmt.Sprintf("%d:%s", staffID, date.Format(types.DateFormat))

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	tx.unlocks = append(tx.unlocks, lock.Unlock)
	return nil
}

func (l *memLedger) ListBookedByStaffDate(_ context.Context, staffID int64, date time.Time) ([]*domain.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var result []*domain.Appointment
	for _, a := range l.rows {
		if a.StaffID == staffID && types.SameDate(a.Date, date) && a.IsBooked() {
			copied := *a
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (l *memLedger) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return nil, appointmentRepo.ErrTransactionRequired
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Уникальный индекс (мастер, дата, время) среди активных записей
	for _, row := range l.rows {
		if row.IsBooked() && row.StaffID == a.StaffID && types.SameDate(row.Date, a.Date) && row.TimeSlot == a.TimeSlot {
			return nil, appointmentRepo.ErrSlotTaken
		}
	}

	l.nextID++
	created := *a
	created.ID = l.nextID
	tx.pending = append(tx.pending, &created)
	result := created
	return &result, nil
}

func (l *memLedger) committed() []*domain.Appointment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*domain.Appointment(nil), l.rows...)
}

type staticRules struct{ rules *domain.CalendarRules }

func (s staticRules) LoadRules(context.Context, int64) (*domain.CalendarRules, error) {
	return s.rules, nil
}

type staticServices struct{ service *domain.Service }

func (s staticServices) GetService(context.Context, int64, int64) (*domain.Service, error) {
	return s.service, nil
}

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (c *countingMetrics) ObserveBooking(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = make(map[string]int)
	}
	c.outcomes[outcome]++
}
