package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	calendarRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/availability"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// UseCase use case для создания записи
type UseCase struct {
	appointments AppointmentRepository
	rules        RulesLoader
	services     ServiceRepository
	txManager    TransactionManager
	resolver     *availability.Resolver
	projector    *availability.Projector
	policy       domain.BookingPolicy
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointments AppointmentRepository,
	rules RulesLoader,
	services ServiceRepository,
	txManager TransactionManager,
	resolver *availability.Resolver,
	projector *availability.Projector,
	policy domain.BookingPolicy,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointments: appointments,
		rules:        rules,
		services:     services,
		txManager:    txManager,
		resolver:     resolver,
		projector:    projector,
		policy:       policy,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает запись.
// Проверка свободного времени и вставка выполняются в одной транзакции READ COMMITTED.
// Advisory-блокировка дня мастера берется до чтения журнала, поэтому каждое
// последующее чтение видит уже зафиксированные записи. Из конкурентных запросов
// на одно время успешен ровно один. Повторных попыток нет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return nil, err
	}

	date := types.DateOnly(req.Date)
	at := types.FromMinutes(req.Time.Minutes())
	now := uc.timeProvider.Now()

	uc.logger.Info("CreateBooking: shop=%d, staff=%s, service=%d, date=%s, time=%s",
		req.ShopID, staffLabel(req.StaffID), req.ServiceID, date.Format(domain.DateFormat), at)

	if err := uc.policy.CheckDate(date, now); err != nil {
		uc.logger.Warn("CreateBooking: date rejected: %v", err)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	notBefore := uc.policy.NotBefore(date, now)
	if !notBefore.IsZero() && at.IsBefore(notBefore) {
		uc.logger.Warn("CreateBooking: time %s is earlier than %s", at, notBefore)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return nil, fmt.Errorf("%w: time %s is too late to book, earliest is %s", ErrInvalidRequest, at, notBefore)
	}

	service, err := uc.services.GetService(ctx, req.ShopID, req.ServiceID)
	if err != nil {
		return nil, uc.fail(err)
	}
	if !service.IsActive || service.DurationMinutes <= 0 {
		uc.logger.Warn("CreateBooking: service id=%d is not bookable", req.ServiceID)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return nil, fmt.Errorf("%w: service %d is not bookable", ErrInvalidRequest, req.ServiceID)
	}

	query := availability.Query{DurationMinutes: service.DurationMinutes, NotBefore: notBefore}

	var result *domain.Appointment
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		locked := make(map[int64]bool)
		if req.StaffID != nil {
			if err := uc.lockStaffDay(txCtx, locked, *req.StaffID, date); err != nil {
				return err
			}
		}

		rules, err := uc.rules.LoadRules(txCtx, req.ShopID)
		if err != nil {
			return err
		}

		if !inCatalog(rules, at) {
			return fmt.Errorf("%w: time %s is not a bookable slot", ErrInvalidRequest, at)
		}

		candidates, err := uc.candidates(rules, req.StaffID)
		if err != nil {
			return err
		}

		for _, staffID := range candidates {
			free, err := uc.isFree(txCtx, locked, rules, staffID, date, at, query)
			if err != nil {
				return err
			}
			if !free {
				continue
			}

			created, err := uc.appointments.Create(txCtx, &domain.Appointment{
				ShopID:          req.ShopID,
				StaffID:         staffID,
				ServiceID:       req.ServiceID,
				Date:            date,
				TimeSlot:        at,
				DurationMinutes: service.DurationMinutes,
				Status:          domain.StatusBooked,
				Customer: domain.Customer{
					Name:  req.Customer.Name,
					Email: req.Customer.Email,
					Phone: req.Customer.Phone,
				},
				Notes: req.Notes,
			})
			if err != nil {
				return err
			}
			result = created
			return nil
		}

		return fmt.Errorf("%w: %s %s", ErrSlotNoLongerAvailable, date.Format(domain.DateFormat), at)
	})
	if err != nil {
		return nil, uc.fail(err)
	}

	uc.metrics.ObserveBooking(outcomeSuccess)
	uc.logger.Info("CreateBooking: created appointment id=%d for staff=%d", result.ID, result.StaffID)

	return &Response{
		ID:              result.ID,
		ShopID:          result.ShopID,
		StaffID:         result.StaffID,
		ServiceID:       result.ServiceID,
		Date:            result.Date,
		Time:            result.TimeSlot,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		Customer: Customer{
			Name:  result.Customer.Name,
			Email: result.Customer.Email,
			Phone: result.Customer.Phone,
		},
		Notes:     result.Notes,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}

// candidates мастера, которых можно попробовать записать, по возрастанию ID
func (uc *UseCase) candidates(rules *domain.CalendarRules, staffID *int64) ([]int64, error) {
	if staffID == nil {
		return rules.ActiveStaffIDs(), nil
	}
	if _, ok := rules.FindStaff(*staffID); !ok {
		return nil, fmt.Errorf("%w: id=%d", availability.ErrUnknownStaff, *staffID)
	}
	return []int64{*staffID}, nil
}

// lockStaffDay берет блокировку дня мастера один раз за транзакцию
func (uc *UseCase) lockStaffDay(ctx context.Context, locked map[int64]bool, staffID int64, date time.Time) error {
	if locked[staffID] {
		return nil
	}
	if err := uc.appointments.LockStaffDay(ctx, staffID, date); err != nil {
		return err
	}
	locked[staffID] = true
	return nil
}

// isFree блокирует день мастера и заново проверяет окно и журнал
func (uc *UseCase) isFree(
	ctx context.Context,
	locked map[int64]bool,
	rules *domain.CalendarRules,
	staffID int64,
	date time.Time,
	at types.TimeString,
	query availability.Query,
) (bool, error) {
	if err := uc.lockStaffDay(ctx, locked, staffID, date); err != nil {
		return false, err
	}

	res, err := uc.resolver.EffectiveWindow(rules, &staffID, date)
	if err != nil {
		return false, err
	}
	if !res.Open {
		uc.logger.Info("CreateBooking: staff=%d is not working on %s (%s)", staffID, date.Format(domain.DateFormat), res.Reason)
		return false, nil
	}

	booked, err := uc.appointments.ListBookedByStaffDate(ctx, staffID, date)
	if err != nil {
		return false, err
	}
	return uc.projector.IsFree(rules, res, booked, at, query), nil
}

// fail приводит ошибку к таксономии use case и учитывает исход
func (uc *UseCase) fail(err error) error {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return err
	case errors.Is(err, ErrSlotNoLongerAvailable):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveBooking(outcomeConflict)
		return err
	case errors.Is(err, appointmentRepo.ErrSlotTaken):
		uc.logger.Warn("CreateBooking: concurrent booking detected: %v", err)
		uc.metrics.ObserveBooking(outcomeConflict)
		return fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
	case errors.Is(err, calendarRepo.ErrShopNotFound):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, calendarRepo.ErrServiceNotFound), errors.Is(err, availability.ErrUnknownStaff):
		uc.logger.Warn("CreateBooking: %v", err)
		uc.metrics.ObserveBooking(outcomeInvalid)
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	case errors.Is(err, availability.ErrIncompleteConfiguration):
		uc.logger.Error("CreateBooking: configuration error: %v", err)
		uc.metrics.ObserveBooking(outcomeError)
		return fmt.Errorf("%w: %v", ErrIncompleteConfiguration, err)
	case errors.Is(err, availability.ErrUnsupportedRegion):
		uc.logger.Error("CreateBooking: region error: %v", err)
		uc.metrics.ObserveBooking(outcomeError)
		return fmt.Errorf("%w: %v", ErrUnsupportedRegion, err)
	default:
		uc.logger.Error("CreateBooking: %v", err)
		uc.metrics.ObserveBooking(outcomeError)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func inCatalog(rules *domain.CalendarRules, at types.TimeString) bool {
	target := at.Minutes()
	for _, slot := range rules.ActiveTimeSlots() {
		if slot.Time.Minutes() == target {
			return true
		}
	}
	return false
}

func staffLabel(staffID *int64) string {
	if staffID == nil {
		return domain.AnyStaff
	}
	return fmt.Sprintf("%d", *staffID)
}
