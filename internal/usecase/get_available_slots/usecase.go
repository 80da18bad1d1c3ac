package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	calendarRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/availability"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// UseCase use case для получения свободного времени
type UseCase struct {
	rules        RulesLoader
	services     ServiceRepository
	appointments AppointmentRepository
	resolver     *availability.Resolver
	projector    *availability.Projector
	policy       domain.BookingPolicy
	metrics      MetricsRecorder
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rules RulesLoader,
	services ServiceRepository,
	appointments AppointmentRepository,
	resolver *availability.Resolver,
	projector *availability.Projector,
	policy domain.BookingPolicy,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		rules:        rules,
		services:     services,
		appointments: appointments,
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

// Execute возвращает свободное время на дату.
// Повторный вызов без изменений в журнале и правилах возвращает ту же последовательность
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := types.DateOnly(req.Date)
	now := uc.timeProvider.Now()

	if err := uc.policy.CheckDate(date, now); err != nil {
		uc.logger.Warn("GetAvailableSlots: shop=%d date=%s rejected: %v", req.ShopID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	// Правила, услуга и журнал читаются независимо
	var (
		rules    *domain.CalendarRules
		service  *domain.Service
		bookings []*domain.Appointment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rules, err = uc.rules.LoadRules(gctx, req.ShopID)
		return err
	})
	g.Go(func() error {
		var err error
		service, err = uc.services.GetService(gctx, req.ShopID, req.ServiceID)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = uc.appointments.ListByFilter(gctx, domain.AppointmentsFilter{ShopID: req.ShopID, Date: date})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, uc.mapLoadError(req, err)
	}

	if !service.IsActive || service.DurationMinutes <= 0 {
		uc.logger.Warn("GetAvailableSlots: service id=%d is not bookable", req.ServiceID)
		return nil, fmt.Errorf("%w: service %d is not bookable", ErrInvalidRequest, req.ServiceID)
	}

	query := availability.Query{
		DurationMinutes: service.DurationMinutes,
		NotBefore:       uc.policy.NotBefore(date, now),
	}

	resp := &Response{
		Date:            date,
		ShopID:          req.ShopID,
		ServiceID:       req.ServiceID,
		StaffID:         req.StaffID,
		DurationMinutes: service.DurationMinutes,
		Slots:           []Slot{},
	}

	if req.StaffID != nil {
		res, err := uc.resolver.EffectiveWindow(rules, req.StaffID, date)
		if err != nil {
			return nil, uc.mapResolveError(req, err)
		}
		if !res.Open {
			return uc.closed(resp, res.Reason), nil
		}
		for _, t := range uc.projector.FreeSlots(rules, res, bookings, query) {
			resp.Slots = append(resp.Slots, Slot{Time: t})
		}
	} else {
		resolutions, err := uc.resolver.EffectiveWindows(rules, date)
		if err != nil {
			return nil, uc.mapResolveError(req, err)
		}
		if reason, closed := allClosed(resolutions); closed {
			return uc.closed(resp, reason), nil
		}
		for _, s := range uc.projector.FreeSlotsAny(rules, resolutions, bookings, query) {
			resp.Slots = append(resp.Slots, Slot{Time: s.Time, StaffIDs: s.StaffIDs})
		}
	}

	resp.Status = domain.AvailabilityAvailable
	if len(resp.Slots) == 0 {
		resp.Status = domain.AvailabilityFullyBooked
	}
	uc.metrics.ObserveAvailability(string(resp.Status))

	uc.logger.Info("GetAvailableSlots: shop=%d date=%s service=%d status=%s slots=%d",
		req.ShopID, date.Format(domain.DateFormat), req.ServiceID, resp.Status, len(resp.Slots))
	return resp, nil
}

func (uc *UseCase) closed(resp *Response, reason domain.ClosureReason) *Response {
	resp.Status = domain.AvailabilityClosed
	resp.Reason = reason
	uc.metrics.ObserveAvailability(string(resp.Status))
	return resp
}

// allClosed все мастера закрыты; причина общая, если она у всех одинаковая
func allClosed(resolutions []domain.Resolution) (domain.ClosureReason, bool) {
	reason := domain.ReasonNone
	for i, res := range resolutions {
		if res.Open {
			return domain.ReasonNone, false
		}
		if i == 0 {
			reason = res.Reason
		} else if reason != res.Reason {
			reason = domain.ReasonNone
		}
	}
	return reason, true
}

func (uc *UseCase) mapLoadError(req *Request, err error) error {
	switch {
	case errors.Is(err, calendarRepo.ErrShopNotFound):
		uc.logger.Warn("GetAvailableSlots: shop id=%d not found", req.ShopID)
		return ErrShopNotFound
	case errors.Is(err, calendarRepo.ErrServiceNotFound):
		uc.logger.Warn("GetAvailableSlots: service id=%d not found in shop=%d", req.ServiceID, req.ShopID)
		return fmt.Errorf("%w: service %d not found", ErrInvalidRequest, req.ServiceID)
	default:
		uc.logger.Error("GetAvailableSlots: failed to load data for shop=%d: %v", req.ShopID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func (uc *UseCase) mapResolveError(req *Request, err error) error {
	switch {
	case errors.Is(err, availability.ErrUnknownStaff):
		uc.logger.Warn("GetAvailableSlots: %v", err)
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	case errors.Is(err, availability.ErrIncompleteConfiguration):
		uc.logger.Error("GetAvailableSlots: shop=%d configuration error: %v", req.ShopID, err)
		return fmt.Errorf("%w: %v", ErrIncompleteConfiguration, err)
	case errors.Is(err, availability.ErrUnsupportedRegion):
		uc.logger.Error("GetAvailableSlots: shop=%d region error: %v", req.ShopID, err)
		return fmt.Errorf("%w: %v", ErrUnsupportedRegion, err)
	default:
		uc.logger.Error("GetAvailableSlots: failed to resolve rules for shop=%d: %v", req.ShopID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}
