package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Service сервис для работы с существующими записями
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	metrics         MetricsRecorder
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает запись салона по ID
func (s *Service) GetByID(ctx context.Context, shopID, id int64) (*models.AppointmentResponse, error) {
	if shopID <= 0 || id <= 0 {
		return nil, fmt.Errorf("%w: shopID and id must be positive", ErrInvalidInput)
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, shopID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found in shop=%d", id, shopID)
			return nil, ErrNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListByDate возвращает записи салона на дату, опционально по мастеру и с отменёнными
func (s *Service) ListByDate(ctx context.Context, req *models.ListByDateRequest) (*models.AppointmentListResponse, error) {
	if req == nil || req.ShopID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: shopID and date are required", ErrInvalidInput)
	}

	filter := domain.AppointmentsFilter{
		ShopID:           req.ShopID,
		Date:             types.DateOnly(req.Date),
		StaffID:          req.StaffID,
		IncludeCancelled: req.IncludeCancelled,
	}

	list, err := s.appointmentRepo.ListByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByDate: repository error for shop=%d: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByDate: fetched %d appointments for shop=%d on %s",
		len(list), req.ShopID, filter.Date.Format(domain.DateFormat))
	return models.FromDomainAppointmentList(list), nil
}

// Cancel переводит запись в статус cancelled.
// Повторная отмена возвращает уже отменённую запись без ошибки, строки не удаляются
func (s *Service) Cancel(ctx context.Context, shopID, id int64) (*models.AppointmentResponse, error) {
	if shopID <= 0 || id <= 0 {
		return nil, fmt.Errorf("%w: shopID and id must be positive", ErrInvalidInput)
	}

	s.logger.Info("Cancel: cancelling appointment id=%d in shop=%d", id, shopID)

	var (
		result  *domain.Appointment
		outcome = outcomeCancelled
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// Блокирует строку до конца транзакции
		current, err := s.appointmentRepo.GetByID(txCtx, shopID, id)
		if err != nil {
			return err
		}

		if current.IsCancelled() {
			result = current
			outcome = outcomeAlreadyCancelled
			return nil
		}

		result, err = s.appointmentRepo.Cancel(txCtx, shopID, id)
		return err
	})
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment id=%d not found in shop=%d", id, shopID)
			s.metrics.ObserveCancellation(outcomeNotFound)
			return nil, ErrNotFound
		}
		s.logger.Error("Cancel: repository error for appointment id=%d: %v", id, err)
		s.metrics.ObserveCancellation(outcomeError)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.metrics.ObserveCancellation(outcome)
	s.logger.Info("Cancel: appointment id=%d is %s (%s)", id, result.Status, outcome)
	return models.FromDomainAppointment(result), nil
}
