package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	calendarRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// Service администрирование календаря салона.
// После каждого изменения снимок правил в кэше сбрасывается
type Service struct {
	repo        CalendarRepository
	rules       RulesLoader
	invalidator RulesInvalidator
	holidays    HolidayCalendar
	logger      Logger
}

// NewService создает новый экземпляр сервиса календаря
func NewService(
	repo CalendarRepository,
	rules RulesLoader,
	invalidator RulesInvalidator,
	holidays HolidayCalendar,
	logger Logger,
) *Service {
	return &Service{
		repo:        repo,
		rules:       rules,
		invalidator: invalidator,
		holidays:    holidays,
		logger:      logger,
	}
}

// SetClosedDate закрывает салон на весь день. Закрытие действует на всех мастеров
func (s *Service) SetClosedDate(ctx context.Context, shopID int64, date time.Time, reason *string) error {
	if err := validateShopDate(shopID, date); err != nil {
		return err
	}
	cd := domain.ClosedDate{Date: types.DateOnly(date), Reason: reason}
	return s.write(ctx, "SetClosedDate", shopID, func() error {
		return s.repo.UpsertClosedDate(ctx, shopID, cd)
	})
}

// RemoveClosedDate снимает закрытие
func (s *Service) RemoveClosedDate(ctx context.Context, shopID int64, date time.Time) error {
	if err := validateShopDate(shopID, date); err != nil {
		return err
	}
	return s.write(ctx, "RemoveClosedDate", shopID, func() error {
		return s.repo.DeleteClosedDate(ctx, shopID, types.DateOnly(date))
	})
}

// SetOpenSunday объявляет воскресенье рабочим с часами салона.
// Мастера работают только после назначения через AssignSundayStaff
func (s *Service) SetOpenSunday(ctx context.Context, shopID int64, sunday domain.OpenSunday) error {
	if err := validateSunday(shopID, sunday.Date); err != nil {
		return err
	}
	if err := validateWindow(sunday.OpenTime, sunday.CloseTime); err != nil {
		return err
	}
	sunday.Date = types.DateOnly(sunday.Date)
	return s.write(ctx, "SetOpenSunday", shopID, func() error {
		return s.repo.UpsertOpenSunday(ctx, shopID, sunday)
	})
}

// RemoveOpenSunday отменяет рабочее воскресенье; назначения мастеров перестают действовать
func (s *Service) RemoveOpenSunday(ctx context.Context, shopID int64, date time.Time) error {
	if err := validateSunday(shopID, date); err != nil {
		return err
	}
	return s.write(ctx, "RemoveOpenSunday", shopID, func() error {
		return s.repo.DeleteOpenSunday(ctx, shopID, types.DateOnly(date))
	})
}

// AssignSundayStaff назначает мастера на воскресенье с индивидуальным окном
func (s *Service) AssignSundayStaff(ctx context.Context, shopID int64, a domain.OpenSundayStaffAssignment) error {
	if err := validateSunday(shopID, a.Date); err != nil {
		return err
	}
	if err := validateWindow(a.StartTime, a.EndTime); err != nil {
		return err
	}
	if err := s.checkStaff(ctx, "AssignSundayStaff", shopID, a.StaffID); err != nil {
		return err
	}
	a.Date = types.DateOnly(a.Date)
	return s.write(ctx, "AssignSundayStaff", shopID, func() error {
		return s.repo.UpsertOpenSundayStaff(ctx, shopID, a)
	})
}

// UnassignSundayStaff снимает мастера с воскресенья
func (s *Service) UnassignSundayStaff(ctx context.Context, shopID int64, date time.Time, staffID int64) error {
	if err := validateSunday(shopID, date); err != nil {
		return err
	}
	if staffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	return s.write(ctx, "UnassignSundayStaff", shopID, func() error {
		return s.repo.DeleteOpenSundayStaff(ctx, shopID, types.DateOnly(date), staffID)
	})
}

// SetOpenHoliday отмечает праздник региона салона как рабочий день.
// Дата должна быть праздником; пустое название берётся из календаря праздников
func (s *Service) SetOpenHoliday(ctx context.Context, shopID int64, date time.Time, name string) error {
	if err := validateShopDate(shopID, date); err != nil {
		return err
	}
	date = types.DateOnly(date)

	region, err := s.region(ctx, "SetOpenHoliday", shopID)
	if err != nil {
		return err
	}
	holiday, ok, err := s.holidays.IsHoliday(region, date)
	if err != nil {
		return s.mapHolidayError("SetOpenHoliday", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s is not a public holiday in %s", ErrInvalidInput, date.Format(domain.DateFormat), region)
	}

	if strings.TrimSpace(name) == "" {
		name = holiday.Name
	}
	oh := domain.OpenHoliday{Date: date, HolidayName: name}
	return s.write(ctx, "SetOpenHoliday", shopID, func() error {
		return s.repo.UpsertOpenHoliday(ctx, shopID, oh)
	})
}

// RemoveOpenHoliday возвращает празднику статус выходного
func (s *Service) RemoveOpenHoliday(ctx context.Context, shopID int64, date time.Time) error {
	if err := validateShopDate(shopID, date); err != nil {
		return err
	}
	return s.write(ctx, "RemoveOpenHoliday", shopID, func() error {
		return s.repo.DeleteOpenHoliday(ctx, shopID, types.DateOnly(date))
	})
}

// CreateFreeDayException добавляет работу мастера в выходной с необязательной датой замены
func (s *Service) CreateFreeDayException(ctx context.Context, shopID int64, req *models.FreeDayExceptionRequest) (*models.FreeDayExceptionResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if err := validateShopDate(shopID, req.Date); err != nil {
		return nil, err
	}
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.ReplacementDate != nil && types.SameDate(*req.ReplacementDate, req.Date) {
		return nil, fmt.Errorf("%w: replacement date must differ from exception date", ErrInvalidInput)
	}
	if err := s.checkStaff(ctx, "CreateFreeDayException", shopID, req.StaffID); err != nil {
		return nil, err
	}

	ex := &domain.FreeDayException{
		StaffID:   req.StaffID,
		Date:      types.DateOnly(req.Date),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if req.ReplacementDate != nil {
		replacement := types.DateOnly(*req.ReplacementDate)
		ex.ReplacementDate = &replacement
	}

	var created *domain.FreeDayException
	err := s.write(ctx, "CreateFreeDayException", shopID, func() error {
		var err error
		created, err = s.repo.CreateFreeDayException(ctx, ex)
		return err
	})
	if err != nil {
		return nil, err
	}
	return models.FromDomainFreeDayException(created), nil
}

// DeleteFreeDayException удаляет исключение мастера салона
func (s *Service) DeleteFreeDayException(ctx context.Context, shopID, id int64) error {
	if shopID <= 0 || id <= 0 {
		return fmt.Errorf("%w: shopID and id must be positive", ErrInvalidInput)
	}
	return s.write(ctx, "DeleteFreeDayException", shopID, func() error {
		return s.repo.DeleteFreeDayException(ctx, shopID, id)
	})
}

// SetOpeningHours задает часы работы салона на день недели (0 = воскресенье)
func (s *Service) SetOpeningHours(ctx context.Context, shopID int64, oh domain.OpeningHours) error {
	if shopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}
	if oh.DayOfWeek < 0 || oh.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be in 0..6", ErrInvalidInput)
	}
	if oh.IsClosed {
		oh.OpenTime, oh.CloseTime = "", ""
	} else if err := validateWindow(oh.OpenTime, oh.CloseTime); err != nil {
		return err
	}
	return s.write(ctx, "SetOpeningHours", shopID, func() error {
		return s.repo.UpsertOpeningHours(ctx, shopID, oh)
	})
}

// ListHolidays возвращает праздники региона салона за год с отметкой рабочих
func (s *Service) ListHolidays(ctx context.Context, shopID int64, year int) (*models.HolidayListResponse, error) {
	if shopID <= 0 {
		return nil, fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}

	region, err := s.region(ctx, "ListHolidays", shopID)
	if err != nil {
		return nil, err
	}
	list, err := s.holidays.Holidays(region, year)
	if err != nil {
		return nil, s.mapHolidayError("ListHolidays", err)
	}
	return s.withOpenFlags(ctx, shopID, region, list)
}

// UpcomingHolidays возвращает ближайшие праздники начиная с from
func (s *Service) UpcomingHolidays(ctx context.Context, shopID int64, from time.Time, limit int) (*models.HolidayListResponse, error) {
	if shopID <= 0 || limit < 0 {
		return nil, fmt.Errorf("%w: shopID must be positive and limit non-negative", ErrInvalidInput)
	}

	region, err := s.region(ctx, "UpcomingHolidays", shopID)
	if err != nil {
		return nil, err
	}
	list, err := s.holidays.Upcoming(region, from, limit)
	if err != nil {
		return nil, s.mapHolidayError("UpcomingHolidays", err)
	}
	return s.withOpenFlags(ctx, shopID, region, list)
}

func (s *Service) withOpenFlags(ctx context.Context, shopID int64, region string, list []holidays.Holiday) (*models.HolidayListResponse, error) {
	rules, err := s.rules.LoadRules(ctx, shopID)
	if err != nil {
		return nil, s.mapRepoError("LoadRules", shopID, err)
	}
	return models.FromHolidays(region, list, rules), nil
}

// write выполняет изменение и сбрасывает кэш правил салона.
// Ошибка сброса только логируется: запись при бронировании перечитывает правила из БД
func (s *Service) write(ctx context.Context, op string, shopID int64, fn func() error) error {
	if err := fn(); err != nil {
		return s.mapRepoError(op, shopID, err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, shopID); err != nil {
			s.logger.Error("%s: failed to invalidate rules cache for shop=%d: %v", op, shopID, err)
		}
	}

	s.logger.Info("%s: calendar of shop=%d updated", op, shopID)
	return nil
}

func (s *Service) region(ctx context.Context, op string, shopID int64) (string, error) {
	region, err := s.repo.GetRegion(ctx, shopID)
	if err != nil {
		return "", s.mapRepoError(op, shopID, err)
	}
	return region, nil
}

func (s *Service) checkStaff(ctx context.Context, op string, shopID, staffID int64) error {
	if staffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}
	if err := s.repo.StaffExists(ctx, shopID, staffID); err != nil {
		return s.mapRepoError(op, shopID, err)
	}
	return nil
}

func (s *Service) mapRepoError(op string, shopID int64, err error) error {
	switch {
	case errors.Is(err, calendarRepo.ErrShopNotFound):
		s.logger.Warn("%s: shop=%d not found", op, shopID)
		return ErrShopNotFound
	case errors.Is(err, calendarRepo.ErrStaffNotFound):
		s.logger.Warn("%s: staff not found in shop=%d", op, shopID)
		return ErrStaffNotFound
	case errors.Is(err, calendarRepo.ErrNotFound):
		s.logger.Warn("%s: rule not found in shop=%d", op, shopID)
		return ErrNotFound
	case errors.Is(err, calendarRepo.ErrConflict):
		s.logger.Warn("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		s.logger.Error("%s: repository error for shop=%d: %v", op, shopID, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

func (s *Service) mapHolidayError(op string, err error) error {
	switch {
	case errors.Is(err, holidays.ErrUnsupportedRegion):
		s.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrUnsupportedRegion, err)
	case errors.Is(err, holidays.ErrInvalidYear):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: holiday calendar error: %v", op, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

func validateShopDate(shopID int64, date time.Time) error {
	if shopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

func validateSunday(shopID int64, date time.Time) error {
	if err := validateShopDate(shopID, date); err != nil {
		return err
	}
	if types.DateOnly(date).Weekday() != time.Sunday {
		return fmt.Errorf("%w: %s is not a Sunday", ErrInvalidInput, date.Format(domain.DateFormat))
	}
	return nil
}

func validateWindow(start, end types.TimeString) error {
	if err := start.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	if err := end.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: start time %s must be before end time %s", ErrInvalidInput, start, end)
	}
	return nil
}
