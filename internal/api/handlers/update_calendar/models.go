package update_calendar

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ClosedDateRequest тело PUT /closed-dates/{date}
type ClosedDateRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=200"`
}

// WindowRequest окно работы HH:MM-HH:MM
type WindowRequest struct {
	OpenTime  string `json:"openTime" validate:"required"`
	CloseTime string `json:"closeTime" validate:"required"`
}

// OpenHolidayRequest тело PUT /open-holidays/{date}
type OpenHolidayRequest struct {
	Name string `json:"name" validate:"max=200"`
}

// FreeDayExceptionRequest тело POST /staff/{staffId}/free-day-exceptions
type FreeDayExceptionRequest struct {
	Date            string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string  `json:"startTime" validate:"required"`
	EndTime         string  `json:"endTime" validate:"required"`
	ReplacementDate *string `json:"replacementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// OpeningHoursRequest тело PUT /opening-hours/{dayOfWeek}
type OpeningHoursRequest struct {
	IsClosed  bool   `json:"isClosed"`
	OpenTime  string `json:"openTime" validate:"required_if=IsClosed false"`
	CloseTime string `json:"closeTime" validate:"required_if=IsClosed false"`
}

func (r *WindowRequest) parse() (types.TimeString, types.TimeString, error) {
	return parseWindow(r.OpenTime, r.CloseTime)
}

// ToOpenSunday конвертирует окно в рабочее воскресенье
func (r *WindowRequest) ToOpenSunday(date time.Time) (domain.OpenSunday, error) {
	open, closing, err := r.parse()
	if err != nil {
		return domain.OpenSunday{}, err
	}
	return domain.OpenSunday{Date: date, OpenTime: open, CloseTime: closing}, nil
}

// ToAssignment конвертирует окно в назначение мастера на воскресенье
func (r *WindowRequest) ToAssignment(date time.Time, staffID int64) (domain.OpenSundayStaffAssignment, error) {
	start, end, err := r.parse()
	if err != nil {
		return domain.OpenSundayStaffAssignment{}, err
	}
	return domain.OpenSundayStaffAssignment{Date: date, StaffID: staffID, StartTime: start, EndTime: end}, nil
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *FreeDayExceptionRequest) ToServiceRequest(staffID int64) (*models.FreeDayExceptionRequest, error) {
	date, err := handlers.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	start, end, err := parseWindow(r.StartTime, r.EndTime)
	if err != nil {
		return nil, err
	}
	replacement, err := handlers.ParseOptionalDate(r.ReplacementDate)
	if err != nil {
		return nil, err
	}
	return &models.FreeDayExceptionRequest{
		StaffID:         staffID,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		ReplacementDate: replacement,
	}, nil
}

// ToDomain конвертирует часы работы; для выходного дня время игнорируется
func (r *OpeningHoursRequest) ToDomain(dayOfWeek int) (domain.OpeningHours, error) {
	oh := domain.OpeningHours{DayOfWeek: dayOfWeek, IsClosed: r.IsClosed}
	if r.IsClosed {
		return oh, nil
	}
	open, closing, err := parseWindow(r.OpenTime, r.CloseTime)
	if err != nil {
		return domain.OpeningHours{}, err
	}
	oh.OpenTime, oh.CloseTime = open, closing
	return oh, nil
}

func parseWindow(startStr, endStr string) (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(startStr)
	if err != nil {
		return "", "", err
	}
	end, err := types.NewTimeStringFromString(endStr)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}
