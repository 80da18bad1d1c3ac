package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/holidays"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// FreeDayExceptionRequest работа мастера в выходной
type FreeDayExceptionRequest struct {
	StaffID         int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	ReplacementDate *time.Time
}

// FreeDayExceptionResponse созданное исключение
type FreeDayExceptionResponse struct {
	ID              int64   `json:"id"`
	StaffID         int64   `json:"staffId"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	ReplacementDate *string `json:"replacementDate,omitempty"`
}

// HolidayResponse праздник региона салона
type HolidayResponse struct {
	Date string `json:"date"`
	Name string `json:"name"`
	// IsOpen салон работает в этот праздник
	IsOpen bool `json:"isOpen"`
}

// HolidayListResponse праздники салона
type HolidayListResponse struct {
	Region   string            `json:"region"`
	Holidays []HolidayResponse `json:"holidays"`
}

// FromDomainFreeDayException конвертирует domain модель в DTO
func FromDomainFreeDayException(ex *domain.FreeDayException) *FreeDayExceptionResponse {
	resp := &FreeDayExceptionResponse{
		ID:        ex.ID,
		StaffID:   ex.StaffID,
		Date:      ex.Date.Format(domain.DateFormat),
		StartTime: ex.StartTime.String(),
		EndTime:   ex.EndTime.String(),
	}
	if ex.ReplacementDate != nil {
		replacement := ex.ReplacementDate.Format(domain.DateFormat)
		resp.ReplacementDate = &replacement
	}
	return resp
}

// FromHolidays конвертирует праздники и отмечает рабочие
func FromHolidays(region string, list []holidays.Holiday, rules *domain.CalendarRules) *HolidayListResponse {
	resp := &HolidayListResponse{
		Region:   region,
		Holidays: make([]HolidayResponse, 0, len(list)),
	}
	for _, h := range list {
		item := HolidayResponse{Date: h.Date.Format(domain.DateFormat), Name: h.Name}
		if rules != nil {
			_, item.IsOpen = rules.OpenHolidayOn(h.Date)
		}
		resp.Holidays = append(resp.Holidays, item)
	}
	return resp
}
