package get_shop_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	shopID int64,
	dateStr string,
	staffIDStr string,
	includeCancelledStr string,
) (*models.ListByDateRequest, error) {
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	req := &models.ListByDateRequest{
		ShopID: shopID,
		Date:   date,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil || staffID <= 0 {
			return nil, fmt.Errorf("invalid staffId %q", staffIDStr)
		}
		req.StaffID = &staffID
	}

	if includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeCancelled value: %w", err)
		}
		req.IncludeCancelled = includeCancelled
	}

	return req, nil
}
