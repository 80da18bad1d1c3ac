package get_available_slots

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}

	if req.ShopID <= 0 {
		return fmt.Errorf("%w: shopID must be positive", ErrInvalidRequest)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidRequest)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidRequest)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}

	return nil
}
