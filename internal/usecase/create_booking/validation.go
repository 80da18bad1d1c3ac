package create_booking

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
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

	if req.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidRequest)
	}

	if err := req.Time.Validate(); err != nil {
		return fmt.Errorf("%w: invalid time format: %v", ErrInvalidRequest, err)
	}

	if err := validateCustomer(req.Customer); err != nil {
		return err
	}

	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidRequest, domain.MaxNotesLength)
	}

	return nil
}

func validateCustomer(c Customer) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidRequest)
	}
	if utf8.RuneCountInString(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customer name must be at most %d characters", ErrInvalidRequest, domain.MaxCustomerNameLength)
	}

	email := trimmed(c.Email)
	phone := trimmed(c.Phone)
	if email == "" && phone == "" {
		return fmt.Errorf("%w: customer email or phone is required", ErrInvalidRequest)
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("%w: invalid customer email: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
