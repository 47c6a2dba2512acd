package calculator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"customer-analytics/pkg/models"
)

var (
	// ErrInvalidParams is returned before any repository call when the parameters are unusable.
	ErrInvalidParams = errors.New("invalid parameters")
	// ErrDataUnavailable wraps every repository failure.
	ErrDataUnavailable = errors.New("data unavailable")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkParams validates p; needRange makes Start and End mandatory.
func checkParams(p models.Params, needRange bool) error {
	if needRange && (p.Start.IsZero() || p.End.IsZero()) {
		return fmt.Errorf("%w: start and end are required", ErrInvalidParams)
	}
	if p.Start.IsZero() != p.End.IsZero() {
		return fmt.Errorf("%w: start and end must be given together", ErrInvalidParams)
	}
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, describe(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gtefield":
		return "end must not be before start"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s out of range (%s=%s), got %v", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, what, err)
}
