package authflow

import (
	"errors"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const dateOfBirthLayout = "2006-01-02"

var namePattern = regexp.MustCompile(`^[a-zA-Z\s\-]+$`)

type loginPayload struct {
	Email string
}

// Validate only requires presence; email format is the caller's concern for
// the code-request step, the remote service decides whether it knows the
// address.
func (r loginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
	)
}

type verifyPayload struct {
	OTP string
}

func (r verifyPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OTP, validation.Required),
	)
}

// Validate mirrors the service-side signup rules so obvious rejects never
// cost a network round trip.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Name,
			validation.Required,
			validation.Length(2, 200),
			validation.Match(namePattern).Error("name can only contain letters, spaces and hyphens"),
		),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(
			&r.DateOfBirth,
			validation.Required,
			validation.Date(dateOfBirthLayout),
			validation.By(validateAdultBirthDate),
		),
	)
}

func validateAdultBirthDate(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}

	birth, err := time.Parse(dateOfBirthLayout, raw)
	if err != nil {
		// The Date rule reports format problems.
		return nil
	}

	today := time.Now()
	if birth.After(today) {
		return errors.New("birth date cannot be in the future")
	}

	age := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		age--
	}
	if age < 18 {
		return errors.New("user must be at least 18 years old")
	}

	return nil
}
