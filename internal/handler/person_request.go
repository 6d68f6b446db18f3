package handler

import (
	"time"

	"school-service/internal/apperr"
	"school-service/internal/service"
)

const dateLayout = "2006-01-02"

// personRequest is the shared identity+profile block of teacher, student,
// parent and staff payloads. Dates travel as YYYY-MM-DD strings.
type personRequest struct {
	FirstName          string  `json:"first_name" validate:"required"`
	LastName           string  `json:"last_name" validate:"required"`
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password"`
	Phone              *string `json:"phone"`
	Address            *string `json:"address"`
	DateOfBirth        *string `json:"date_of_birth"`
	Gender             *string `json:"gender"`
	BloodGroup         *string `json:"blood_group"`
	Nationality        *string `json:"nationality"`
	Religion           *string `json:"religion"`
	BirthCertificateNo *string `json:"birth_certificate_no"`
}

func (r personRequest) toInput() (service.PersonInput, error) {
	in := service.PersonInput{
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Password:           r.Password,
		Phone:              r.Phone,
		Address:            r.Address,
		Gender:             r.Gender,
		BloodGroup:         r.BloodGroup,
		Nationality:        r.Nationality,
		Religion:           r.Religion,
		BirthCertificateNo: r.BirthCertificateNo,
	}
	dob, err := parseDate(r.DateOfBirth)
	if err != nil {
		return in, err
	}
	in.DateOfBirth = dob
	return in, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, apperr.Validationf("dates must be in YYYY-MM-DD format")
	}
	return &parsed, nil
}
