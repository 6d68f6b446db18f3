package service

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// emailRegex is deliberately loose: anything@anything.anything.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// PersonInput is the identity + profile payload shared by every role that
// wraps a User (teacher, student, parent, staff).
type PersonInput struct {
	FirstName          string
	LastName           string
	Email              string
	Password           string
	Phone              *string
	Address            *string
	DateOfBirth        *time.Time
	Gender             *string
	BloodGroup         *string
	Nationality        *string
	Religion           *string
	BirthCertificateNo *string
}

func (in *PersonInput) validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" {
		return apperr.Validationf("first name and last name are required")
	}
	if !emailRegex.MatchString(in.Email) {
		return apperr.Validationf("invalid email address")
	}
	if in.Gender != nil {
		switch strings.ToLower(*in.Gender) {
		case "male", "female", "other":
		default:
			return apperr.Validationf("invalid gender value")
		}
	}
	return nil
}

// createUserWithProfile inserts the identity and profile rows inside the
// caller's transaction. The email uniqueness pre-check is global, matching
// the unique index; a concurrent insert racing past the check is caught by
// the index and translated to the same conflict by apperr.FromDB upstream.
func createUserWithProfile(tx *gorm.DB, t tenant.Context, role string, in PersonInput) (*model.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var count int64
	if err := tx.Model(&model.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "email already in use", "failed to create user")
	}
	if count > 0 {
		return nil, apperr.Conflictf("email already in use").
			WithDetail("an account with %s already exists", in.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internalf("failed to create user")
	}

	user := model.User{
		AamarID:   t.AamarID,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		IsActive:  true,
		SchoolID:  t.SchoolID,
		BranchID:  t.BranchID,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, apperr.FromDB(err, "email already in use", "failed to create user")
	}

	profile := model.Profile{
		UserID:             user.ID,
		Phone:              in.Phone,
		Address:            in.Address,
		DateOfBirth:        in.DateOfBirth,
		Gender:             in.Gender,
		BloodGroup:         in.BloodGroup,
		Nationality:        in.Nationality,
		Religion:           in.Religion,
		BirthCertificateNo: in.BirthCertificateNo,
	}
	if err := tx.Create(&profile).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create user profile")
	}
	user.Profile = &profile
	return &user, nil
}

// profileUpdates builds the full column map for a profile update. Every
// nullable field is written, so an omitted field clears the column instead of
// leaving the old value behind.
func profileUpdates(in PersonInput) map[string]interface{} {
	return map[string]interface{}{
		"phone":                in.Phone,
		"address":              in.Address,
		"date_of_birth":        in.DateOfBirth,
		"gender":               in.Gender,
		"blood_group":          in.BloodGroup,
		"nationality":          in.Nationality,
		"religion":             in.Religion,
		"birth_certificate_no": in.BirthCertificateNo,
	}
}

// updateUserIdentity overwrites the required identity fields and rewrites the
// full profile column set on a user row.
func updateUserIdentity(tx *gorm.DB, userID uint, in PersonInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	var count int64
	if err := tx.Model(&model.User{}).
		Where("email = ? AND id <> ?", in.Email, userID).
		Count(&count).Error; err != nil {
		return apperr.FromDB(err, "", "failed to update user")
	}
	if count > 0 {
		return apperr.Conflictf("email already in use")
	}

	updates := map[string]interface{}{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"email":      in.Email,
	}
	if err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return apperr.FromDB(err, "email already in use", "failed to update user")
	}
	if err := tx.Model(&model.Profile{}).Where("user_id = ?", userID).
		Updates(profileUpdates(in)).Error; err != nil {
		return apperr.FromDB(err, "", "failed to update profile")
	}
	return nil
}
