package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
	"school-service/pkg/jwtutil"
)

// AuthService authenticates users and issues tenant-scoped tokens.
type AuthService struct {
	db  *gorm.DB
	jwt *jwtutil.JWTUtil
}

func NewAuthService(db *gorm.DB, jwt *jwtutil.JWTUtil) *AuthService {
	return &AuthService{db: db, jwt: jwt}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Login verifies the credentials and returns a signed token carrying the
// user's tenant scope. Wrong email and wrong password are indistinguishable
// to the caller.
func (s *AuthService) Login(in LoginInput) (*LoginResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, apperr.Validationf("email and password are required")
	}

	var user model.User
	err := s.db.Where("email = ?", in.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthenticated("invalid email or password")
		}
		return nil, apperr.FromDB(err, "", "failed to log in")
	}
	if !user.IsActive {
		return nil, apperr.Unauthenticated("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	token, err := s.jwt.GenerateToken(user.Email, user.ID, user.AamarID, user.SchoolID, user.BranchID, user.Role)
	if err != nil {
		return nil, apperr.Internalf("failed to sign token").WithDetail("%v", err)
	}

	user.Password = ""
	return &LoginResult{Token: token, User: &user}, nil
}

// Me returns the authenticated user with profile.
func (s *AuthService) Me(t tenant.Context) (*model.User, error) {
	var user model.User
	err := s.db.
		Preload("Profile").
		Where("aamar_id = ? AND id = ?", t.AamarID, t.UserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("user not found")
		}
		return nil, apperr.FromDB(err, "", "failed to fetch user")
	}
	user.Password = ""
	return &user, nil
}
