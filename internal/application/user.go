package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linskybing/scan2cad/internal/api/middleware"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/domain/quotation"
	"github.com/linskybing/scan2cad/internal/domain/user"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("incorrect email or password")
	ErrNotVerified         = errors.New("account not verified")
	ErrAlreadyVerified     = errors.New("account already verified")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrPasswordHashFailure = errors.New("failed to hash password")
)

const resetTokenTTL = time.Hour

type UserService struct {
	Repos  *repository.Repos
	mailer Mailer
	events events.Publisher
}

func NewUserService(repos *repository.Repos, mailer Mailer, publisher events.Publisher) *UserService {
	return &UserService{
		Repos:  repos,
		mailer: mailer,
		events: publisher,
	}
}

func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, input user.RegisterInput) (user.User, error) {
	email := normalizeEmail(input.Email)
	_, err := s.Repos.User.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, err
	}
	if err == nil {
		return user.User{}, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, ErrPasswordHashFailure
	}

	usr := user.User{
		Email:             email,
		Name:              strings.TrimSpace(input.Name),
		Company:           strings.TrimSpace(input.Company),
		Password:          string(hashed),
		Role:              user.RoleUser,
		VerificationToken: newToken(),
	}
	if err := s.Repos.User.Create(&usr); err != nil {
		return user.User{}, err
	}
	if err := s.mailer.SendVerification(ctx, usr.Email, usr.VerificationToken); err != nil {
		slog.Error("send verification failed", "email", usr.Email, "error", err)
	}
	return usr, nil
}

func (s *UserService) Login(input user.LoginInput) (user.LoginResponse, error) {
	usr, err := s.Repos.User.GetByEmail(normalizeEmail(input.Email))
	if err != nil {
		return user.LoginResponse{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Password), []byte(input.Password)); err != nil {
		return user.LoginResponse{}, ErrInvalidCredentials
	}
	if !usr.Verified {
		return user.LoginResponse{}, ErrNotVerified
	}

	ttl := time.Duration(config.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	token, err := middleware.GenerateToken(usr.ID, usr.Email, usr.IsAdmin(), ttl)
	if err != nil {
		return user.LoginResponse{}, err
	}
	return user.LoginResponse{Token: token, User: usr.DTO()}, nil
}

func (s *UserService) VerifyEmail(token string) error {
	usr, err := s.Repos.User.GetByVerificationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if usr.Verified {
		return ErrAlreadyVerified
	}
	usr.Verified = true
	usr.VerificationToken = ""
	return s.Repos.User.Save(&usr)
}

// ForgotPassword issues a reset token. Unknown emails succeed silently so the
// endpoint does not reveal which addresses are registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	usr, err := s.Repos.User.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	expires := time.Now().Add(resetTokenTTL)
	usr.ResetToken = newToken()
	usr.ResetExpiresAt = &expires
	if err := s.Repos.User.Save(&usr); err != nil {
		return err
	}
	if err := s.mailer.SendPasswordReset(ctx, usr.Email, usr.ResetToken); err != nil {
		slog.Error("send password reset failed", "email", usr.Email, "error", err)
	}
	return nil
}

func (s *UserService) ResetPassword(input user.ResetPasswordInput) error {
	usr, err := s.Repos.User.GetByResetToken(input.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if usr.ResetExpiresAt == nil || time.Now().After(*usr.ResetExpiresAt) {
		return ErrInvalidToken
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailure
	}
	usr.Password = string(hashed)
	usr.ResetToken = ""
	usr.ResetExpiresAt = nil
	return s.Repos.User.Save(&usr)
}

func (s *UserService) GetUser(id uint) (user.User, error) {
	usr, err := s.Repos.User.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user.User{}, ErrUserNotFound
	}
	return usr, err
}

func (s *UserService) GetHours(id uint) (user.HoursDTO, error) {
	usr, err := s.GetUser(id)
	if err != nil {
		return user.HoursDTO{}, err
	}
	return user.HoursDTO{UserID: usr.ID, AvailableHours: usr.AvailableHours}, nil
}

// GrantHours credits (or, with a negative value, debits) a user's balance.
func (s *UserService) GrantHours(id uint, hours float64) (user.HoursDTO, error) {
	balance, err := s.Repos.User.AddHours(id, hours)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.HoursDTO{}, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrNegativeBalance) {
			return user.HoursDTO{}, quotation.ErrInsufficientHours
		}
		return user.HoursDTO{}, err
	}
	s.events.Publish(events.Event{Name: quotation.EventUserUpdated}, events.ToUser(id))
	return user.HoursDTO{UserID: id, AvailableHours: balance}, nil
}

// EnsureAdmin creates or promotes the bootstrap admin account.
func (s *UserService) EnsureAdmin(email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	email = normalizeEmail(email)
	usr, err := s.Repos.User.GetByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil {
		if usr.IsAdmin() && usr.Verified {
			return nil
		}
		usr.Role = user.RoleAdmin
		usr.Verified = true
		return s.Repos.User.Save(&usr)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrPasswordHashFailure
	}
	return s.Repos.User.Create(&user.User{
		Email:    email,
		Name:     "Administrator",
		Password: string(hashed),
		Role:     user.RoleAdmin,
		Verified: true,
	})
}

// PurgeExpiredResets invalidates password reset links past their expiry.
func (s *UserService) PurgeExpiredResets(now time.Time) (int64, error) {
	return s.Repos.User.ClearExpiredResets(now)
}
