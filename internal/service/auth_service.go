package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sleepquest/diary-api/internal/dto"
	"github.com/sleepquest/diary-api/internal/models"
	"github.com/sleepquest/diary-api/internal/repository"
	"github.com/sleepquest/diary-api/internal/utils"
)

// Sentinel errors for the login paths.
var (
	ErrInvalidCode        = errors.New("code must be 6 alphanumeric characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// AuthService authenticates participants (anonymous codes) and staff
// (email/password) and issues the session tokens the rest of the API accepts.
type AuthService interface {
	LoginParticipant(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	LoginStaff(ctx context.Context, req dto.StaffLoginRequest) (dto.StaffLoginResponse, error)
}

type authService struct {
	participants repository.ParticipantRepository
	staff        repository.StaffRepository
	validator    *validator.Validate
	secret       string
	tokenTTL     time.Duration
	loc          *time.Location
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(participants repository.ParticipantRepository, staff repository.StaffRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, loc *time.Location, logger zerolog.Logger) AuthService {
	return &authService{
		participants: participants,
		staff:        staff,
		validator:    validate,
		secret:       secret,
		tokenTTL:     tokenTTL,
		loc:          loc,
		logger:       logger.With().Str("component", "auth_service").Logger(),
		now:          time.Now,
	}
}

// NormalizeCode uppercases a participant code; codes are case-insensitive on
// input but stored and compared upper-case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *authService) LoginParticipant(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	// Shape check runs before any store access.
	if !codePattern.MatchString(req.Code) {
		return dto.LoginResponse{}, ErrInvalidCode
	}

	code := NormalizeCode(req.Code)

	// Codes are pre-provisioned when a class is created; unknown codes are
	// rejected instead of auto-creating a participant.
	participant, err := s.participants.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrParticipantNotFound
		}
		return dto.LoginResponse{}, err
	}

	token, err := s.signToken(participant.Code, models.RoleParticipant)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	today := utils.FormatDay(s.now(), s.loc)

	s.logger.Info().Str("code", participant.Code).Msg("participant logged in")

	return dto.LoginResponse{
		Token:             token,
		Code:              participant.Code,
		ClassID:           participant.ClassID,
		Streak:            participant.Streak,
		CompletedDays:     participant.CompletedDays,
		Coins:             participant.Coins,
		LastSubmission:    participant.LastSubmissionDate,
		HasSubmittedToday: !CanSubmitToday(participant, today),
	}, nil
}

func (s *authService) LoginStaff(ctx context.Context, req dto.StaffLoginRequest) (dto.StaffLoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StaffLoginResponse{}, err
	}

	account, err := s.staff.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StaffLoginResponse{}, ErrInvalidCredentials
		}
		return dto.StaffLoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return dto.StaffLoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.signToken(account.ID, account.Role)
	if err != nil {
		return dto.StaffLoginResponse{}, err
	}

	s.logger.Info().Str("staff_id", account.ID).Str("role", account.Role).Msg("staff logged in")

	return dto.StaffLoginResponse{
		Token:       token,
		Role:        account.Role,
		DisplayName: account.DisplayName,
		ClassID:     account.ClassID,
	}, nil
}

func (s *authService) signToken(subject, role string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(s.tokenTTL)),
		"iss":  "sleepquest",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
