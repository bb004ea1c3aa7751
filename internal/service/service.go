package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-forecaster/internal/calendar"
	"github.com/Dan9191/cashflow-forecaster/internal/config"
	"github.com/Dan9191/cashflow-forecaster/internal/models"
	"github.com/Dan9191/cashflow-forecaster/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned for any failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidInput marks registration input problems
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the data the service reads and writes
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	LoadSnapshot(ctx context.Context, userID int64) (*models.Snapshot, error)
}

// Service handles business logic
type Service struct {
	repo   Store
	log    *logrus.Logger
	config *config.Config
	now    func() time.Time
}

// NewService initializes a new service
func NewService(repo Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg, now: time.Now}
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hashedPassword),
		AlertsOn:     true,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithError(err).Error("Failed to look up user")
		}
		return "", ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	// Generate JWT
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// Projection builds the balance calendar for the next days days (0 means the configured default)
func (s *Service) Projection(ctx context.Context, userID int64, days int) (*calendar.Projection, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	return s.project(snap, days)
}

// Scenario tests a hypothetical expense against the user's projection
// When days is 0 the window grows to reach the scenario date, up to the configured maximum.
func (s *Service) Scenario(ctx context.Context, userID int64, days int, h calendar.Hypothetical) (*calendar.ScenarioOutcome, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	if days == 0 && !h.Date.IsZero() {
		_, timezone, _ := s.settings(snap.Settings)
		days = s.config.ProjectionDays
		if need := calendar.TodayIn(s.now(), timezone).DaysUntil(h.Date) + 1; need > days {
			days = min(need, s.config.MaxProjectionDays)
		}
	}
	p, err := s.project(snap, days)
	if err != nil {
		return nil, err
	}
	outcome, err := p.ApplyScenario(h)
	if err != nil {
		return nil, err
	}
	outcome.ID = uuid.NewString()

	s.log.WithFields(logrus.Fields{
		"user_id":     userID,
		"scenario_id": outcome.ID,
		"amount":      h.Amount,
		"date":        h.Date.String(),
		"frequency":   h.Frequency.String(),
		"can_afford":  outcome.Result.CanAfford,
	}).Info("Scenario evaluated")
	return outcome, nil
}

// Summary returns monthly-equivalent income and bill totals
func (s *Service) Summary(ctx context.Context, userID int64) (models.MonthlySummary, error) {
	snap, err := s.repo.LoadSnapshot(ctx, userID)
	if err != nil {
		return models.MonthlySummary{}, fmt.Errorf("failed to load records: %w", err)
	}
	_, _, currency := s.settings(snap.Settings)
	return calendar.Summarize(snap.Bills, snap.Income, currency), nil
}

// ProjectSnapshot runs a projection over already-loaded records
func (s *Service) ProjectSnapshot(snap *models.Snapshot, days int) (*calendar.Projection, error) {
	return s.project(snap, days)
}

func (s *Service) project(snap *models.Snapshot, days int) (*calendar.Projection, error) {
	if days == 0 {
		days = s.config.ProjectionDays
	}
	if days < 1 || days > s.config.MaxProjectionDays {
		return nil, &calendar.ValidationError{
			Field:  "days",
			Reason: fmt.Sprintf("must be between 1 and %d", s.config.MaxProjectionDays),
		}
	}

	buffer, timezone, currency := s.settings(snap.Settings)
	start := time.Now()
	p, err := calendar.Project(calendar.Input{
		Records: calendar.Records{
			Accounts:  snap.Accounts,
			Bills:     snap.Bills,
			Income:    snap.Income,
			Transfers: snap.Transfers,
			Invoices:  snap.Invoices,
		},
		Today:        calendar.TodayIn(s.now(), timezone),
		Days:         days,
		SafetyBuffer: buffer,
		Currency:     currency,
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id":        snap.UserID,
		"days":           days,
		"accounts":       len(snap.Accounts),
		"lowest_balance": p.LowestBalance.String(),
		"elapsed":        time.Since(start).String(),
	}).Debug("Projection computed")
	return p, nil
}

// settings fills unset user preferences from the configured defaults
func (s *Service) settings(in models.SafetySettings) (models.Money, string, string) {
	buffer := s.config.DefaultSafetyBuffer
	if in.SafetyBuffer != nil && *in.SafetyBuffer >= 0 {
		buffer = *in.SafetyBuffer
	}
	timezone := s.config.DefaultTimezone
	if in.Timezone != "" {
		if _, err := time.LoadLocation(in.Timezone); err == nil {
			timezone = in.Timezone
		} else {
			s.log.Warnf("Ignoring unknown timezone %q", in.Timezone)
		}
	}
	currency := s.config.DefaultCurrency
	if in.Currency != "" {
		currency = strings.ToUpper(in.Currency)
	}
	return buffer, timezone, currency
}
