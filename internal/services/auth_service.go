package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/agamariel/annetom/internal/auth"
	"github.com/agamariel/annetom/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or pin")
)

// AuthService определяет вход оператора кассы.
type AuthService interface {
	Login(ctx context.Context, name, pin string) (string, error)
}

// AuthServiceImpl реализует AuthService. Учётные записи операторов
// живут в документе настроек под ключом operators.
type AuthServiceImpl struct {
	settings        SettingsService
	jwtSecret       string
	tokenExpiration time.Duration
	logger          *log.Logger
}

// NewAuthService создаёт новый сервис входа операторов.
func NewAuthService(settings SettingsService, jwtSecret string, tokenExpiration time.Duration, logger *log.Logger) *AuthServiceImpl {
	if logger == nil {
		logger = log.Default()
	}
	return &AuthServiceImpl{
		settings:        settings,
		jwtSecret:       jwtSecret,
		tokenExpiration: tokenExpiration,
		logger:          logger,
	}
}

// Login сверяет имя и PIN оператора и выдаёт JWT токен.
func (s *AuthServiceImpl) Login(ctx context.Context, name, pin string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || pin == "" {
		return "", ErrInvalidCredentials
	}

	operator, err := s.findOperator(ctx, name)
	if err != nil {
		return "", err
	}
	if !auth.CheckPIN(pin, operator.PINHash) {
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(operator, s.jwtSecret, s.tokenExpiration)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}

// findOperator ищет оператора по имени без учёта регистра.
func (s *AuthServiceImpl) findOperator(ctx context.Context, name string) (*models.Operator, error) {
	settings := s.settings.GetSettings(ctx)
	entries, ok := settings["operators"].([]any)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	for _, e := range entries {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if !strings.EqualFold(cast.ToString(m["name"]), name) {
			continue
		}
		return &models.Operator{
			ID:      cast.ToString(m["id"]),
			Name:    cast.ToString(m["name"]),
			PINHash: cast.ToString(m["pinHash"]),
		}, nil
	}
	return nil, ErrInvalidCredentials
}
