// FILE: internal/service/auth_service.go
package service

import (
	"context"

	"petmatch/internal/dto"
	"petmatch/internal/pkg/logger"
	"petmatch/pkg/auth"
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (string, error)
	Register(ctx context.Context, req *dto.LoginRequest) (string, error)
	Logout(ctx context.Context, sessionID string) error
	Session(ctx context.Context, sessionID string) (*auth.Session, error)
}

type authService struct {
	manager *auth.Manager
	logger  logger.ILogger
}

func NewAuthService(manager *auth.Manager, log logger.ILogger) IAuthService {
	return &authService{
		manager: manager,
		logger:  log,
	}
}

// Login returns the id of the new browser session.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (string, error) {
	sessionID, _, err := s.manager.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("AuthService", "Sign-in rejected", map[string]interface{}{
			"email": req.Email,
			"error": err.Error(),
		})
		return "", err
	}
	s.logger.Info("AuthService", "User signed in", map[string]interface{}{
		"email": req.Email,
	})
	return sessionID, nil
}

func (s *authService) Register(ctx context.Context, req *dto.LoginRequest) (string, error) {
	sessionID, _, err := s.manager.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return "", err
	}
	s.logger.Info("AuthService", "User signed up", map[string]interface{}{
		"email": req.Email,
	})
	return sessionID, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.manager.SignOut(ctx, sessionID)
}

func (s *authService) Session(ctx context.Context, sessionID string) (*auth.Session, error) {
	return s.manager.GetSession(ctx, sessionID)
}
