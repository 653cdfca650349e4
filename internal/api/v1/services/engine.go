package services

import (
	"context"
	"time"

	"fir-voice/internal/api/v1/dto"
	"fir-voice/internal/app/api/provider"
)

// DefaultHealthTimeout bounds one engine health check
const DefaultHealthTimeout = 5 * time.Second

type engineService struct {
	engine  provider.Engine
	timeout time.Duration
}

// NewEngineService creates a service reporting on engine
func NewEngineService(engine provider.Engine, timeout time.Duration) EngineService {
	if timeout <= 0 {
		timeout = DefaultHealthTimeout
	}
	return &engineService{engine: engine, timeout: timeout}
}

func (s *engineService) Describe() *dto.EngineResponse {
	info := s.engine.Info()
	return &dto.EngineResponse{
		Name:             info.Name,
		Model:            info.Model,
		Reentrant:        info.Reentrant,
		RequiresInternet: info.RequiresInternet,
		Available:        provider.Registered(),
	}
}

func (s *engineService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.engine.HealthCheck(ctx)
}
