//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"fir-voice/internal/app/pipeline"
	"fir-voice/internal/config"
)

// InitializeApp assembles the HTTP service
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(PipelineSet, ProvideServer, wire.Struct(new(App), "*"))
	return &App{}, nil, nil
}

// InitializeOrchestrator assembles only the pipeline, for one-shot CLI use
func InitializeOrchestrator(cfg *config.Config) (*pipeline.Orchestrator, func(), error) {
	wire.Build(PipelineSet)
	return &pipeline.Orchestrator{}, nil, nil
}
