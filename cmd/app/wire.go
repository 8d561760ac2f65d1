//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/mwalkowski/travel-notes/internal/bootstrap"
	"github.com/mwalkowski/travel-notes/internal/domain/attractions"
	"github.com/mwalkowski/travel-notes/internal/domain/identity"
	"github.com/mwalkowski/travel-notes/internal/infra/config"
	"github.com/mwalkowski/travel-notes/internal/infra/images/pexels"
	"github.com/mwalkowski/travel-notes/internal/infra/llm/chatgpt"
	httpiface "github.com/mwalkowski/travel-notes/internal/interface/http"
	"github.com/mwalkowski/travel-notes/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAttractionsConfig,
		provideIdentityConfig,
		provideChatGPTClient,
		providePexelsClient,
		provideFlagProvider,
		providePostgresPool,
		provideNoteStore,
		provideAttractionStore,
		provideSuggestionCache,
		provideOwnershipCache,
		attractions.NewService,
		identity.NewService,
		wire.Bind(new(attractions.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(attractions.ImageFinder), new(*pexels.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
