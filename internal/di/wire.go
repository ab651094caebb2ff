//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"github.com/sandeepkv93/statuspage-service/internal/app"
	"github.com/sandeepkv93/statuspage-service/internal/config"
	"github.com/sandeepkv93/statuspage-service/internal/database"
	"github.com/sandeepkv93/statuspage-service/internal/http/handler"
	"github.com/sandeepkv93/statuspage-service/internal/http/router"
	"github.com/sandeepkv93/statuspage-service/internal/repository"
	"github.com/sandeepkv93/statuspage-service/internal/service"
)

var repositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewSessionRepository,
	repository.NewPageRepository,
	repository.NewTeamMemberRepository,
	repository.NewComponentRepository,
	repository.NewComponentGroupRepository,
	repository.NewIncidentRepository,
	repository.NewSubscriberRepository,
)

var serviceSet = wire.NewSet(
	provideClock,
	provideSubdomainCache,
	provideSubdomainResolver,
	provideSessionService,
	service.NewAuthService,
	service.NewPageService,
	service.NewComponentService,
	service.NewIncidentService,
	service.NewStatusService,
	provideConfirmationSender,
	provideSubscriberService,
)

var httpSet = wire.NewSet(
	provideCookieOptions,
	handler.NewViews,
	handler.NewAuthHandler,
	handler.NewPageHandler,
	handler.NewComponentHandler,
	handler.NewIncidentHandler,
	handler.NewPublicHandler,
	handler.NewWebHandler,
	provideReadiness,
	provideRouterDependencies,
	router.NewRouter,
	provideHTTPServer,
)

func InitializeApp(ctx context.Context, cfg *config.Config) (*app.App, error) {
	wire.Build(
		provideLogging,
		provideLogger,
		provideRuntime,
		database.Open,
		database.NewRedisClient,
		repositorySet,
		serviceSet,
		httpSet,
		provideBackgroundTasks,
		app.New,
	)
	return nil, nil
}

func InitializeMaintenance(ctx context.Context, cfg *config.Config) (*Maintenance, error) {
	wire.Build(
		provideLogging,
		provideLogger,
		database.Open,
		provideClock,
		repository.NewUserRepository,
		repository.NewSessionRepository,
		provideSessionService,
		provideMaintenance,
	)
	return nil, nil
}
