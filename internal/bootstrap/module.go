package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"jobtrust/internal/bootstrap/config"
	"jobtrust/internal/bootstrap/database"
	"jobtrust/internal/bootstrap/logging"
	"jobtrust/internal/errs"
	sqliterepo "jobtrust/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "jobtrust/internal/infrastructure/persistence/sqlite/uow"
	"jobtrust/internal/policy"
	"jobtrust/internal/ports"
	"jobtrust/internal/usecase/normalization"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(providePipelineConfig),
	fx.Provide(provideDatabase),
	fx.Provide(providePolicies),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewJobRepository,
			fx.As(new(ports.JobRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewNormalizedJobRepository,
			fx.As(new(ports.NormalizedJobRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewEmployerRepository,
			fx.As(new(ports.EmployerRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewReportRepository,
			fx.As(new(ports.ReportRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewTaxonomyRepository,
			fx.As(new(ports.TaxonomyRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(normalization.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func providePipelineConfig(cfg config.Config) config.PipelineConfig {
	return cfg.Pipeline
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func providePolicies(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*policy.Store, error) {
	store, err := policy.NewStore(cfg.Pipeline.PolicyFile)
	if err != nil {
		return nil, errs.Wrap(err, "load policy file")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return store.Watch(watchCtx)
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})

	return store, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}
