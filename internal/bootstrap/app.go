package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/assessments"
	googleauth "github.com/gerando-falcoes/decolagem-webapp-sub001/internal/auth"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dashboard"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/dignometro"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/documents"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/families"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/goals"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/mentors"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/services/health"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/config"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/server"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/db"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object"
	localstore "github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object/local"
	s3store "github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/storage/object/s3"
	"github.com/gerando-falcoes/decolagem-webapp-sub001/internal/shared/telemetry"
)

// App holds the wired dependencies of the API.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.ObjectStore
	GoalTable   *dignometro.GoalTable
	Mentors     *mentors.Service
	Families    *families.Service
	Documents   *documents.Service
	Assessments *assessments.Service
	Goals       *goals.Service
	Dashboard   *dashboard.Service
	GoogleLogin *googleauth.GoogleLogin
}

// Build connects storage, runs migrations and wires services and routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	table, err := dignometro.LoadGoalTable(cfg.GoalTablePath)
	if err != nil {
		return nil, err
	}

	// Opened last so no earlier failure leaves a pool behind.
	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		GoalTable: table,
	}
	buildServices(app)

	healthSvc := health.NewService(nil)
	if sqlDB != nil {
		healthSvc = health.NewService(sqlDB)
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: healthSvc,
		Handlers: []server.RouteRegistrar{
			app.GoogleLogin,
			mentors.NewHandler(app.Mentors),
			families.NewHandler(app.Families),
			documents.NewHandler(app.Documents),
			assessments.NewHandler(app.Assessments),
			goals.NewHandler(app.Goals),
			dashboard.NewHandler(app.Dashboard),
		},
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required in %s", cfg.Env)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var (
		mentorRepo     mentors.Repo
		familyRepo     families.Repo
		documentRepo   documents.Repo
		assessmentRepo assessments.Repo
		goalRepo       goals.Repo
	)
	if app.DB != nil {
		mentorRepo = &mentors.PGRepo{DB: app.DB}
		familyRepo = &families.PGRepo{DB: app.DB}
		documentRepo = &documents.PGRepo{DB: app.DB}
		assessmentRepo = &assessments.PGRepo{DB: app.DB}
		goalRepo = &goals.PGRepo{DB: app.DB}
	} else {
		mentorRepo = mentors.NewMemoryRepo()
		familyRepo = families.NewMemoryRepo()
		documentRepo = documents.NewMemoryRepo()
		assessmentRepo = assessments.NewMemoryRepo()
		goalRepo = goals.NewMemoryRepo()
	}

	app.Mentors = mentors.NewService(mentorRepo)
	app.Families = families.NewService(familyRepo)
	app.Documents = documents.NewService(app.Store, documentRepo, app.Families, app.Config.ObjectStoreType)
	app.Assessments = assessments.NewService(assessmentRepo, app.Families, dignometro.NewEvaluator(app.GoalTable), app.Store)
	app.Goals = goals.NewService(goalRepo, app.Families, answerAdapter{svc: app.Assessments}, app.GoalTable)
	app.Dashboard = dashboard.NewService(app.Families, app.Assessments, app.Goals)
	app.GoogleLogin = googleauth.NewGoogleLogin(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.Mentors,
	)
}

// answerAdapter lets the goals service read the latest answers without
// depending on assessment errors.
type answerAdapter struct {
	svc *assessments.Service
}

func (a answerAdapter) LatestAnswers(ctx context.Context, mentorID, familyID string) (dignometro.AnswerSet, error) {
	answers, err := a.svc.LatestAnswers(ctx, mentorID, familyID)
	if errors.Is(err, assessments.ErrNotFound) {
		return nil, goals.ErrNoAssessment
	}
	return answers, err
}
