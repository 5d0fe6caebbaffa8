package server

import (
	"context"
	"database/sql"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/analysis"
	googleauth "github.com/PrajwalKusha/Resume-Rewriter-AI/internal/auth"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/jobs"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm/gemini"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/llm/openai"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/resumes"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/config"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/metrics"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/server/middleware"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/server/respond"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/db"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/object"
	localstore "github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/object/local"
	s3store "github.com/PrajwalKusha/Resume-Rewriter-AI/internal/shared/storage/object/s3"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/usage"
	"github.com/PrajwalKusha/Resume-Rewriter-AI/internal/users"
)

const analyzeRateGroup = "ANALYZE"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				analyzeRateGroup: {Rate: 0.5, Burst: 5},
			},
			GroupFor: analyzeGroupFor,
		}),
	)

	// Dependencies
	var localStore *localstore.Store
	var store object.ObjectStore
	var presigner object.Presigner
	if cfg.ObjectStoreType == "s3" {
		s3Store, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Fatalf("failed to initialize S3 store: %v", err)
		}
		store, presigner = s3Store, s3Store
	} else {
		localStore = localstore.New(cfg.LocalStoreDir)
		store, presigner = localStore, localStore
	}

	llmClient := newLLMClient(cfg)

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var usageSvc *usage.Service
	if sqlDB != nil {
		usageSvc = usage.NewPostgresService(usage.NewPGStore(sqlDB))
	} else {
		usageSvc = usage.NewService()
	}
	usageHandler := usage.NewHandler(usageSvc)

	var analysisRepo analysis.Repo
	if sqlDB != nil {
		analysisRepo = &analysis.PGRepo{DB: sqlDB}
	} else {
		analysisRepo = analysis.NewMemoryRepo()
	}
	analysisSvc := &analysis.Service{Repo: analysisRepo, Store: store}

	var jobRepo jobs.Repo
	if sqlDB != nil {
		jobRepo = &jobs.PGRepo{DB: sqlDB}
	} else {
		jobRepo = jobs.NewMemoryRepo()
	}
	jobSvc := &jobs.Service{Repo: jobRepo, LLM: llmClient, Analyses: analysisSvc, Usage: usageSvc}
	jobHandler := jobs.NewHandler(jobSvc)

	var resumeRepo resumes.Repo
	if sqlDB != nil {
		resumeRepo = &resumes.PGRepo{DB: sqlDB}
	} else {
		resumeRepo = resumes.NewMemoryRepo()
	}
	resumeSvc := &resumes.Service{
		Repo:      resumeRepo,
		Store:     store,
		Presigner: presigner,
		LLM:       llmClient,
		Analyses:  analysisSvc,
		Usage:     usageSvc,
	}
	resumeHandler := resumes.NewHandler(resumeSvc)

	var userRepo users.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
	}
	userSvc := &users.Service{Repo: userRepo, Jobs: jobSvc, Resumes: resumeSvc, Usage: usageSvc}
	userHandler := users.NewHandler(userSvc)

	googleAuthSvc := googleauth.NewGoogleService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL, userSvc)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	googleAuthSvc.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	jobHandler.RegisterRoutes(api)
	resumeHandler.RegisterRoutes(api)
	usageHandler.RegisterRoutes(api)
	if cfg.Env != "production" {
		api.GET("/metrics", metrics.Handler())
		if localStore != nil {
			registerDevFileRoutes(api, localStore)
		}
	}

	return r
}

// newLLMClient builds the configured provider, falling back to the
// placeholder so the API still serves requests without credentials.
func newLLMClient(cfg config.Config) llm.Client {
	switch cfg.LLMProvider {
	case "openai":
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			log.Printf("openai client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	case "gemini":
		client, err := gemini.NewClient(context.Background(), os.Getenv("GEMINI_API_KEY"), cfg.LLMModel)
		if err != nil {
			log.Printf("gemini client unavailable: %v", err)
			return llm.PlaceholderClient{}
		}
		return client
	default:
		return llm.PlaceholderClient{}
	}
}

// analyzeGroupFor throttles only the endpoints that trigger provider calls.
func analyzeGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	path := c.Request.URL.Path
	if path == "/api/v1/jobs" || path == "/api/v1/resumes" || strings.HasSuffix(path, "/analyze") {
		return analyzeRateGroup
	}
	return ""
}

// registerDevFileRoutes serves locally stored blobs; this is the target of
// the local presigner's dev URLs.
func registerDevFileRoutes(rg *gin.RouterGroup, store *localstore.Store) {
	rg.GET("/dev/files/*key", func(c *gin.Context) {
		raw := strings.TrimPrefix(c.Param("key"), "/")
		key, err := url.PathUnescape(raw)
		if err != nil || key == "" {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid file key", nil)
			return
		}

		f, err := store.Open(c.Request.Context(), key)
		if err != nil {
			respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
			return
		}
		defer f.Close()

		if name := c.Query("download"); name != "" {
			c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		}
		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, f); err != nil {
			// Client went away mid-stream; nothing to recover.
			_ = err
		}
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
