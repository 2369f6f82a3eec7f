package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-wizard/internal/config"
	"github.com/jonathan/resume-wizard/internal/db"
	"github.com/jonathan/resume-wizard/internal/llm"
	"github.com/jonathan/resume-wizard/internal/server/middleware"
	"github.com/jonathan/resume-wizard/internal/server/ratelimit"
	"github.com/jonathan/resume-wizard/internal/types"
)

// UserStore is the account storage the handlers depend on.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update types.PersonalInfoUpdate) (*db.User, error)
	GetKnowledgeGraph(ctx context.Context, userID uuid.UUID) (*types.KnowledgeGraphAdd, error)
	AddKnowledgeGraph(ctx context.Context, userID uuid.UUID, add types.KnowledgeGraphAdd) (*types.KnowledgeGraphAdd, error)
}

// SessionStore is the session storage the handlers depend on.
type SessionStore interface {
	CreateSession(ctx context.Context, userID uuid.UUID) (*db.Session, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*db.Session, error)
	GetLatestSession(ctx context.Context, userID uuid.UUID) (*db.Session, error)
	SaveSnapshot(ctx context.Context, sessionID, userID uuid.UUID, snapshot any) error
	UpdateSnapshotFields(ctx context.Context, sessionID, userID uuid.UUID, fields map[string]any) (*db.Session, error)
}

// AIService runs the wizard's model-backed operations.
type AIService interface {
	AnalyzeJob(ctx context.Context, req types.AnalyzeRequest) (*types.AnalyzeResult, error)
	CompareSkills(ctx context.Context, requirements []types.RequirementField, profile any) (*types.CompareResult, error)
	GenerateQuestions(ctx context.Context, missing []types.RequirementField) ([]types.APIQuestion, error)
	Optimize(ctx context.Context, profile, targetJob, answers any) (*llm.OptimizedProfile, *types.OptimizeResult, error)
	ParseText(ctx context.Context, text string) (*types.ParseTextResult, error)
}

// Server is the wizard API server.
type Server struct {
	httpServer    *http.Server
	store         *db.Store
	users         UserStore
	sessions      SessionStore
	ai            AIService
	jwt           *JWTService
	password      *config.PasswordConfig
	validate      *validator.Validate
	limiter       *ratelimit.Limiter
	logger        *zap.Logger
	allowedOrigin string
}

// New wires the server from configuration: database, auth services, and the
// Gemini analyst when an API key is present.
func New(ctx context.Context, cfg *config.ServerConfig, logger *zap.Logger) (*Server, error) {
	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting store: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	passwordCfg, err := config.NewPasswordConfig()
	if err != nil {
		store.Close()
		return nil, err
	}
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		store.Close()
		return nil, err
	}

	var ai AIService
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			store.Close()
			return nil, err
		}
		ai = llm.NewAnalyst(client)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI endpoints disabled")
	}

	s := newServer(store, store, ai, NewJWTService(jwtCfg), passwordCfg, logger, cfg.AllowedOrigin)
	s.store = store
	s.limiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// newServer builds a Server around explicit dependencies. Tests use it with
// fakes instead of a live database.
func newServer(users UserStore, sessions SessionStore, ai AIService, jwt *JWTService, password *config.PasswordConfig, logger *zap.Logger, allowedOrigin string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		users:         users,
		sessions:      sessions,
		ai:            ai,
		jwt:           jwt,
		password:      password,
		validate:      validator.New(),
		logger:        logger,
		allowedOrigin: allowedOrigin,
	}
}

// routes builds the API router. All endpoints live under /api/v1.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	auth := middleware.Auth(s.jwt.AsTokenValidator())

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", s.handleLogout)
	mux.Handle("GET /api/v1/auth/me", auth(http.HandlerFunc(s.handleMe)))

	mux.Handle("POST /api/v1/sessions/new", auth(http.HandlerFunc(s.handleCreateSession)))
	mux.Handle("PUT /api/v1/sessions", auth(http.HandlerFunc(s.handleUpdateSession)))
	mux.Handle("GET /api/v1/sessions/{id}/resume-data", auth(http.HandlerFunc(s.handleResumeData)))

	mux.Handle("PUT /api/v1/users", auth(http.HandlerFunc(s.handleUpdateProfile)))
	mux.Handle("POST /api/v1/users/knowledge-graph/add", auth(http.HandlerFunc(s.handleAddKnowledgeGraph)))

	mux.Handle("POST /api/v1/ai/analyze", auth(http.HandlerFunc(s.handleAnalyze)))
	mux.Handle("POST /api/v1/ai/compare", auth(http.HandlerFunc(s.handleCompare)))
	mux.Handle("POST /api/v1/ai/generate-questionnaire", auth(http.HandlerFunc(s.handleGenerateQuestionnaire)))
	mux.Handle("POST /api/v1/ai/answer-question", auth(http.HandlerFunc(s.handleAnswerQuestions)))
	mux.Handle("POST /api/v1/ai/optimize", auth(http.HandlerFunc(s.handleOptimize)))
	mux.Handle("POST /api/v1/ai/parse-text", auth(http.HandlerFunc(s.handleParseText)))

	return mux
}

// Start listens until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-stop:
	}
	s.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.store != nil {
		s.store.Close()
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := s.limiter.Allow(clientID(r))
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}
		if !info.Allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
			}
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// fail writes err using its mapped status code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// decodeBody reads a JSON request body into dst.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}
