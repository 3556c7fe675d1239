package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	openai "github.com/sashabaranov/go-openai"

	"tweet-summarizer-backend/internal/chat"
	"tweet-summarizer-backend/internal/config"
	"tweet-summarizer-backend/internal/db"
	"tweet-summarizer-backend/internal/store"
	"tweet-summarizer-backend/internal/summarizer"
	"tweet-summarizer-backend/internal/types"
	"tweet-summarizer-backend/migrations"
)

const queryLogTimeout = 5 * time.Second

type Server struct {
	router   *chi.Mux
	sessions *store.MemoryStore
	gen      chat.Generator
	queryLog store.QueryLog
	database *db.DB
	cfg      config.Config
}

// NewServer wires the summarizer, query log and session registry from cfg.
func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	tmpl, err := summarizer.LoadTemplate(cfg.SummaryTemplateFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary template: %w", err)
	}

	var gen chat.Generator
	if cfg.Summarizer == config.SummarizerOpenAI {
		oCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			oCfg.BaseURL = cfg.OpenAIBaseURL
		}
		gen = summarizer.NewOpenAI(openai.NewClientWithConfig(oCfg), cfg.Model, tmpl)
		log.Printf("[server] using openai summarizer (model %s)", cfg.Model)
	} else {
		gen = summarizer.NewMock(tmpl, cfg.SummaryDelay)
		log.Printf("[server] using mock summarizer (delay %s)", cfg.SummaryDelay)
	}

	var database *db.DB
	var queryLog store.QueryLog = store.NopQueryLog{}
	switch {
	case cfg.DatabaseURL != "":
		database, err = db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		log.Println("[server] database connection established")
		if cfg.RunMigrations {
			if err := database.RunMigrations(ctx, migrations.FS); err != nil {
				database.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Println("[server] database migrations completed")
		}
		queryLog = store.NewDatabaseStore(database)
	case cfg.QueryLogFile != "":
		log.Printf("[server] DB_URL not provided, logging queries to %s", cfg.QueryLogFile)
		queryLog = store.NewFileQueryLog(cfg.QueryLogFile)
	default:
		log.Println("[server] query log disabled")
	}

	return newServer(cfg, gen, queryLog, database), nil
}

func newServer(cfg config.Config, gen chat.Generator, queryLog store.QueryLog, database *db.DB) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With", SessionHeader},
		ExposedHeaders:   []string{SessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s := &Server{
		router:   r,
		gen:      gen,
		queryLog: queryLog,
		database: database,
		cfg:      cfg,
	}
	s.sessions = store.NewMemoryStore(s.newChatStore)
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/login", s.handleLogin)
	s.router.Post("/api/logout", s.handleLogout)

	s.router.Route("/api/chats", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleListChats)
		r.Post("/", s.handleCreateChat)
		r.Delete("/", s.handleClearChats)
		r.Get("/active", s.handleActiveChat)
		r.Post("/messages", s.handleSubmit)
		r.Post("/{id}/select", s.handleSelectChat)
		r.Delete("/{id}", s.handleDeleteChat)
	})
}

func (s *Server) Router() http.Handler { return s.router }

// Close releases the database connection, if any.
func (s *Server) Close() error {
	if s.database != nil {
		return s.database.Close()
	}
	return nil
}

// RunJanitor drops idle sessions until ctx is done.
func (s *Server) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.CleanupIdle(s.cfg.SessionIdleTimeout); n > 0 {
				log.Printf("[session] dropped %d idle session(s)", n)
			}
		}
	}
}

func (s *Server) newChatStore(sessionID string) *chat.Store {
	opts := []chat.Option{
		chat.WithCompletionHook(func(c chat.Completion) { s.recordQuery(sessionID, c) }),
	}
	if s.cfg.SeedDemoHistory {
		opts = append(opts, chat.WithSeed(chat.DemoHistory()))
	}
	return chat.NewStore(s.gen, opts...)
}

func (s *Server) recordQuery(sessionID string, c chat.Completion) {
	rec := store.QueryRecord{
		SessionID:      sessionID,
		ConversationID: c.ConversationID,
		Query:          c.Query,
		Kind:           string(summarizer.ClassifyQuery(c.Query)),
		Summary:        c.Summary,
		StartedAt:      c.StartedAt,
		FinishedAt:     c.FinishedAt,
	}
	if c.Err != nil {
		rec.Error = c.Err.Error()
		log.Printf("[chat] summary failed for session %s: %v", sessionID, c.Err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), queryLogTimeout)
	defer cancel()
	if err := s.queryLog.Record(ctx, rec); err != nil {
		log.Printf("[querylog] record failed: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok", "sessions": s.sessions.Len()}
	code := http.StatusOK
	if s.database != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.database.HealthCheck(ctx); err != nil {
			log.Printf("[health] database ping failed: %v", err)
			resp["status"] = "degraded"
			resp["database"] = "unreachable"
			code = http.StatusServiceUnavailable
		} else {
			resp["database"] = "ok"
		}
	}
	s.writeJSON(w, code, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}
