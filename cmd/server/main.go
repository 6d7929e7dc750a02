package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/MADrickx/Layma/internal/asset"
	"github.com/MADrickx/Layma/internal/auth"
	"github.com/MADrickx/Layma/internal/config"
	"github.com/MADrickx/Layma/internal/db"
	"github.com/MADrickx/Layma/internal/document"
	mw "github.com/MADrickx/Layma/internal/middleware"
	"github.com/MADrickx/Layma/internal/session"
	"github.com/MADrickx/Layma/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	authService := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	hub := session.NewHub(document.NewSampleDocument, cfg.GridSizeMm, cfg.SnapToGrid)
	go hub.Run()

	// Uploads tagged with a session id stage the image for that
	// session's next image-tool placement.
	assetHandler := asset.NewHandler(cfg.AssetDir, func(sessionID, source string, width, height int) {
		if s, ok := hub.Session(sessionID); ok {
			s.Editor().SetPendingImage(source, width, height)
		}
	})

	r := mux.NewRouter()

	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS)

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Asset endpoints (public — used by the playground and
	// authenticated users alike)
	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	api.HandleFunc("/me", authHandler.Me).Methods("GET")

	// New sessions get a fresh id from here, then connect over ws.
	r.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"sessionId":%q}`, typeid.NewSessionID())
	}).Methods("POST")

	// WebSocket endpoint
	r.HandleFunc("/ws/session/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, cfg)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, authSvc *auth.Service, cfg *config.Config) {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]

	// Anonymous editing is allowed; a token upgrades the connection to
	// a named user.
	userID := "anon-" + uuid.New().String()[:8]
	displayName := "Anonymous"

	if token := auth.TokenFromRequest(r); token != "" {
		id, err := authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		user, err := authSvc.GetUser(r.Context(), id)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		userID = user.ID
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(cfg.AllowedOrigins),
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	clientID := typeid.NewClientID()
	client := session.NewClient(hub, conn, userID, displayName, sessionID, clientID)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// originPatterns strips schemes from the configured origin list; the
// websocket library matches host patterns only.
func originPatterns(allowed string) []string {
	var out []string
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		origin = strings.TrimPrefix(origin, "http://")
		origin = strings.TrimPrefix(origin, "https://")
		if origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
