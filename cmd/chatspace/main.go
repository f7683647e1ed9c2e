package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatspace/internal/applog"
	"chatspace/internal/auth"
	"chatspace/internal/chat"
	"chatspace/internal/config"
	"chatspace/internal/handler"
	"chatspace/internal/middleware"
	"chatspace/internal/relay"
	"chatspace/internal/repository"
	"chatspace/internal/service"
	"chatspace/internal/view"
	"chatspace/internal/ws"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env is fine; the environment itself may carry everything.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	root, err := applog.Root(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer root.Sync()
	log := root.Sugar()

	if err := run(cfg, root, log); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg *config.Config, root *zap.Logger, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := repository.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer storage.Close()

	files, err := service.NewFileStore(cfg.UploadDir, cfg.Extensions(), cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(storage.Users(), storage.Uploads(), files, applog.Subsystem(root, "auth"))
	userService := service.NewUserService(storage.Users(), files, applog.Subsystem(root, "users"))
	messageService := service.NewMessageService(storage.Messages(), applog.Subsystem(root, "messages"))
	uploadService := service.NewUploadService(storage.Uploads(), files, applog.Subsystem(root, "uploads"))

	hub := chat.NewHub(applog.Subsystem(root, "hub"))

	var publisher ws.Publisher
	if cfg.RelayBind != "" {
		rl, err := relay.New(cfg.RelayBind, cfg.Peers(), hub, applog.Subsystem(root, "relay"))
		if err != nil {
			return err
		}
		// Run owns the sockets and closes them when ctx is cancelled.
		go rl.Run(ctx)
		publisher = rl
		log.Infof("relay bound on %s with %d peers", cfg.RelayBind, len(cfg.Peers()))
	}

	cookieStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(7 * 24 * time.Hour.Seconds()),
	}

	renderer, err := view.NewPageRenderer(cfg.TemplateDir)
	if err != nil {
		return err
	}

	tokens := auth.NewTokenIssuer(cfg.WSTokenSecret, cfg.WSTokenTTL)

	authHandler := handler.NewAuthHandler(authService, cookieStore, renderer)
	userHandler := handler.NewUserHandler(userService, authService, cookieStore, renderer, cfg.MaxUploadBytes)
	uploadHandler := handler.NewUploadHandler(uploadService, cookieStore, renderer, cfg.MaxUploadBytes)
	convHandler := handler.NewConversationHandler(userService, messageService, tokens, renderer)
	wsHandler := ws.NewHandler(tokens, hub, messageService, publisher, applog.Subsystem(root, "ws"))

	r := mux.NewRouter()

	r.HandleFunc("/register", authHandler.Register).Methods("POST", "GET")
	r.HandleFunc("/login", authHandler.Login).Methods("POST", "GET")
	r.HandleFunc("/logout", authHandler.Logout).Methods("GET")

	r.HandleFunc("/", userHandler.Home).Methods("GET")
	r.HandleFunc("/profile", middleware.RequireAuth(cookieStore, userHandler.Profile)).Methods("GET", "POST")
	r.HandleFunc("/delete_account/{username}", middleware.RequireAuth(cookieStore, userHandler.DeleteAccount)).Methods("GET")

	r.HandleFunc("/uploads", middleware.RequireAuth(cookieStore, uploadHandler.Index)).Methods("GET")
	r.HandleFunc("/uploads", middleware.RequireAuth(cookieStore, uploadHandler.Store)).Methods("POST")
	r.HandleFunc("/uploads/{id}/delete", middleware.RequireAuth(cookieStore, uploadHandler.Delete)).Methods("POST")

	r.HandleFunc("/conversation/{user_id}", middleware.RequireAuth(cookieStore, convHandler.Open)).Methods("GET")
	r.HandleFunc("/ws", wsHandler.Serve).Methods("GET")

	r.PathPrefix("/files/").Handler(http.StripPrefix("/files/", http.FileServer(http.Dir(files.Dir()))))

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		<-ctx.Done()
		log.Infof("received stop signal, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("error during shutdown: %v", err)
		}
	}()

	log.Infof("http server listening on %s", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
