package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventManager/internal/config"
	"eventManager/internal/http-server/handlers/budget/addBudgetItem"
	"eventManager/internal/http-server/handlers/budget/deleteBudgetItem"
	"eventManager/internal/http-server/handlers/budget/getBudget"
	"eventManager/internal/http-server/handlers/event/createEvent"
	"eventManager/internal/http-server/handlers/event/eventAnalytics"
	"eventManager/internal/http-server/handlers/event/getAllEvents"
	"eventManager/internal/http-server/handlers/event/getEventInfo"
	"eventManager/internal/http-server/handlers/event/transitionEvent"
	"eventManager/internal/http-server/handlers/event/updateEvent"
	"eventManager/internal/http-server/handlers/form/defineFields"
	"eventManager/internal/http-server/handlers/form/getForm"
	"eventManager/internal/http-server/handlers/registration/listRegistrations"
	"eventManager/internal/http-server/handlers/registration/register"
	"eventManager/internal/http-server/handlers/user/createUser"
	"eventManager/internal/http-server/handlers/user/listUsers"
	"eventManager/internal/http-server/handlers/user/login"
	"eventManager/internal/http-server/handlers/ws/statusFeed"
	"eventManager/internal/http-server/middleware/mwauth"
	"eventManager/internal/http-server/middleware/mwlogger"
	"eventManager/internal/http-server/middleware/mwratelimit"
	"eventManager/internal/lib/auth"
	"eventManager/internal/lib/filestore"
	"eventManager/internal/lib/logger/handlers/slogpretty"
	"eventManager/internal/lib/logger/sl"
	"eventManager/internal/lib/viewtracker"
	"eventManager/internal/models"
	"eventManager/internal/notify"
	"eventManager/internal/notify/rabbit"
	"eventManager/internal/storage"
	"eventManager/internal/storage/postgres"
	"eventManager/internal/storage/sqlite"
	"eventManager/internal/storage/sqlstore"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting event manager", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := initStorage(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	if err = ensureAdmin(ctx, store, cfg.Auth); err != nil {
		log.Error("failed to create admin account", sl.Err(err))
		os.Exit(1)
	}

	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		log.Error("failed to init upload storage", sl.Err(err))
		os.Exit(1)
	}

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var tracker viewtracker.Tracker = viewtracker.NewMemory(cfg.Redis.ViewTTL)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err = client.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", sl.Err(err))
			os.Exit(1)
		}
		defer client.Close()
		tracker = viewtracker.NewRedis(client, cfg.Redis.ViewTTL)
	}

	hub := notify.NewHub(log)
	deliverers := []notify.Deliverer{hub}
	if cfg.Notify.SMTP.Host != "" {
		smtp := cfg.Notify.SMTP
		deliverers = append(deliverers, notify.NewMailer(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From, store))
	}
	if cfg.Notify.WebhookURL != "" {
		deliverers = append(deliverers, notify.NewWebhook(cfg.Notify.WebhookURL, cfg.HTTPServer.Timeout))
	}
	dispatcher := notify.NewDispatcher(log, cfg.Notify.MaxAttempts, cfg.Notify.Backoff, deliverers...)

	var (
		notifier     notify.Enqueuer
		stopNotifier func()
	)

	if cfg.Notify.Rabbit.URL != "" {
		broker, err := rabbit.Dial(log, cfg.Notify.Rabbit.URL, cfg.Notify.Rabbit.Exchange, cfg.Notify.Rabbit.Queue)
		if err != nil {
			log.Error("failed to connect to rabbitmq", sl.Err(err))
			os.Exit(1)
		}

		consumed := make(chan struct{})
		go func() {
			defer close(consumed)
			if err := broker.Consume(ctx, dispatcher); err != nil {
				log.Error("notification consumer stopped", sl.Err(err))
			}
		}()

		notifier = broker
		stopNotifier = func() {
			cancel()
			<-consumed
			broker.Close()
		}
	} else {
		queue := notify.NewQueue(log, dispatcher, cfg.Notify.QueueSize)
		queue.Start(ctx, cfg.Notify.Workers)

		notifier = queue
		stopNotifier = queue.Stop
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwlogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.HTTPServer.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	router.Use(mwauth.New(log, tokens))

	limiter := mwratelimit.NewLimiter(cfg.HTTPServer.RegisterRate, cfg.HTTPServer.RegisterBurst)

	router.Post("/auth/signup", createUser.NewSignup(log, store, cfg.Auth.BcryptCost))
	router.Post("/auth/login", login.New(log, store, tokens))

	router.Route("/admin", func(r chi.Router) {
		r.Use(mwauth.Require)
		r.Post("/users", createUser.New(log, store, cfg.Auth.BcryptCost))
		r.Get("/users", listUsers.New(log, store))
		r.Get("/events", getAllEvents.New(log, store, models.ScopeReview))
	})

	router.With(mwauth.Require).Get("/organizer/events", getAllEvents.New(log, store, models.ScopeOrganizer))

	router.Route("/events", func(r chi.Router) {
		r.Get("/", getAllEvents.New(log, store, models.ScopeUpcoming))
		r.With(mwauth.Require).Post("/", createEvent.New(log, store))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", getEventInfo.New(log, store, tracker))
			r.Get("/form", getForm.New(log, store))
			r.With(mwratelimit.New(log, limiter)).
				Post("/register", register.New(log, store, files, cfg.HTTPServer.MaxUploadMB<<20))

			r.Group(func(r chi.Router) {
				r.Use(mwauth.Require)
				r.Patch("/", updateEvent.New(log, store, notifier))
				r.Post("/transitions", transitionEvent.New(log, store, notifier))
				r.Post("/fields", defineFields.New(log, store))
				r.Get("/registrations", listRegistrations.New(log, store))
				r.Get("/analytics", eventAnalytics.New(log, store))
				r.Get("/budget", getBudget.New(log, store))
				r.Post("/budget/items", addBudgetItem.New(log, store))
				r.Delete("/budget/items/{itemID}", deleteBudgetItem.New(log, store))
			})
		})
	})

	router.With(mwauth.Require).Get("/ws/events", statusFeed.New(log, hub))

	log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", sl.Err(err))
			stop <- syscall.SIGTERM
		}
	}()

	sign := <-stop

	log.Info("application stopping", slog.String("signal", sign.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	hub.Close()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server", sl.Err(err))
	}

	stopNotifier()

	log.Info("application stopped")

	if err = store.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
	}

	log.Info("storage closed")
}

func initStorage(ctx context.Context, cfg config.Storage) (*sqlstore.Storage, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.InitDB(ctx, &cfg.Database)
	case "sqlite":
		return sqlite.InitDB(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ensureAdmin creates the configured admin account on first start.
func ensureAdmin(ctx context.Context, store *sqlstore.Storage, cfg config.Auth) error {
	if cfg.Admin.Username == "" {
		return nil
	}

	_, err := store.UserByUsername(ctx, cfg.Admin.Username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(cfg.Admin.Password, cfg.BcryptCost)
	if err != nil {
		return err
	}

	_, err = store.CreateUser(ctx, models.User{
		Username:     cfg.Admin.Username,
		Email:        cfg.Admin.Email,
		FirstName:    "Admin",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	})
	if errors.Is(err, storage.ErrUserExists) {
		return nil
	}

	return err
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	h := opts.NewPrettyHandler(os.Stdout)

	return slog.New(h)
}
