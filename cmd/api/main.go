package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/doctors-portal-api/internal/config"
	"github.com/harentsoaR/doctors-portal-api/internal/handlers"
	"github.com/harentsoaR/doctors-portal-api/internal/logging"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"github.com/harentsoaR/doctors-portal-api/internal/services"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "api",
		Short:         "Doctors Portal booking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	root.AddCommand(serveCmd(), seedCmd(), promoteCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a treatment catalog from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			treatments, err := readTreatments(file)
			if err != nil {
				return err
			}
			return withStore(func(ctx context.Context, st *store.MongoStore, log zerolog.Logger) error {
				n, err := st.InsertTreatments(ctx, treatments)
				if err != nil {
					return err
				}
				log.Info().Int("count", n).Str("file", file).Msg("treatments seeded")
				return nil
			})
		},
	}
	cmd.Flags().String("file", "treatments.json", "Path to a JSON array of treatments")
	return cmd
}

func promoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <email>",
		Short: "Give a user the admin role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, st *store.MongoStore, log zerolog.Logger) error {
				res, err := st.PromoteAdmin(ctx, args[0])
				if err != nil {
					return err
				}
				if res.MatchedCount == 0 {
					return fmt.Errorf("no user with email %q", args[0])
				}
				log.Info().Str("email", args[0]).Msg("user promoted to admin")
				return nil
			})
		},
	}
}

// readTreatments parses a seed file. Every entry needs a name; a missing
// slot list is stored as empty.
func readTreatments(path string) ([]models.Treatment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var treatments []models.Treatment
	if err := json.Unmarshal(data, &treatments); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i := range treatments {
		if treatments[i].Name == "" {
			return nil, fmt.Errorf("treatment %d has no name", i)
		}
		if treatments[i].Slots == nil {
			treatments[i].Slots = []string{}
		}
	}
	return treatments, nil
}

func withStore(fn func(ctx context.Context, st *store.MongoStore, log zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.IsDev())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer disconnect(client, log)

	return fn(ctx, store.New(client.Database(cfg.MongoDatabase)), log)
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel, cfg.IsDev())
	log.Info().
		Str("database", cfg.MongoDatabase).
		Str("port", cfg.Port).
		Bool("kafka", cfg.KafkaEnabled()).
		Bool("booking_lock", cfg.BookingLockEnabled()).
		Msg("starting doctors portal")

	client, err := store.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to MongoDB")
		return err
	}
	defer disconnect(client, log)
	log.Info().Msg("connected to MongoDB")
	st := store.New(client.Database(cfg.MongoDatabase))

	notifier := services.NewBookingNotifier(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Error().Err(err).Msg("close booking notifier")
		}
	}()

	var locker services.BookingLocker = services.NoopLocker{}
	if cfg.BookingLockEnabled() {
		opts, err := redis.ParseURL(cfg.LockRedisURL)
		if err != nil {
			return fmt.Errorf("parse BOOKING_LOCK_REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		locker = services.NewRedisLocker(rdb, cfg.BookingLockTTL, log.With().Str("component", "booking_lock").Logger())
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	h := handlers.NewHandler(st, utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), notifier, locker, log)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(h, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func disconnect(client *mongo.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("disconnect from MongoDB")
	}
}
