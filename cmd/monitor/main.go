package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urmzd/wardwatch/pkg/api"
	"github.com/urmzd/wardwatch/pkg/ble"
	"github.com/urmzd/wardwatch/pkg/db"
	"github.com/urmzd/wardwatch/pkg/device"
	"github.com/urmzd/wardwatch/pkg/imu"
	"github.com/urmzd/wardwatch/pkg/monitor"
	"github.com/urmzd/wardwatch/pkg/schema"
	"github.com/urmzd/wardwatch/pkg/transport"

	_ "github.com/urmzd/wardwatch/docs"
)

//go:generate swag init -g cmd/monitor/main.go -d ../.. -o ../../docs --parseDependency

// @title           Wardwatch API
// @version         1.0
// @description     Control surface of the patient tag monitor

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

const commandTimeout = 10 * time.Second

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/wardwatch/wardwatch.db)")
	imuPort := flag.String("imu-port", "/dev/ttyUSB0", "Serial port of the accelerometer bridge")
	blePort := flag.String("ble-port", "/dev/ttyUSB1", "Serial port of the BLE scanner dongle")
	brokerURL := flag.String("broker", "", "MQTT broker URL (overrides the stored profile)")
	scanWindow := flag.Duration("scan-window", ble.DefaultWindow, "BLE scan window per pass")
	strict := flag.Bool("strict", false, "Validate every event against its JSON schema before publishing")
	logLevel := flag.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Str("level", *logLevel).Msg("Invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("Database opened")

	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("First run detected, bootstrapping database...")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to bootstrap database")
		}
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	site := cfg.Site()
	log.Info().
		Str("profile", cfg.Profile.Name).
		Float64("latitude", site.Latitude).
		Float64("longitude", site.Longitude).
		Str("api_address", cfg.APIAddress()).
		Msg("Configuration loaded")

	identity := database.Identity()
	paired, pairedName, err := identity.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load paired identity")
	}

	// Missing hardware is a supported steady state: warn once and run without it.
	var motion device.MotionSource
	sensor, err := imu.Open(*imuPort)
	if err != nil {
		log.Warn().Err(err).Str("port", *imuPort).Msg("Accelerometer unavailable, fall and orientation detection disabled")
		motion = device.NewNullMotionSource()
	} else {
		motion = sensor
	}
	defer motion.Close()

	var scanner device.Scanner
	dongle, err := ble.Open(*blePort, *scanWindow)
	if err != nil {
		log.Warn().Err(err).Str("port", *blePort).Msg("BLE scanner unavailable, presence and department tracking disabled")
		scanner = device.NewNullScanner()
	} else {
		scanner = dongle
	}
	defer scanner.Close()

	validator := schema.NewValidator()

	var out monitor.Transport
	broker := brokerConfig(cfg, *brokerURL)
	mq, err := transport.Connect(broker)
	if err != nil {
		log.Warn().Err(err).Str("broker", broker.BrokerURL).Msg("MQTT broker unavailable, logging events instead")
		out = transport.NewLog()
	} else {
		if *strict {
			mq.WithValidator(validator)
		}
		out = mq
		defer mq.Close()
	}

	mon := monitor.New(monitor.Options{
		Motion:     motion,
		Scanner:    scanner,
		Transport:  out,
		Identities: identity,
		Site:       site,
	})

	if mq != nil {
		err := mq.SubscribeCommands(ctx, func(ctx context.Context, text string) {
			runCommand(ctx, text, mon.Dispatch)
		})
		if err != nil {
			log.Error().Err(err).Msg("Remote commands unavailable")
		}
	}

	go watchModeButton(ctx, mon)

	router := api.NewRouter(mon, database.Settings(cfg.Profile.ID), validator)
	server := &http.Server{
		Addr:              cfg.APIAddress(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("address", server.Addr).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("API server failed")
		}
	}()

	state := monitor.NewState(paired, pairedName, cfg.Beacons)
	if err := mon.Run(ctx, state); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Monitor stopped")
	}

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop API server")
	}
}

func brokerConfig(cfg *db.Config, override string) transport.Config {
	c := transport.Config{
		BrokerURL:   db.DefaultBrokerURL,
		ClientID:    db.DefaultClientID(),
		TopicPrefix: db.DefaultTopicPrefix,
	}
	if b := cfg.Broker; b != nil {
		c.BrokerURL = b.URL
		c.ClientID = b.ClientID
		c.TopicPrefix = b.TopicPrefix
		c.Username = b.Username
		c.Password = b.Password
	}
	if override != "" {
		c.BrokerURL = override
	}
	return c
}

// watchModeButton maps SIGUSR1 to a press of the mode button.
func watchModeButton(ctx context.Context, mon *monitor.Monitor) {
	presses := make(chan os.Signal, 1)
	signal.Notify(presses, syscall.SIGUSR1)
	defer signal.Stop(presses)

	for {
		select {
		case <-ctx.Done():
			return
		case <-presses:
			runCommand(ctx, "commission", func(ctx context.Context, _ string) (monitor.Result, error) {
				return mon.ToggleCommissioning(ctx)
			})
		}
	}
}

func runCommand(ctx context.Context, text string, dispatch func(context.Context, string) (monitor.Result, error)) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	res, err := dispatch(ctx, text)
	if err != nil {
		log.Warn().Err(err).Str("command", text).Int("code", res.Code).Msg("Command not applied")
		return
	}
	log.Info().Str("command", res.Command).Int("code", res.Code).Str("detail", res.Detail).Msg("Command applied")
}
