package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/EliteSamurai/RehabFlow-sub000/internal/config"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/engine"
	gateway "github.com/EliteSamurai/RehabFlow-sub000/internal/gateways"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/handlers"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/repository"
	"github.com/EliteSamurai/RehabFlow-sub000/internal/scheduler"
	xhttp "github.com/EliteSamurai/RehabFlow-sub000/pkg/http"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/logger"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/pg"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/prom"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/ratelimit"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/redis"
	"github.com/EliteSamurai/RehabFlow-sub000/pkg/worker"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	host, _ := os.Hostname()
	if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
		logger.Error("failed to register metrics", "error", err)
		return
	}
	go prom.ListenAndServer(cfg.MetricsAddr, "/metrics")

	readConf := pg.Config{
		User:     cfg.PostgresReadUser,
		Host:     cfg.PostgresReadHost,
		Port:     cfg.PostgresReadPort,
		Password: cfg.PostgresReadPassword,
		Database: cfg.PostgresReadDatabase,
	}
	writeConf := pg.Config{
		User:     cfg.PostgresWriteUser,
		Host:     cfg.PostgresWriteHost,
		Port:     cfg.PostgresWritePort,
		Password: cfg.PostgresWritePassword,
		Database: cfg.PostgresWriteDatabase,
	}

	db, err := pg.CreateReadWrite(readConf, writeConf, cfg.AppEnv == "dev")
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, &redis.Options{
		Addrs:      []string{cfg.RedisAddr},
		ClientName: "default",
		DB:         cfg.RedisDatabase,
		Username:   cfg.RedisUsername,
		Password:   cfg.RedisPassword,
	})
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	clinicRepo := repository.NewClinicRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	messageLogRepo := repository.NewMessageLogRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	var provider gateway.ProviderAPI
	if cfg.SMSLiveMode {
		provider, err = gateway.NewProviderClient(&gateway.ProviderConfig{
			URL:     cfg.ProviderURL,
			APIKey:  cfg.ProviderAPIKey,
			Timeout: cfg.ProviderTimeout,
		})
		if err != nil {
			logger.Error("failed creating provider client", "error", err)
			return
		}
	} else {
		logger.Info("live mode is off, using mock provider")
		provider = gateway.NewMockProvider()
	}
	smsGateway := gateway.NewSMSGateway(provider, patientRepo, messageLogRepo)

	sweep := engine.NewSweep(appointmentRepo, patientRepo, enrollmentRepo)
	resolver := engine.NewResolver(appointmentRepo, patientRepo, clinicRepo, messageLogRepo, enrollmentRepo)
	sequencer := engine.NewSequencer(enrollmentRepo)
	limiter := ratelimit.New(cfg.DispatchRatePerSec, 1)
	lock := engine.NewRunLock(redisAdap)
	orchestrator := engine.NewOrchestrator(sweep, resolver, sequencer, smsGateway, limiter, lock)

	pool := worker.NewWorkerManager(1024, 4, nil)
	webhookHandler := handlers.NewWebhookHandler(patientRepo, appointmentRepo, messageLogRepo, pool)
	go func() {
		if err := pool.Start(); err != nil {
			logger.Error("worker pool stopped", "error", err)
		}
	}()
	defer pool.Exit()

	triggerHandler := handlers.NewTriggerHandler(orchestrator, cfg.CronSecret)
	healthHandler := handlers.NewHealthHandler()

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Use(xhttp.TimeoutMiddleware(time.Second * 30))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()

	g := s.Router.Group("/api/v1")
	handlers.RegisterTriggerRoutes(g, triggerHandler)
	handlers.RegisterWebhookRoutes(g, webhookHandler)
	handlers.RegisterHealthRoutes(g, healthHandler)

	if cfg.SchedulerInterval > 0 {
		sch := scheduler.New(orchestrator, cfg.SchedulerInterval)
		if err := sch.Start(); err != nil {
			logger.Error("failed starting scheduler", "error", err)
			return
		}
		defer sch.Stop()
	}

	logger.Info("engine starting", "version", version, "commit", commit, "built", date)

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(cfg.HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
