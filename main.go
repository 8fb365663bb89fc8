package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/opentracing/opentracing-go"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"

	"github.com/campuspulse/eventstack/config"
	"github.com/campuspulse/eventstack/internal/cron"
	"github.com/campuspulse/eventstack/internal/database"
	"github.com/campuspulse/eventstack/internal/logger"
	"github.com/campuspulse/eventstack/internal/repository"
	"github.com/campuspulse/eventstack/internal/tracing"
	"github.com/campuspulse/eventstack/services"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}
	if cfg == nil {
		log.Fatalf("config is empty")
	}

	appLogger := logger.NewAppLogger(cfg.Logger)
	appLogger.InitLogger()

	tracer, tracerCloser, err := tracing.NewJaegerTracer(cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatalf("Tracer initialization failed: %v", err)
	}
	defer tracerCloser.Close()
	opentracing.SetGlobalTracer(tracer)

	db, err := database.NewConnection(&database.DatabaseConfig{
		Driver:          cfg.DatabaseConfig.Driver,
		SqlitePath:      cfg.DatabaseConfig.SqlitePath,
		Host:            cfg.DatabaseConfig.Host,
		Port:            cfg.DatabaseConfig.Port,
		User:            cfg.DatabaseConfig.User,
		DBName:          cfg.DatabaseConfig.DBName,
		Password:        cfg.DatabaseConfig.Password,
		MaxConn:         cfg.DatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.DatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.DatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.DatabaseConfig.LogLevel,
		SSLMode:         cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		appLogger.Fatalf("Database initialization failed: %v", err)
	}

	switch os.Args[1] {
	case "migrate":

		if err := repository.MigrateDB(db); err != nil {
			appLogger.Fatalf("Database migration failed: %v", err)
		}
		appLogger.Info("Database migration completed successfully")

	case "run":

		repositories := repository.InitRepositories(db)
		appServices, err := services.InitServices(cfg, repositories, appLogger)
		if err != nil {
			appLogger.Fatalf("Service setup failed: %v", err)
		}

		report, err := appServices.IntakeService.Run(context.Background())
		if err != nil {
			appLogger.Fatalf("Pipeline run failed: %v", err)
		}
		appLogger.Infof("Pipeline run finished: %d events saved from %d matched messages", report.EventsSaved, report.Matched)

	case "daemon":

		repositories := repository.InitRepositories(db)
		appServices, err := services.InitServices(cfg, repositories, appLogger)
		if err != nil {
			appLogger.Fatalf("Service setup failed: %v", err)
		}

		cronManager := cron.NewCronManager(appLogger, newK8sClient(appLogger), appServices.IntakeService)
		if err := cronManager.Start(os.Getenv("POD_NAME"), os.Getenv("POD_NAMESPACE")); err != nil {
			appLogger.Fatalf("Cron manager startup failed: %v", err)
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		appLogger.Info("Shutting down...")
		cronManager.Stop()
		appLogger.Info("Shutdown complete")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newK8sClient returns nil outside a cluster, which makes the cron
// manager run in local mode without leader election.
func newK8sClient(appLogger logger.Logger) kubernetes.Interface {
	restConfig, err := rest.InClusterConfig()
	if err != nil {
		appLogger.Infof("No in-cluster config available, running without leader election: %v", err)
		return nil
	}

	client, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		appLogger.Warnf("Failed to build kubernetes client, running without leader election: %v", err)
		return nil
	}
	return client
}

func printUsage() {
	fmt.Println("Usage: eventstack <command>")
	fmt.Println("Commands:")
	fmt.Println("  migrate   Run database migrations")
	fmt.Println("  run       Execute one mailbox scan")
	fmt.Println("  daemon    Run scheduled mailbox scans")
}
