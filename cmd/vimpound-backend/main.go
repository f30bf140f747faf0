package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/michaelhiggins8/vimpound-backend/internal/auth"
	"github.com/michaelhiggins8/vimpound-backend/internal/billing"
	"github.com/michaelhiggins8/vimpound-backend/internal/config"
	"github.com/michaelhiggins8/vimpound-backend/internal/database"
	httpapi "github.com/michaelhiggins8/vimpound-backend/internal/http"
	"github.com/michaelhiggins8/vimpound-backend/internal/repository"
	"github.com/michaelhiggins8/vimpound-backend/internal/service"
	"github.com/michaelhiggins8/vimpound-backend/internal/telephony"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	orgs := repository.NewPostgresOrgsRepo(db)
	profiles := repository.NewPostgresProfilesRepo(db)
	vehicles := repository.NewPostgresVehiclesRepo(db)
	addresses := repository.NewPostgresAddressesRepo(db)
	exceptionDates := repository.NewPostgresExceptionDatesRepo(db)

	verifier := auth.NewSupabaseVerifier(cfg.Auth.URL, cfg.Auth.APIKey)
	billingClient := billing.NewClient(cfg.Billing.SecretKey, logger)
	telephonyClient := telephony.NewClient(cfg.Vapi.BaseURL, cfg.Vapi.APIKey, logger)

	assistant := service.NewAssistantService(orgs, cfg.Vapi.AssistantID, logger)
	vehicleCheck := service.NewVehicleCheckService(vehicles, logger)
	calendar := service.NewCalendarService(orgs, exceptionDates, logger)
	tools := service.NewToolDispatcher(vehicleCheck, calendar, logger)
	usage := service.NewUsageReporter(profiles, billingClient, cfg.Billing.FeatureID, logger)

	router := httpapi.NewRouter(verifier, logger)
	router.RegisterWebhookRoutes(httpapi.NewWebhookHandler(assistant, tools, usage, logger))
	router.RegisterOrgRoutes(httpapi.NewOrgHandler(orgs, logger))
	router.RegisterExceptionDateRoutes(httpapi.NewExceptionDateHandler(exceptionDates, logger))
	router.RegisterVehicleRoutes(httpapi.NewVehicleHandler(vehicles, logger))
	router.RegisterAddressRoutes(httpapi.NewAddressHandler(addresses, logger))
	router.RegisterPhoneNumberRoutes(httpapi.NewPhoneNumberHandler(orgs, telephonyClient, cfg.Vapi.ServerURL, logger))
	router.RegisterBillingRoutes(httpapi.NewBillingHandler(billingClient, cfg.Billing.ProductID, cfg.Billing.FeatureID, cfg.Frontend.URL, logger))
	router.RegisterUserRoutes(httpapi.NewUserHandler(profiles, logger))
	router.RegisterHealthRoute()

	server := service.NewServer(cfg.HTTP.Addr, router, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
