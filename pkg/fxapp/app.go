package fxapp

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	plugins "github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/application"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugins/booking"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugins/service"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/bookingapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chat"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chatapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/coordinator"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/proposal/store"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/server"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/config"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/logger"
)

func New() *fx.App {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Default to a verbose logger for debug level
	var fxLogger fx.Option = fx.WithLogger(
		func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		},
	)

	if cfg.LogLevel != "debug" {
		fxLogger = fx.NopLogger
	}

	return fx.New(
		fxLogger,
		config.Module,
		logger.Module,
		chatapi.Module,
		bookingapi.Module,
		store.Module,
		plugins.Module,
		chat.Module,
		coordinator.Module,
		service.Module,
		booking.Module,
		server.Module,
	)
}
