package service

import (
	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// Module provides dependency injection for the service action plugin
var Module = fx.Module("service-actions",
	fx.Provide(
		fx.Annotate(
			NewServiceActionPlugin,
			fx.As(new(domain.ActionPlugin)),
			fx.ResultTags(`group:"action_plugins"`),
		),
	),
)
