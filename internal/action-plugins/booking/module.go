package booking

import (
	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
)

// Module provides dependency injection for the booking action plugin
var Module = fx.Module("booking-actions",
	fx.Provide(
		fx.Annotate(
			NewBookingActionPlugin,
			fx.As(new(domain.ActionPlugin)),
			fx.ResultTags(`group:"action_plugins"`),
		),
	),
)
