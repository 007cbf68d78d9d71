package coordinator

import (
	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/chat"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared/audit"
)

var Module = fx.Module("coordinator",
	fx.Provide(
		fx.Annotate(
			NewSlogNotifier,
			fx.As(new(Notifier)),
		),
		fx.Annotate(
			audit.NewSlogSink,
			fx.As(new(audit.EventSink)),
		),
		fx.Annotate(
			func(session *chat.Session) Conversation { return session },
			fx.As(new(Conversation)),
		),
		New,
	),
)
