package chat

import (
	"time"

	"go.uber.org/fx"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/pkg/config"
)

// NewBusinessContext builds the ambient business record from configuration.
func NewBusinessContext(cfg *config.ServerConfig) *shared.BusinessContext {
	return &shared.BusinessContext{
		BusinessID: cfg.BusinessID,
		LoadedAt:   time.Now(),
	}
}

var Module = fx.Module("chat",
	fx.Provide(NewBusinessContext),
	fx.Provide(NewSession),
)
