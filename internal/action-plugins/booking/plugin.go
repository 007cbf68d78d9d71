package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/bookingapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
)

// BookingActionPlugin contributes the booking entity's action set to the
// registry. It shares no code with the service plugin; the registry
// composes both without knowing either.
type BookingActionPlugin struct {
	client bookingapi.BookingAPIClient
	logger *slog.Logger
}

// NewBookingActionPlugin creates the booking action plugin.
func NewBookingActionPlugin(client bookingapi.BookingAPIClient, logger *slog.Logger) domain.ActionPlugin {
	return &BookingActionPlugin{
		client: client,
		logger: logger,
	}
}

// ActionPlugin interface implementation
func (p *BookingActionPlugin) ID() string {
	return "booking"
}

func (p *BookingActionPlugin) Name() string {
	return "Booking Actions"
}

func (p *BookingActionPlugin) Description() string {
	return "Create and cancel customer bookings"
}

func (p *BookingActionPlugin) Version() string {
	return "0.1.0"
}

// ActionProvider implementation
func (p *BookingActionPlugin) GetActions(ctx context.Context) ([]domain.Action, error) {
	return []domain.Action{
		{
			Kind:     domain.KindBookingCreate,
			Title:    "Create booking",
			GetProps: p.createProps,
			Execute:  p.executeCreate,
		},
		{
			Kind:     domain.KindBookingCancel,
			Title:    "Cancel booking",
			GetProps: p.cancelProps,
			Execute:  p.executeCancel,
		},
	}, nil
}

func (p *BookingActionPlugin) createProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	props := map[string]any{
		"title":  "Create booking",
		"fields": proposal.Payload,
	}
	if business != nil {
		props["businessName"] = business.Name
		props["timezone"] = business.Timezone
	}
	return props, nil
}

func (p *BookingActionPlugin) cancelProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	if proposal.ResolvedID == nil {
		return nil, fmt.Errorf("cancel proposal %s has no resolved booking id", proposal.ProposalID)
	}
	props := map[string]any{
		"title":     fmt.Sprintf("Cancel %s", proposal.Label),
		"bookingId": *proposal.ResolvedID,
		"label":     proposal.Label,
	}
	if business != nil {
		props["businessName"] = business.Name
	}
	return props, nil
}

func (p *BookingActionPlugin) executeCreate(ctx context.Context, proposal *domain.Proposal, form domain.FormData) error {
	input, err := bookingapi.BookingInputFromFields(proposal.MergedFields(form))
	if err != nil {
		return err
	}

	created, err := p.client.CreateBooking(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	p.logger.Info("Booking created",
		"booking_id", created.ID,
		"service_id", created.ServiceID,
		"proposal_id", proposal.ProposalID)
	return nil
}

func (p *BookingActionPlugin) executeCancel(ctx context.Context, proposal *domain.Proposal, _ domain.FormData) error {
	if proposal.ResolvedID == nil {
		return fmt.Errorf("cancel proposal %s has no resolved booking id", proposal.ProposalID)
	}

	if err := p.client.CancelBooking(ctx, *proposal.ResolvedID); err != nil {
		return fmt.Errorf("failed to cancel booking %q: %w", proposal.Label, err)
	}

	p.logger.Info("Booking cancelled",
		"booking_id", *proposal.ResolvedID,
		"proposal_id", proposal.ProposalID)
	return nil
}
