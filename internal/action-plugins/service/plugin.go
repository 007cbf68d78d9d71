package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/action-plugin/domain"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/bookingapi"
	"github.com/easyweek123-netizen/sme-booking-digital-presence-sub000/internal/shared"
)

// ServiceActionPlugin contributes the service entity's action set to the
// registry: create, update and delete mutations plus a display-only view.
type ServiceActionPlugin struct {
	client bookingapi.BookingAPIClient
	logger *slog.Logger
}

// NewServiceActionPlugin creates the service action plugin.
func NewServiceActionPlugin(client bookingapi.BookingAPIClient, logger *slog.Logger) domain.ActionPlugin {
	return &ServiceActionPlugin{
		client: client,
		logger: logger,
	}
}

// ActionPlugin interface implementation
func (p *ServiceActionPlugin) ID() string {
	return "service"
}

func (p *ServiceActionPlugin) Name() string {
	return "Service Actions"
}

func (p *ServiceActionPlugin) Description() string {
	return "Create, update, delete and inspect the business's bookable services"
}

func (p *ServiceActionPlugin) Version() string {
	return "0.1.0"
}

// ActionProvider implementation
func (p *ServiceActionPlugin) GetActions(ctx context.Context) ([]domain.Action, error) {
	return []domain.Action{
		{
			Kind:     domain.KindServiceCreate,
			Title:    "Create service",
			GetProps: p.createProps,
			Execute:  p.executeCreate,
		},
		{
			Kind:     domain.KindServiceUpdate,
			Title:    "Update service",
			GetProps: p.updateProps,
			Execute:  p.executeUpdate,
		},
		{
			Kind:     domain.KindServiceDelete,
			Title:    "Delete service",
			GetProps: p.deleteProps,
			Execute:  p.executeDelete,
		},
		{
			Kind:     domain.KindServiceView,
			Title:    "Service details",
			GetProps: p.viewProps,
			// Display-only: no executor, never enters the handshake.
		},
	}, nil
}

// Prop derivation. All of these are pure: proposal payload plus business
// context in, display props out.

func (p *ServiceActionPlugin) createProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	props := map[string]any{
		"title":  "Create service",
		"fields": proposal.Payload,
	}
	if proposal.TargetCollection != nil {
		props["categoryId"] = *proposal.TargetCollection
	}
	applyBusinessProps(props, business)
	return props, nil
}

func (p *ServiceActionPlugin) updateProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	if proposal.ResolvedID == nil {
		return nil, fmt.Errorf("update proposal %s has no resolved service id", proposal.ProposalID)
	}
	props := map[string]any{
		"title":     fmt.Sprintf("Update %s", proposal.Label),
		"serviceId": *proposal.ResolvedID,
		"label":     proposal.Label,
		"fields":    proposal.Payload,
	}
	applyBusinessProps(props, business)
	return props, nil
}

func (p *ServiceActionPlugin) deleteProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	if proposal.ResolvedID == nil {
		return nil, fmt.Errorf("delete proposal %s has no resolved service id", proposal.ProposalID)
	}
	props := map[string]any{
		"title":     fmt.Sprintf("Delete %s", proposal.Label),
		"serviceId": *proposal.ResolvedID,
		"label":     proposal.Label,
	}
	applyBusinessProps(props, business)
	return props, nil
}

func (p *ServiceActionPlugin) viewProps(proposal *domain.Proposal, business *shared.BusinessContext) (map[string]any, error) {
	props := map[string]any{
		"title":   proposal.Label,
		"service": proposal.Payload,
	}
	applyBusinessProps(props, business)
	return props, nil
}

func applyBusinessProps(props map[string]any, business *shared.BusinessContext) {
	if business == nil {
		return
	}
	props["businessName"] = business.Name
	props["currency"] = business.Currency
}

// Executors. The only place service mutations are issued.

func (p *ServiceActionPlugin) executeCreate(ctx context.Context, proposal *domain.Proposal, form domain.FormData) error {
	input, err := bookingapi.ServiceInputFromFields(proposal.MergedFields(form))
	if err != nil {
		return err
	}
	if input.CategoryID == nil && proposal.TargetCollection != nil {
		input.CategoryID = proposal.TargetCollection
	}

	created, err := p.client.CreateService(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	p.logger.Info("Service created",
		"service_id", created.ID,
		"name", created.Name,
		"proposal_id", proposal.ProposalID)
	return nil
}

func (p *ServiceActionPlugin) executeUpdate(ctx context.Context, proposal *domain.Proposal, form domain.FormData) error {
	if proposal.ResolvedID == nil {
		return fmt.Errorf("update proposal %s has no resolved service id", proposal.ProposalID)
	}

	patch, err := bookingapi.ServicePatchFromFields(proposal.MergedFields(form))
	if err != nil {
		return err
	}

	updated, err := p.client.UpdateService(ctx, *proposal.ResolvedID, patch)
	if err != nil {
		return fmt.Errorf("failed to update service %q: %w", proposal.Label, err)
	}

	p.logger.Info("Service updated",
		"service_id", updated.ID,
		"proposal_id", proposal.ProposalID)
	return nil
}

func (p *ServiceActionPlugin) executeDelete(ctx context.Context, proposal *domain.Proposal, _ domain.FormData) error {
	if proposal.ResolvedID == nil {
		return fmt.Errorf("delete proposal %s has no resolved service id", proposal.ProposalID)
	}

	if err := p.client.DeleteService(ctx, *proposal.ResolvedID); err != nil {
		return fmt.Errorf("failed to delete service %q: %w", proposal.Label, err)
	}

	p.logger.Info("Service deleted",
		"service_id", *proposal.ResolvedID,
		"proposal_id", proposal.ProposalID)
	return nil
}
