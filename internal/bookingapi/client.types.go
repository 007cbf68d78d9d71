package bookingapi

import (
	"encoding/json"
	"fmt"
)

// ServiceInput is the writable field set of a bookable service.
type ServiceInput struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Description     string  `json:"description,omitempty"`
	CategoryID      *int64  `json:"categoryId,omitempty"`
}

// Validate checks the input against the API contract.
func (in *ServiceInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if in.Price < 0 {
		return fmt.Errorf("service price cannot be negative")
	}
	if in.DurationMinutes <= 0 {
		return fmt.Errorf("service duration must be positive")
	}
	return nil
}

// ServicePatch is a partial update of a service: only the set fields are
// sent, matching the API's PATCH semantics.
type ServicePatch struct {
	Name            *string  `json:"name,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Description     *string  `json:"description,omitempty"`
	CategoryID      *int64   `json:"categoryId,omitempty"`
}

// Validate checks the patch against the API contract.
func (p *ServicePatch) Validate() error {
	if p.Name == nil && p.Price == nil && p.DurationMinutes == nil && p.Description == nil && p.CategoryID == nil {
		return fmt.Errorf("service patch must set at least one field")
	}
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if p.Price != nil && *p.Price < 0 {
		return fmt.Errorf("service price cannot be negative")
	}
	if p.DurationMinutes != nil && *p.DurationMinutes <= 0 {
		return fmt.Errorf("service duration must be positive")
	}
	return nil
}

// Service is a bookable service record as returned by the API.
type Service struct {
	ID int64 `json:"id"`
	ServiceInput
}

// BookingInput is the writable field set of a booking.
type BookingInput struct {
	ServiceID     int64  `json:"serviceId"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	StartsAt      string `json:"startsAt"`
}

// Validate checks the input against the API contract.
func (in *BookingInput) Validate() error {
	if in.ServiceID <= 0 {
		return fmt.Errorf("booking requires a service id")
	}
	if in.CustomerName == "" {
		return fmt.Errorf("booking customer name cannot be empty")
	}
	if in.StartsAt == "" {
		return fmt.Errorf("booking start time cannot be empty")
	}
	return nil
}

// Booking is a booking record as returned by the API.
type Booking struct {
	ID int64 `json:"id"`
	BookingInput
	Status string `json:"status"`
}

// ServiceInputFromFields builds a typed service input from loosely typed
// proposal/form fields. A JSON round trip keeps the coercion rules
// identical to the wire contract.
func ServiceInputFromFields(fields map[string]any) (*ServiceInput, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode service fields: %w", err)
	}
	var in ServiceInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode service fields: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// ServicePatchFromFields builds a partial service update from loosely
// typed proposal/form fields.
func ServicePatchFromFields(fields map[string]any) (*ServicePatch, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode service fields: %w", err)
	}
	var patch ServicePatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("decode service fields: %w", err)
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return &patch, nil
}

// BookingInputFromFields builds a typed booking input from loosely typed
// proposal/form fields.
func BookingInputFromFields(fields map[string]any) (*BookingInput, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode booking fields: %w", err)
	}
	var in BookingInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode booking fields: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}
