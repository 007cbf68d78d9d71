package bookingapi

import "context"

// ServiceWriter defines the service mutation capability
type ServiceWriter interface {
	CreateService(ctx context.Context, input *ServiceInput) (*Service, error)
	UpdateService(ctx context.Context, serviceID int64, patch *ServicePatch) (*Service, error)
	DeleteService(ctx context.Context, serviceID int64) error
}

// BookingWriter defines the booking mutation capability
type BookingWriter interface {
	CreateBooking(ctx context.Context, input *BookingInput) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) error
}

// BookingAPIClient combines all mutation capabilities of the booking REST API.
// This is the "convenience interface" that action executors consume.
type BookingAPIClient interface {
	ServiceWriter
	BookingWriter
}
