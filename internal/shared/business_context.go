package shared

import (
	"context"
	"time"
)

// BusinessContext carries the business (tenant) record the assistant is
// currently working on behalf of. Prop derivation for pending actions
// reads from it; it is never mutated by the proposal subsystem.
type BusinessContext struct {
	BusinessID string
	Name       string
	Currency   string
	Timezone   string
	Metadata   map[string]string
	LoadedAt   time.Time
}

func (bc *BusinessContext) GetMetadata(key string) (string, bool) {
	value, exists := bc.Metadata[key]
	return value, exists
}

func (bc *BusinessContext) SetMetadata(key, value string) {
	if bc.Metadata == nil {
		bc.Metadata = make(map[string]string)
	}
	bc.Metadata[key] = value
}

type contextKey string

const BusinessContextKey contextKey = "business"

func WithBusinessContext(ctx context.Context, business *BusinessContext) context.Context {
	return context.WithValue(ctx, BusinessContextKey, business)
}

func GetBusinessContext(ctx context.Context) (*BusinessContext, bool) {
	business, ok := ctx.Value(BusinessContextKey).(*BusinessContext)
	return business, ok
}

func MustGetBusinessContext(ctx context.Context) *BusinessContext {
	business, ok := GetBusinessContext(ctx)
	if !ok {
		panic("business context not found in context")
	}
	return business
}
