package settlement

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrGatewayNotFound = fmt.Errorf("gateway not registered")

// Registry manages the configured settlement adapters. Selection happens by
// gateway code from the metadata list, never by hard-coded provider names.
type Registry struct {
	adapters map[string]Adapter
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

func (r *Registry) Register(adapter Adapter) error {
	code := adapter.Gateway().Code
	if code == "" {
		return fmt.Errorf("adapter has empty gateway code")
	}
	if _, exists := r.adapters[code]; exists {
		return fmt.Errorf("gateway %s already registered", code)
	}
	r.adapters[code] = adapter
	r.order = append(r.order, code)
	return nil
}

func (r *Registry) Get(code string) (Adapter, error) {
	adapter, exists := r.adapters[code]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotFound, code)
	}
	return adapter, nil
}

// List returns gateway metadata in registration order.
func (r *Registry) List() []Gateway {
	gateways := make([]Gateway, 0, len(r.order))
	for _, code := range r.order {
		gateways = append(gateways, r.adapters[code].Gateway())
	}
	return gateways
}

// Instructions resolves the adapter for a code, checks the amount bounds and
// prepares the buyer-facing payment instructions.
func (r *Registry) Instructions(ctx context.Context, gatewayCode, bookingRef string, amount decimal.Decimal) (*Instructions, error) {
	adapter, err := r.Get(gatewayCode)
	if err != nil {
		return nil, err
	}

	gateway := adapter.Gateway()
	if !gateway.Accepts(amount) {
		return nil, fmt.Errorf("amount %s outside the bounds of gateway %s", amount.StringFixed(2), gatewayCode)
	}

	return adapter.Prepare(ctx, bookingRef, amount)
}
