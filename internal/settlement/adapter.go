package settlement

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Adapter prepares provider-specific payment instructions. Real provider
// integration happens outside this system; adapters only produce the
// instruction payloads the client acts on.
type Adapter interface {
	Gateway() Gateway
	Prepare(ctx context.Context, bookingRef string, amount decimal.Decimal) (*Instructions, error)
}

// redirectAdapter sends the buyer to a hosted payment page.
type redirectAdapter struct {
	gateway Gateway
	baseURL string
}

// NewRedirectAdapter builds a REDIRECT_FLOW adapter pointing at the
// provider's hosted checkout.
func NewRedirectAdapter(gateway Gateway, baseURL string) Adapter {
	gateway.Flow = FlowRedirect
	return &redirectAdapter{gateway: gateway, baseURL: baseURL}
}

func (a *redirectAdapter) Gateway() Gateway {
	return a.gateway
}

func (a *redirectAdapter) Prepare(ctx context.Context, bookingRef string, amount decimal.Decimal) (*Instructions, error) {
	params := url.Values{}
	params.Set("reference", bookingRef)
	params.Set("amount", amount.StringFixed(2))

	return &Instructions{
		GatewayCode: a.gateway.Code,
		Flow:        FlowRedirect,
		RedirectURL: fmt.Sprintf("%s?%s", a.baseURL, params.Encode()),
	}, nil
}

// promptAdapter tells the buyer to approve a push prompt on their device.
type promptAdapter struct {
	gateway Gateway
	notice  string
}

// NewPromptAdapter builds a PROMPT_FLOW adapter. notice is the operator
// message shown while the provider pushes the confirmation to the buyer.
func NewPromptAdapter(gateway Gateway, notice string) Adapter {
	gateway.Flow = FlowPrompt
	return &promptAdapter{gateway: gateway, notice: notice}
}

func (a *promptAdapter) Gateway() Gateway {
	return a.gateway
}

func (a *promptAdapter) Prepare(ctx context.Context, bookingRef string, amount decimal.Decimal) (*Instructions, error) {
	return &Instructions{
		GatewayCode:  a.gateway.Code,
		Flow:         FlowPrompt,
		PromptNotice: fmt.Sprintf("%s Reference %s, amount %s.", a.notice, bookingRef, amount.StringFixed(2)),
	}, nil
}
