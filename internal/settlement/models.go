package settlement

import "github.com/shopspring/decimal"

// Flow distinguishes how a gateway collects the payment: redirect the buyer
// to a hosted page, or push a confirmation prompt to their device.
type Flow string

const (
	FlowRedirect Flow = "REDIRECT_FLOW"
	FlowPrompt   Flow = "PROMPT_FLOW"
)

// Gateway is the metadata a client needs to offer a settlement provider.
type Gateway struct {
	Code                string           `json:"code"`
	DisplayName         string           `json:"display_name"`
	SupportedCurrencies []string         `json:"supported_currencies"`
	MinAmount           *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount           *decimal.Decimal `json:"max_amount,omitempty"`
	Flow                Flow             `json:"flow"`
}

// Accepts reports whether an amount falls inside the gateway's bounds.
func (g Gateway) Accepts(amount decimal.Decimal) bool {
	if g.MinAmount != nil && amount.LessThan(*g.MinAmount) {
		return false
	}
	if g.MaxAmount != nil && amount.GreaterThan(*g.MaxAmount) {
		return false
	}
	return true
}

// Instructions is the provider-specific next step returned to the buyer.
// Exactly one of RedirectURL / PromptNotice is populated per the flow.
type Instructions struct {
	GatewayCode  string `json:"gateway_code"`
	Flow         Flow   `json:"flow"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	PromptNotice string `json:"prompt_notice,omitempty"`
}
