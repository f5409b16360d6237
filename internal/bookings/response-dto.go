package bookings

// PaymentInstructions is the provider-specific next step returned to the
// buyer after a booking is created. Exactly one of RedirectURL / PromptNotice
// is set, depending on the selected gateway's flow.
type PaymentInstructions struct {
	GatewayCode  string `json:"gateway_code"`
	Flow         string `json:"flow"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	PromptNotice string `json:"prompt_notice,omitempty"`
}

// CreateBookingResponse bundles the new booking, its minted ticket codes and
// the settlement instructions.
type CreateBookingResponse struct {
	Booking     BookingResponse     `json:"booking"`
	TicketCodes []string            `json:"ticket_codes"`
	Payment     PaymentInstructions `json:"payment"`
}

// PaginatedBookings wraps an event-scoped booking listing.
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
