package tickets

// ScanRequest carries one scan submission. TicketCode may be a bare code or
// the serialized gate-code payload.
type ScanRequest struct {
	TicketCode   string `json:"ticket_code" binding:"required"`
	ScanLocation string `json:"scan_location" binding:"omitempty,max=255"`
	Notes        string `json:"notes" binding:"omitempty,max=500"`
}

// ActivationRequest converts an unsold physical ticket into a confirmed sale.
type ActivationRequest struct {
	TicketCode         string `json:"ticket_code" binding:"required"`
	CustomerName       string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail      string `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone      string `json:"customer_phone" binding:"omitempty,max=50"`
	PaymentMethod      string `json:"payment_method" binding:"required,oneof=CASH CARD MOBILE_MONEY"`
	ActivationLocation string `json:"activation_location" binding:"omitempty,max=255"`
}

// PrintBatchRequest selects up to Quantity unprinted hard tickets to seal
// and export.
type PrintBatchRequest struct {
	EventID    string `json:"event_id" binding:"required,uuid"`
	CategoryID string `json:"category_id" binding:"omitempty,uuid"`
	Quantity   int    `json:"quantity" binding:"required,min=1,max=200"`
}

// ProvisionStockRequest mints the physical allocation of a hybrid category.
type ProvisionStockRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
}
