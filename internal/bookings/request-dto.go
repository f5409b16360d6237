package bookings

// CreateBookingRequest represents an online (SOFT ticket) sale.
type CreateBookingRequest struct {
	EventID       string `json:"event_id" binding:"required,uuid"`
	CategoryID    string `json:"category_id" binding:"required,uuid"`
	Quantity      int    `json:"quantity" binding:"required,min=1,max=20"`
	CustomerName  string `json:"customer_name" binding:"required,min=2,max=255"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,max=50"`
	GatewayCode   string `json:"gateway_code" binding:"required"`
}

// BookingListQuery filters event-scoped booking listings.
type BookingListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}
