package tickets

import (
	"time"

	"tickgate/internal/bookings"
	"tickgate/internal/events"
)

// ScanResult is the normalized validator verdict. Code is the single source
// of truth; the optional projections are populated when the ticket resolved.
type ScanResult struct {
	Success   bool                      `json:"success"`
	Code      Outcome                   `json:"code"`
	Message   string                    `json:"message"`
	Ticket    *TicketResponse           `json:"ticket,omitempty"`
	Booking   *bookings.BookingResponse `json:"booking,omitempty"`
	Event     *events.EventResponse     `json:"event,omitempty"`
	ScannedAt *time.Time                `json:"scanned_at,omitempty"`
	ScannedBy string                    `json:"scanned_by,omitempty"`
}

// ActivationResult reports a point-of-sale activation.
type ActivationResult struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	Ticket      *TicketResponse           `json:"ticket,omitempty"`
	Booking     *bookings.BookingResponse `json:"booking,omitempty"`
	GatePayload *GateCodePayload          `json:"gate_payload,omitempty"`
}

// PrintArtifact bundles the renderable images for one sealed ticket. The
// byte slices are base64 in JSON.
type PrintArtifact struct {
	TicketCode        string `json:"ticket_code"`
	ActivationCodePNG []byte `json:"activation_code_png"`
	GateCodePNG       []byte `json:"gate_code_png"`
}

// PrintResult reports one print-seal attempt. On TICKET_ALREADY_PRINTED the
// original PrintedAt is carried so the operator sees when stock went out.
type PrintResult struct {
	Success   bool           `json:"success"`
	Code      Outcome        `json:"code,omitempty"`
	Message   string         `json:"message"`
	PrintedAt *time.Time     `json:"printed_at,omitempty"`
	Artifact  *PrintArtifact `json:"artifact,omitempty"`
}

// BatchSkip records one ticket passed over during a batch print.
type BatchSkip struct {
	TicketCode string  `json:"ticket_code"`
	Code       Outcome `json:"code"`
	Message    string  `json:"message"`
}

// BatchPrintResult aggregates a batch print run. Artifacts never outnumber
// distinct unprinted tickets.
type BatchPrintResult struct {
	Requested int             `json:"requested"`
	Succeeded int             `json:"succeeded"`
	Skipped   int             `json:"skipped"`
	Skips     []BatchSkip     `json:"skips,omitempty"`
	Artifacts []PrintArtifact `json:"artifacts"`
}

// TicketStatusResponse is the read-only self-service projection.
type TicketStatusResponse struct {
	Ticket      TicketResponse            `json:"ticket"`
	Booking     *bookings.BookingResponse `json:"booking,omitempty"`
	Event       *events.EventResponse     `json:"event,omitempty"`
	ScanHistory []ScanEvent               `json:"scan_history"`
}

// PaginatedScanEvents wraps an event-scoped scan history page.
type PaginatedScanEvents struct {
	Scans      []ScanEvent `json:"scans"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
}
