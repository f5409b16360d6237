package tickets

// Outcome classifies a single validator invocation. Outcomes are data, not
// errors: a failed scan is a normal, fully-handled result.
type Outcome string

const (
	OutcomeSuccess             Outcome = "SUCCESS"
	OutcomeInvalidTicket       Outcome = "INVALID_TICKET"
	OutcomeAlreadyScanned      Outcome = "ALREADY_SCANNED"
	OutcomeNotActivated        Outcome = "TICKET_NOT_ACTIVATED"
	OutcomeInvalidSignature    Outcome = "INVALID_QR_SIGNATURE"
	OutcomeEventCancelled      Outcome = "EVENT_CANCELLED"
	OutcomeEventEnded          Outcome = "EVENT_ENDED"
	OutcomeBookingNotConfirmed Outcome = "BOOKING_NOT_CONFIRMED"
	OutcomeNoPermission        Outcome = "NO_PERMISSION"
	OutcomeAlreadyPrinted      Outcome = "TICKET_ALREADY_PRINTED"
)

// OutcomeEventPast is an accepted alias for OutcomeEventEnded. The server
// only ever emits EVENT_ENDED; clients built against older payloads may still
// send or match on EVENT_PAST.
const OutcomeEventPast Outcome = "EVENT_PAST"

func (o Outcome) IsSuccess() bool {
	return o == OutcomeSuccess
}

// Message returns the operator-facing text for an outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Ticket scanned successfully"
	case OutcomeInvalidTicket:
		return "Ticket not found or not valid for entry"
	case OutcomeAlreadyScanned:
		return "Ticket has already been scanned"
	case OutcomeNotActivated:
		return "Hard ticket has not been activated yet"
	case OutcomeInvalidSignature:
		return "Gate code signature does not match"
	case OutcomeEventCancelled:
		return "Event has been cancelled"
	case OutcomeEventEnded, OutcomeEventPast:
		return "Event has already ended"
	case OutcomeBookingNotConfirmed:
		return "Booking has not been confirmed"
	case OutcomeNoPermission:
		return "Operator has no scan permission for this event"
	case OutcomeAlreadyPrinted:
		return "Ticket has already been printed"
	}
	return string(o)
}
