package tickets

type Type string

const (
	TypeSoft Type = "SOFT"
	TypeHard Type = "HARD"
)

func (t Type) IsValid() bool {
	return t == TypeSoft || t == TypeHard
}

type Status string

const (
	StatusAvailable Status = "AVAILABLE"
	StatusSold      Status = "SOLD"
	StatusScanned   Status = "SCANNED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
	StatusReturned  Status = "RETURNED"
	StatusInvalid   Status = "INVALID"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusSold, StatusScanned, StatusExpired,
		StatusCancelled, StatusReturned, StatusInvalid:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanTransitionTo enforces the monotonic AVAILABLE -> SOLD -> SCANNED path.
// SCANNED is terminal for entry purposes; the remaining statuses are
// administrative dead ends.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusAvailable:
		return next == StatusSold || next == StatusCancelled || next == StatusInvalid
	case StatusSold:
		return next == StatusScanned || next == StatusCancelled || next == StatusReturned || next == StatusExpired
	default:
		return false
	}
}
