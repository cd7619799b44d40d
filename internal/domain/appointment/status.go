package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusReserved   Status = "reserved"
	StatusRequested  Status = "requested"
	StatusConfirmed  Status = "confirmed"
	StatusCheckedIn  Status = "checked_in"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusNoShow     Status = "no_show"
)

// allowedNext is the single transition table; every transition attempt is
// validated here and nowhere else.
var allowedNext = map[Status][]Status{
	StatusReserved:   {StatusRequested, StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusRequested:  {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusNoShow:     {},
}

// BlockingStatuses are the statuses whose [StartsAt, EndsAt) intervals may
// never overlap for the same staff member.
var BlockingStatuses = []Status{
	StatusReserved,
	StatusRequested,
	StatusConfirmed,
	StatusCheckedIn,
	StatusInProgress,
}

func CanTransition(from, to Status) error {
	for _, next := range allowedNext[from] {
		if next == to {
			return nil
		}
	}
	return &InvalidTransitionError{From: from, To: to}
}

func IsTerminal(s Status) bool {
	return len(allowedNext[s]) == 0
}

func IsBlocking(s Status) bool {
	for _, b := range BlockingStatuses {
		if b == s {
			return true
		}
	}
	return false
}

func InitialStatus() Status {
	return StatusReserved
}
