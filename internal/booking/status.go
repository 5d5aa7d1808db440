package booking

// Status is the numeric appointment status code stored in
// appointment_statuses and referenced by appointments.status_id.
type Status int

const (
	StatusScheduled Status = 1
	StatusConfirmed Status = 2
	StatusCompleted Status = 3
	StatusCancelled Status = 4
	StatusNoShow    Status = 5
)

var statusNames = map[Status]string{
	StatusScheduled: "Scheduled",
	StatusConfirmed: "Confirmed",
	StatusCompleted: "Completed",
	StatusCancelled: "Cancelled",
	StatusNoShow:    "NoShow",
}

// transitions is the legal state machine. Completed, Cancelled and NoShow
// have no successors.
var transitions = map[Status][]Status{
	StatusScheduled: {StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Terminal reports whether the status frees its (doctor, date, slot) triple
// for rebooking. Completed keeps the slot consumed; only Cancelled and
// NoShow release it.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusNoShow
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
