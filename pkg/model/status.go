package model

// BookingStatus is the booking lifecycle state.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// transitions is the full state machine. Completed, cancelled and no_show
// are terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func (s BookingStatus) Known() bool {
	_, ok := transitions[s]
	return ok
}

func (s BookingStatus) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the booking still occupies its slot. Only cancelled
// bookings stop counting toward conflicts and capacity.
func (s BookingStatus) Active() bool {
	return s != StatusCancelled
}
