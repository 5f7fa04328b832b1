package queue

type Status string

const (
	StatusWaiting   Status = "WAITING"
	StatusCalled    Status = "CALLED"
	StatusInService Status = "IN_SERVICE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusWaiting:   {StatusCalled, StatusCancelled},
	StatusCalled:    {StatusInService, StatusCancelled},
	StatusInService: {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// HoldsPosition reports whether an entry in this status still occupies a
// queue position. IN_SERVICE entries have left the line but remain active
// for duplicate-join purposes.
func (s Status) HoldsPosition() bool {
	return s == StatusWaiting || s == StatusCalled
}

// IsActive is the duplicate-join set: one live entry per customer per
// service across WAITING, CALLED and IN_SERVICE.
func (s Status) IsActive() bool {
	return s == StatusWaiting || s == StatusCalled || s == StatusInService
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) IsValid() bool {
	return p == PriorityNormal || p == PriorityHigh
}

// Rank orders priorities for next-to-call selection; higher serves first.
func (p Priority) Rank() int {
	if p == PriorityHigh {
		return 1
	}
	return 0
}
