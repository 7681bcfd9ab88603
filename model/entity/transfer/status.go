package transfer

// Status is the lifecycle state of a transfer request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusDispatched Status = "dispatched"
	StatusReceived   Status = "received"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
)

// transitions holds every legal status edge. received, rejected and
// cancelled are terminal: no edges out.
var transitions = map[Status][]Status{
	StatusPending:    {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:   {StatusDispatched, StatusCancelled},
	StatusDispatched: {StatusReceived},
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

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDispatched, StatusReceived, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Priority of a transfer request.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
