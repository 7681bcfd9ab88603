package transfer

import "testing"

func TestStatus_CanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDispatched, false},
		{StatusPending, StatusReceived, false},
		{StatusApproved, StatusDispatched, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusReceived, false},
		{StatusDispatched, StatusReceived, true},
		{StatusDispatched, StatusCancelled, false},
		{StatusReceived, StatusCancelled, false},
		{StatusRejected, StatusApproved, false},
		{StatusCancelled, StatusApproved, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range []Status{StatusReceived, StatusRejected, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s.Terminal() = false, want true", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusApproved, StatusDispatched} {
		if s.Terminal() {
			t.Errorf("%s.Terminal() = true, want false", s)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	if !StatusPending.Valid() {
		t.Error("pending should be valid")
	}
	if Status("shipped").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestPriority_Valid(t *testing.T) {
	for _, p := range []Priority{PriorityNormal, PriorityHigh, PriorityUrgent} {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Priority("asap").Valid() {
		t.Error("unknown priority should be invalid")
	}
}
