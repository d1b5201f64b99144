package domain

import "testing"

func TestNextOnEscalate_ForwardChain(t *testing.T) {
	cases := []struct {
		current       GrievanceStatus
		wantNext      GrievanceStatus
		wantShouldEsc bool
	}{
		{StatusSubmitted, StatusAcknowledged, true},
		{StatusAcknowledged, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusResolved, StatusResolved, false},
		{StatusRejected, StatusRejected, false},
	}

	for _, tc := range cases {
		next, shouldEsc := NextOnEscalate(tc.current)
		if next != tc.wantNext {
			t.Errorf("NextOnEscalate(%s): next = %s, want %s", tc.current, next, tc.wantNext)
		}
		if shouldEsc != tc.wantShouldEsc {
			t.Errorf("NextOnEscalate(%s): shouldEscalate = %v, want %v", tc.current, shouldEsc, tc.wantShouldEsc)
		}
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to GrievanceStatus
		want     bool
	}{
		{StatusSubmitted, StatusAcknowledged, true},
		{StatusAcknowledged, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		// rejection is valid from any non-terminal state
		{StatusSubmitted, StatusRejected, true},
		{StatusAcknowledged, StatusRejected, true},
		{StatusInProgress, StatusRejected, true},
		// skipping steps is not allowed
		{StatusSubmitted, StatusInProgress, false},
		{StatusSubmitted, StatusResolved, false},
		{StatusAcknowledged, StatusResolved, false},
		// terminal states are absorbing
		{StatusResolved, StatusAcknowledged, false},
		{StatusResolved, StatusRejected, false},
		{StatusRejected, StatusSubmitted, false},
		{StatusRejected, StatusResolved, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []GrievanceStatus{StatusSubmitted, StatusAcknowledged, StatusInProgress} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	for _, s := range []GrievanceStatus{StatusResolved, StatusRejected} {
		if !s.IsTerminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestPriorityEscalate(t *testing.T) {
	cases := []struct {
		in, want Priority
	}{
		{PriorityLow, PriorityMedium},
		{PriorityMedium, PriorityHigh},
		{PriorityHigh, PriorityCritical},
		// critical is a ceiling
		{PriorityCritical, PriorityCritical},
	}

	for _, tc := range cases {
		if got := tc.in.Escalate(); got != tc.want {
			t.Errorf("Escalate(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestCategorySLAHours(t *testing.T) {
	hours, err := CategorySLAHours(CategoryWaterSupply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours != 8 {
		t.Errorf("water_supply SLA = %d, want 8", hours)
	}

	if _, err := CategorySLAHours(Category("potholes")); err == nil {
		t.Error("expected error for unknown category")
	}
}
