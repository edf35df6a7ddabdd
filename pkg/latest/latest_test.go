package latest_test

import (
	"testing"

	"github.com/photodesk/photodesk/pkg/latest"
)

func TestGate_InOrder(t *testing.T) {
	var g latest.Gate

	a := g.Issue()
	b := g.Issue()

	if a != 1 || b != 2 {
		t.Fatalf("Issue() = %d, %d, want 1, 2", a, b)
	}

	if g.Admit(a) {
		t.Error("Admit(a) = true for superseded request, want false")
	}
	if !g.Admit(b) {
		t.Error("Admit(b) = false for latest request, want true")
	}
}

func TestGate_OutOfOrderArrival(t *testing.T) {
	var g latest.Gate

	a := g.Issue()
	b := g.Issue()

	// B's response arrives first.
	if !g.Admit(b) {
		t.Error("Admit(b) = false, want true")
	}

	// A's response arrives after B was applied.
	if g.Admit(a) {
		t.Error("Admit(a) = true after newer response applied, want false")
	}
}

func TestGate_AdmitIsSingleUse(t *testing.T) {
	var g latest.Gate

	seq := g.Issue()
	if !g.Admit(seq) {
		t.Fatal("first Admit = false, want true")
	}
	if g.Admit(seq) {
		t.Error("second Admit of same seq = true, want false")
	}
}

func TestGate_Pending(t *testing.T) {
	var g latest.Gate

	if g.Pending() {
		t.Error("Pending() = true before any issue, want false")
	}

	seq := g.Issue()
	if !g.Pending() {
		t.Error("Pending() = false with request in flight, want true")
	}

	g.Admit(seq)
	if g.Pending() {
		t.Error("Pending() = true after response admitted, want false")
	}
}

func TestGate_StaleResponseLeavesPending(t *testing.T) {
	var g latest.Gate

	a := g.Issue()
	g.Issue()

	if g.Admit(a) {
		t.Fatal("Admit(a) = true, want false")
	}
	if !g.Pending() {
		t.Error("Pending() = false while latest response outstanding, want true")
	}
}
