package arena

import (
	"context"
	"testing"

	"github.com/edfefegeger/polymind/internal/models"
)

func TestRandomBetSourceBounds(t *testing.T) {
	src := NewRandomBetSource(100, 300, 1)
	agent := models.Agent{ID: "alpha"}
	event := models.Event{ID: 1}

	sawYes, sawNo := false, false
	for i := 0; i < 200; i++ {
		side, amount := src.Generate(agent, event)
		if !models.ValidSide(side) {
			t.Fatalf("invalid side %q", side)
		}
		if amount < 100 || amount > 300 {
			t.Fatalf("amount %v outside [100, 300]", amount)
		}
		switch side {
		case models.SideYes:
			sawYes = true
		case models.SideNo:
			sawNo = true
		}
	}
	if !sawYes || !sawNo {
		t.Fatalf("source never varied: yes=%v no=%v", sawYes, sawNo)
	}
}

func TestRandomBetSourceSwapsBounds(t *testing.T) {
	src := NewRandomBetSource(300, 100, 1)
	if src.Min != 100 || src.Max != 300 {
		t.Fatalf("bounds not normalized: min=%v max=%v", src.Min, src.Max)
	}
}

func TestCannedNarratorRotates(t *testing.T) {
	narrator := &CannedNarrator{}
	first := narrator.Explain(context.Background(), "alpha", "q")
	second := narrator.Explain(context.Background(), "alpha", "q")
	if first == "" || second == "" {
		t.Fatal("narrator returned an empty line")
	}
	if first == second {
		t.Fatalf("narrator did not rotate: %q", first)
	}
}
