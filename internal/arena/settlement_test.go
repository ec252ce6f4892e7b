package arena

import (
	"math"
	"testing"

	"github.com/edfefegeger/polymind/internal/models"
)

func TestSettleSplitsLosersPool(t *testing.T) {
	bets := []models.Bet{
		{ID: 1, AgentID: "a", Side: models.SideYes, Amount: 100},
		{ID: 2, AgentID: "b", Side: models.SideNo, Amount: 200},
	}

	results := Settle(bets, models.SideYes)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Won || results[0].Profit != 200 {
		t.Fatalf("winner: won=%v profit=%v, want won=true profit=200", results[0].Won, results[0].Profit)
	}
	if results[1].Won || results[1].Profit != -200 {
		t.Fatalf("loser: won=%v profit=%v, want won=false profit=-200", results[1].Won, results[1].Profit)
	}
}

func TestSettleProportionalShares(t *testing.T) {
	bets := []models.Bet{
		{ID: 1, AgentID: "a", Side: models.SideYes, Amount: 100},
		{ID: 2, AgentID: "b", Side: models.SideYes, Amount: 300},
		{ID: 3, AgentID: "c", Side: models.SideNo, Amount: 200},
	}

	results := Settle(bets, models.SideYes)
	if results[0].Profit != 50 {
		t.Fatalf("a profit = %v, want 50", results[0].Profit)
	}
	if results[1].Profit != 150 {
		t.Fatalf("b profit = %v, want 150", results[1].Profit)
	}
	if results[2].Profit != -200 {
		t.Fatalf("c profit = %v, want -200", results[2].Profit)
	}
}

func TestSettleZeroSum(t *testing.T) {
	bets := []models.Bet{
		{ID: 1, AgentID: "a", Side: models.SideYes, Amount: 137.5},
		{ID: 2, AgentID: "b", Side: models.SideNo, Amount: 212.25},
		{ID: 3, AgentID: "c", Side: models.SideYes, Amount: 180},
		{ID: 4, AgentID: "d", Side: models.SideNo, Amount: 99.99},
	}

	for _, side := range []string{models.SideYes, models.SideNo} {
		var sum float64
		for _, res := range Settle(bets, side) {
			sum += res.Profit
		}
		if math.Abs(sum) > 1e-9 {
			t.Fatalf("side %s: profits sum to %v, want 0", side, sum)
		}
	}
}

func TestSettleNoWinners(t *testing.T) {
	bets := []models.Bet{
		{ID: 1, AgentID: "a", Side: models.SideNo, Amount: 100},
		{ID: 2, AgentID: "b", Side: models.SideNo, Amount: 250},
	}

	results := Settle(bets, models.SideYes)
	for _, res := range results {
		if res.Won {
			t.Fatalf("bet %d marked won with no winners", res.Bet.ID)
		}
		if res.Profit != -res.Bet.Amount {
			t.Fatalf("bet %d profit = %v, want %v", res.Bet.ID, res.Profit, -res.Bet.Amount)
		}
	}
}

func TestSettleLoneWinnerTakesPool(t *testing.T) {
	bets := []models.Bet{
		{ID: 1, AgentID: "a", Side: models.SideNo, Amount: 50},
		{ID: 2, AgentID: "b", Side: models.SideYes, Amount: 120},
		{ID: 3, AgentID: "c", Side: models.SideYes, Amount: 80},
	}

	results := Settle(bets, models.SideNo)
	if results[0].Profit != 200 {
		t.Fatalf("lone winner profit = %v, want 200", results[0].Profit)
	}
}

func TestSettleEmpty(t *testing.T) {
	if results := Settle(nil, models.SideYes); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
