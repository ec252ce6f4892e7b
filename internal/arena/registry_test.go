package arena

import (
	"context"
	"testing"

	"github.com/edfefegeger/polymind/internal/models"
)

func TestAgentIDFor(t *testing.T) {
	cases := map[string]string{
		"GPT-4":      "gpt-4",
		"Claude":     "claude",
		" DeepSeek ": "deepseek",
		"Llama 3":    "llama_3",
	}
	for name, want := range cases {
		if got := AgentIDFor(name); got != want {
			t.Fatalf("AgentIDFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestEnsureRosterIdempotent(t *testing.T) {
	repo := newStubRepo()
	reg := &Registry{Repo: repo, InitialStake: 10000}
	ctx := context.Background()

	names := []string{"GPT-4", "Claude"}
	if err := reg.EnsureRoster(ctx, names); err != nil {
		t.Fatalf("first EnsureRoster: %v", err)
	}

	agent := repo.agents["gpt-4"]
	agent.Balance = 12345
	agent.TotalBets = 7
	repo.agents["gpt-4"] = agent

	if err := reg.EnsureRoster(ctx, names); err != nil {
		t.Fatalf("second EnsureRoster: %v", err)
	}
	if len(repo.agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(repo.agents))
	}
	got := repo.agents["gpt-4"]
	if got.Balance != 12345 || got.TotalBets != 7 {
		t.Fatalf("existing agent overwritten: balance=%v total_bets=%d", got.Balance, got.TotalBets)
	}
	// One seed history point per agent, not per call.
	if len(repo.history) != 2 {
		t.Fatalf("expected 2 seed history points, got %d", len(repo.history))
	}
	for _, p := range repo.history {
		if p.WinRate != 50.0 || p.Won != nil {
			t.Fatalf("seed point: winrate=%v won=%v", p.WinRate, p.Won)
		}
	}
}

func TestWinRate(t *testing.T) {
	if got := WinRate(models.Agent{}); got != 50.0 {
		t.Fatalf("win rate with no bets = %v, want 50", got)
	}
	if got := WinRate(models.Agent{TotalBets: 4, Wins: 3}); got != 75.0 {
		t.Fatalf("win rate = %v, want 75", got)
	}
	if got := WinRate(models.Agent{TotalBets: 5}); got != 0.0 {
		t.Fatalf("win rate with no wins = %v, want 0", got)
	}
}

func TestApplySettlementHighWaterMarks(t *testing.T) {
	repo := newStubRepo()
	repo.agents["gpt-4"] = models.Agent{ID: "gpt-4", Name: "GPT-4", Balance: 1000}
	reg := &Registry{Repo: repo, InitialStake: 1000}
	ctx := context.Background()

	agent, err := reg.ApplySettlementTx(ctx, nil, "gpt-4", 300, true)
	if err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	if agent.Balance != 1300 || agent.TotalBets != 1 || agent.Wins != 1 || agent.BiggestWin != 300 {
		t.Fatalf("after win: %+v", agent)
	}

	agent, err = reg.ApplySettlementTx(ctx, nil, "gpt-4", -150, false)
	if err != nil {
		t.Fatalf("second settlement: %v", err)
	}
	if agent.Balance != 1150 || agent.TotalBets != 2 || agent.Wins != 1 || agent.BiggestLoss != -150 {
		t.Fatalf("after loss: %+v", agent)
	}

	// A smaller win must not move the high-water mark.
	agent, err = reg.ApplySettlementTx(ctx, nil, "gpt-4", 100, true)
	if err != nil {
		t.Fatalf("third settlement: %v", err)
	}
	if agent.BiggestWin != 300 {
		t.Fatalf("biggest win = %v, want 300", agent.BiggestWin)
	}
	if agent.Wins > agent.TotalBets {
		t.Fatalf("wins %d exceed total bets %d", agent.Wins, agent.TotalBets)
	}
}

func TestApplySettlementUnknownAgent(t *testing.T) {
	reg := &Registry{Repo: newStubRepo(), InitialStake: 1000}
	if _, err := reg.ApplySettlementTx(context.Background(), nil, "nobody", 10, true); err == nil {
		t.Fatal("expected error for unknown agent")
	}
}

func TestRankAgents(t *testing.T) {
	agents := []models.Agent{
		{ID: "a", Name: "A", Balance: 900, TotalBets: 2, Wins: 0},
		{ID: "b", Name: "B", Balance: 1200, TotalBets: 2, Wins: 1},
		{ID: "c", Name: "C", Balance: 1200, TotalBets: 2, Wins: 2},
		{ID: "d", Name: "D", Balance: 1000},
	}

	rows := rankAgents(agents, 1000)
	wantOrder := []string{"c", "b", "d", "a"}
	for i, id := range wantOrder {
		if rows[i].AgentID != id {
			t.Fatalf("rank %d = %s, want %s", i+1, rows[i].AgentID, id)
		}
		if rows[i].Rank != i+1 {
			t.Fatalf("rank field = %d, want %d", rows[i].Rank, i+1)
		}
	}
	if rows[0].ReturnPercent != 20 || rows[0].TotalPnL != 200 {
		t.Fatalf("top row return=%v pnl=%v", rows[0].ReturnPercent, rows[0].TotalPnL)
	}
	// Ties on both keys keep input order.
	again := rankAgents(agents, 1000)
	for i := range rows {
		if rows[i].AgentID != again[i].AgentID {
			t.Fatalf("ranking not deterministic at %d: %s vs %s", i, rows[i].AgentID, again[i].AgentID)
		}
	}
}
