package arena

import "github.com/edfefegeger/polymind/internal/models"

// BetResult is one bet's settled outcome.
type BetResult struct {
	Bet    models.Bet
	Won    bool
	Profit float64
}

// Delta is one agent's balance change from a settlement, shaped for the
// bubble-map feed message.
type Delta struct {
	AgentID string  `json:"agent_id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	Profit  float64 `json:"delta"`
}

// Settle computes pari-mutuel payouts for a resolving event under the
// pool-splitting rule: each losing bet forfeits its stake, and each winning
// bet collects a share of the losers' pool proportional to its stake
// (profit = amount / winners_pool * losers_pool). Winning stakes are not
// returned on top of the share, so a lone winner collects exactly the losers'
// pool and the settlement is zero-sum. With zero winners nothing is
// distributed and losers still forfeit their stakes.
func Settle(bets []models.Bet, winningSide string) []BetResult {
	var winnersPool, losersPool float64
	for _, b := range bets {
		if b.Side == winningSide {
			winnersPool += b.Amount
		} else {
			losersPool += b.Amount
		}
	}

	results := make([]BetResult, 0, len(bets))
	for _, b := range bets {
		if b.Side != winningSide {
			results = append(results, BetResult{Bet: b, Won: false, Profit: -b.Amount})
			continue
		}
		profit := 0.0
		if winnersPool > 0 {
			profit = b.Amount / winnersPool * losersPool
		}
		results = append(results, BetResult{Bet: b, Won: true, Profit: profit})
	}
	return results
}
