package contracts

// SummarizationParams mirrors the rebalancer's summParams() view.
// Stage 0 means idle/complete, anything above is an in-progress run
// that must be advanced to completion, never restarted.
type SummarizationParams struct {
	Stage     uint64
	LastBlock uint64
}

// Position is the tick range of the liquidity position the rebalancer manages
type Position struct {
	TickLower int64
	TickUpper int64
}

// RebalanceParams is the new range submitted on a rebalance
type RebalanceParams struct {
	TickLower int64
	TickUpper int64
}
