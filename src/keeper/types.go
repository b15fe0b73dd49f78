package keeper

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rebalancer-finance/keeper/src/utils/contracts"
	"github.com/rebalancer-finance/keeper/src/utils/eth"
)

// CyclePayload is the report of one finished summarization cycle,
// passed down the pipeline and enriched by each task
type CyclePayload struct {
	Height               uint64   `json:"height"`
	SummarizationStarted bool     `json:"summarization_started"`
	StagesDriven         uint64   `json:"stages_driven"`
	PriceInRange         bool     `json:"price_in_range"`
	Rebalanced           bool     `json:"rebalanced"`
	TickLower            int64    `json:"tick_lower"`
	TickUpper            int64    `json:"tick_upper"`
	TxHashes             []string `json:"tx_hashes"`
	FinishedTimestamp    int64    `json:"finished_timestamp"`
}

func (self *CyclePayload) MarshalBinary() ([]byte, error) {
	return json.Marshal(self)
}

// HeightReader reads the current chain height
type HeightReader interface {
	Height(ctx context.Context) (uint64, error)
}

// RebalancerContract is the surface of the managed rebalancer the keeper uses
type RebalancerContract interface {
	SummParams(ctx context.Context) (contracts.SummarizationParams, error)
	Position(ctx context.Context) (contracts.Position, error)
	StartSummarizeTrades(ctx context.Context) (*types.Transaction, error)
	SummarizeUsersStates(ctx context.Context) (*types.Transaction, error)
	Rebalance(ctx context.Context, params contracts.RebalanceParams) (*types.Transaction, error)
}

// FactoryContract exposes the protocol wide summarization frequency
type FactoryContract interface {
	SummarizationFrequency(ctx context.Context) (uint64, error)
}

// PoolContract is the slice of the Uniswap V3 pool the keeper reads
type PoolContract interface {
	CurrentTick(ctx context.Context) (int64, error)
	TickSpacing(ctx context.Context) (int64, error)
}

// TxRunner submits one transaction and waits for its confirmation
type TxRunner interface {
	Execute(ctx context.Context, label string, send eth.SendFunc) eth.Result
}
