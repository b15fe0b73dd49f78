package report

import (
	"go.uber.org/atomic"
)

type KeeperErrors struct {
	WatcherHeightFailures     atomic.Uint64 `json:"watcher_height_failures"`
	SummarizerStartFailures   atomic.Uint64 `json:"summarizer_start_failures"`
	SummarizerStageFailures   atomic.Uint64 `json:"summarizer_stage_failures"`
	SummarizerReadFailures    atomic.Uint64 `json:"summarizer_read_failures"`
	RebalancerReadFailures    atomic.Uint64 `json:"rebalancer_read_failures"`
	RebalancerExecuteFailures atomic.Uint64 `json:"rebalancer_execute_failures"`
	TransactionFailures       atomic.Uint64 `json:"transaction_failures"`
	StoreSaveFailures         atomic.Uint64 `json:"store_save_failures"`
}

type KeeperState struct {
	WatcherCurrentHeight  atomic.Int64  `json:"watcher_current_height"`
	BlocksEmitted         atomic.Uint64 `json:"blocks_emitted"`
	SummarizationsStarted atomic.Uint64 `json:"summarizations_started"`
	StagesDriven          atomic.Uint64 `json:"stages_driven"`
	CyclesFinished        atomic.Uint64 `json:"cycles_finished"`
	RebalanceChecks       atomic.Uint64 `json:"rebalance_checks"`
	PriceOutOfRange       atomic.Uint64 `json:"price_out_of_range"`
	RebalancesExecuted    atomic.Uint64 `json:"rebalances_executed"`
	TransactionsConfirmed atomic.Uint64 `json:"transactions_confirmed"`
	CyclesStored          atomic.Uint64 `json:"cycles_stored"`
}

type KeeperReport struct {
	State  KeeperState  `json:"state"`
	Errors KeeperErrors `json:"errors"`
}
