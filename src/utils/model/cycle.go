package model

import (
	"github.com/jackc/pgtype"
)

const TableKeeperCycles = "keeper_cycles"

// KeeperCycle is the journal row written after each finished
// summarization cycle
type KeeperCycle struct {
	Id                   uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Height               uint64       `json:"height"`
	SummarizationStarted bool         `json:"summarization_started"`
	StagesDriven         uint64       `json:"stages_driven"`
	PriceInRange         bool         `json:"price_in_range"`
	Rebalanced           bool         `json:"rebalanced"`
	TickLower            int64        `json:"tick_lower"`
	TickUpper            int64        `json:"tick_upper"`
	TxHashes             pgtype.JSONB `json:"tx_hashes"`
	FinishedTimestamp    uint64       `json:"finished_timestamp"`
}

func (KeeperCycle) TableName() string {
	return TableKeeperCycles
}
