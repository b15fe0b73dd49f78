package keeper

import (
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/contracts"
	"github.com/rebalancer-finance/keeper/src/utils/monitoring"
	"github.com/rebalancer-finance/keeper/src/utils/task"
)

// Ticks outside this range are unusable in Uniswap V3 pools
const (
	MinTick int64 = -887272
	MaxTick int64 = 887272
)

// Rebalancer checks after every finished summarization cycle whether the
// pool price left the rebalancer's position range and moves the position
// back around the current price when it did
type Rebalancer struct {
	*task.Task

	input      chan *CyclePayload
	rebalancer RebalancerContract
	pool       PoolContract
	runner     TxRunner
	monitor    monitoring.Monitor

	// Optional downstream consumers, nil channels are skipped
	journal chan *CyclePayload
	publish chan *CyclePayload
}

func NewRebalancer(config *config.Config) (self *Rebalancer) {
	self = new(Rebalancer)

	self.Task = task.NewTask(config, "rebalancer").
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			if self.journal != nil {
				close(self.journal)
			}
			if self.publish != nil {
				close(self.publish)
			}
		})

	return
}

func (self *Rebalancer) WithInputChannel(v chan *CyclePayload) *Rebalancer {
	self.input = v
	return self
}

func (self *Rebalancer) WithRebalancer(v RebalancerContract) *Rebalancer {
	self.rebalancer = v
	return self
}

func (self *Rebalancer) WithPool(v PoolContract) *Rebalancer {
	self.pool = v
	return self
}

func (self *Rebalancer) WithRunner(v TxRunner) *Rebalancer {
	self.runner = v
	return self
}

func (self *Rebalancer) WithMonitor(v monitoring.Monitor) *Rebalancer {
	self.monitor = v
	return self
}

func (self *Rebalancer) WithJournalChannel(v chan *CyclePayload) *Rebalancer {
	self.journal = v
	return self
}

func (self *Rebalancer) WithPublishChannel(v chan *CyclePayload) *Rebalancer {
	self.publish = v
	return self
}

func (self *Rebalancer) run() (err error) {
	for payload := range self.input {
		err = self.check(payload)
		if err != nil {
			self.Log.WithError(err).WithField("height", payload.Height).Error("Rebalance check failed")
		}

		self.emit(payload)
	}
	return nil
}

// check decides whether the position needs to move and executes the move
func (self *Rebalancer) check(payload *CyclePayload) (err error) {
	self.monitor.GetReport().Keeper.State.RebalanceChecks.Inc()

	position, err := self.rebalancer.Position(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Keeper.Errors.RebalancerReadFailures.Inc()
		return fmt.Errorf("failed to read position: %w", err)
	}

	tick, err := self.pool.CurrentTick(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Keeper.Errors.RebalancerReadFailures.Inc()
		return fmt.Errorf("failed to read pool tick: %w", err)
	}

	payload.TickLower = position.TickLower
	payload.TickUpper = position.TickUpper
	payload.PriceInRange = priceInPositionRange(tick, position)

	if payload.PriceInRange {
		self.Log.WithField("tick", tick).
			WithField("tick_lower", position.TickLower).
			WithField("tick_upper", position.TickUpper).
			Debug("Price within position range")
		return nil
	}

	self.monitor.GetReport().Keeper.State.PriceOutOfRange.Inc()

	spacing, err := self.pool.TickSpacing(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Keeper.Errors.RebalancerReadFailures.Inc()
		return fmt.Errorf("failed to read tick spacing: %w", err)
	}

	params := calcRebalanceParams(tick, spacing, self.Config.Keeper.RangeWidth)

	self.Log.WithField("tick", tick).
		WithField("tick_lower", params.TickLower).
		WithField("tick_upper", params.TickUpper).
		Info("Price left position range, rebalancing")

	result := self.runner.Execute(self.Ctx, "rebalance", func() (*types.Transaction, error) {
		return self.rebalancer.Rebalance(self.Ctx, params)
	})
	if !result.Ok {
		self.monitor.GetReport().Keeper.Errors.RebalancerExecuteFailures.Inc()
		self.monitor.GetReport().Keeper.Errors.TransactionFailures.Inc()
		return fmt.Errorf("failed to rebalance: %w", result.Err)
	}

	payload.Rebalanced = true
	payload.TickLower = params.TickLower
	payload.TickUpper = params.TickUpper
	payload.TxHashes = append(payload.TxHashes, result.TxHash.Hex())
	self.monitor.GetReport().Keeper.State.RebalancesExecuted.Inc()
	self.monitor.GetReport().Keeper.State.TransactionsConfirmed.Inc()

	return nil
}

func (self *Rebalancer) emit(payload *CyclePayload) {
	if self.journal != nil {
		select {
		case self.journal <- payload:
		case <-self.StopChannel:
			return
		}
	}
	if self.publish != nil {
		select {
		case self.publish <- payload:
		case <-self.StopChannel:
		}
	}
}

// The lower bound is inclusive, the upper exclusive, matching how Uniswap V3
// positions own liquidity at the current tick
func priceInPositionRange(tick int64, position contracts.Position) bool {
	return position.TickLower <= tick && tick < position.TickUpper
}

// calcRebalanceParams centers a new range of rangeWidth spacings around the
// current tick, snapped to the pool's tick spacing and clamped to usable ticks
func calcRebalanceParams(tick, spacing, rangeWidth int64) (params contracts.RebalanceParams) {
	center := floorDiv(tick, spacing) * spacing

	lower := center - rangeWidth/2*spacing
	upper := lower + rangeWidth*spacing

	minUsable := ceilDiv(MinTick, spacing) * spacing
	maxUsable := floorDiv(MaxTick, spacing) * spacing

	if lower < minUsable {
		lower = minUsable
	}
	if upper > maxUsable {
		upper = maxUsable
	}
	if lower >= upper {
		// Degenerate range after clamping, fall back to one spacing
		lower = upper - spacing
	}

	params.TickLower = lower
	params.TickUpper = upper
	return
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q -= 1
	}
	return q
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}
