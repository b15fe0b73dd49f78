package keeper

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	cache "github.com/patrickmn/go-cache"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/monitoring"
	"github.com/rebalancer-finance/keeper/src/utils/task"
)

const frequencyCacheKey = "summarization_frequency"

var ErrTooManyStages = errors.New("too many continuation stages within one cycle")

// Summarizer drives the rebalancer's summarization state machine.
// For every observed height it first finishes a pending cycle if there is one,
// then starts a new cycle once enough blocks passed since the previous one.
// Every handled height is reported to the Output channel so the price check
// downstream runs whether or not a summarization took place.
type Summarizer struct {
	*task.Task

	input      chan uint64
	rebalancer RebalancerContract
	factory    FactoryContract
	runner     TxRunner
	monitor    monitoring.Monitor

	// Summarization frequency rarely changes on chain, so it's cached
	frequencyCache *cache.Cache

	Output chan *CyclePayload
}

func NewSummarizer(config *config.Config) (self *Summarizer) {
	self = new(Summarizer)
	self.Output = make(chan *CyclePayload, config.Keeper.ReportChannelSize)
	self.frequencyCache = cache.New(config.Keeper.FrequencyCacheTTL, config.Keeper.FrequencyCacheTTL)

	self.Task = task.NewTask(config, "summarizer").
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Summarizer) WithInputChannel(v chan uint64) *Summarizer {
	self.input = v
	return self
}

func (self *Summarizer) WithRebalancer(v RebalancerContract) *Summarizer {
	self.rebalancer = v
	return self
}

func (self *Summarizer) WithFactory(v FactoryContract) *Summarizer {
	self.factory = v
	return self
}

func (self *Summarizer) WithRunner(v TxRunner) *Summarizer {
	self.runner = v
	return self
}

func (self *Summarizer) WithMonitor(v monitoring.Monitor) *Summarizer {
	self.monitor = v
	return self
}

func (self *Summarizer) run() (err error) {
	for height := range self.input {
		payload, err := self.process(height)
		if err != nil {
			self.Log.WithError(err).WithField("height", height).Error("Failed to process height")
			continue
		}
		if payload.SummarizationStarted || payload.StagesDriven > 0 {
			self.monitor.GetReport().Keeper.State.CyclesFinished.Inc()
		}

		select {
		case self.Output <- payload:
		case <-self.StopChannel:
			return nil
		}
	}
	return nil
}

// process runs the summarization state machine for one observed height.
// Every successfully handled height yields a payload, even an idle one,
// so the price check downstream runs each cycle.
func (self *Summarizer) process(height uint64) (payload *CyclePayload, err error) {
	params, err := self.rebalancer.SummParams(self.Ctx)
	if err != nil {
		self.monitor.GetReport().Keeper.Errors.SummarizerReadFailures.Inc()
		return nil, fmt.Errorf("failed to read summarization params: %w", err)
	}

	payload = &CyclePayload{Height: height}

	if params.Stage == 0 {
		frequency, err := self.getFrequency()
		if err != nil {
			self.monitor.GetReport().Keeper.Errors.SummarizerReadFailures.Inc()
			return nil, err
		}

		// Signed on purpose. The last summarized block can sit above heights
		// still queued in the watcher's channel while a receipt wait is in
		// progress, and that difference must count as "not due".
		if int64(height)-int64(params.LastBlock) < int64(frequency) {
			// Not enough blocks since the last summarization,
			// only the price check remains for this height
			payload.FinishedTimestamp = time.Now().Unix()
			return payload, nil
		}

		self.Log.WithField("height", height).
			WithField("last_block", params.LastBlock).
			WithField("frequency", frequency).
			Info("Starting summarization")

		result := self.runner.Execute(self.Ctx, "start_summarize_trades", func() (*types.Transaction, error) {
			return self.rebalancer.StartSummarizeTrades(self.Ctx)
		})
		if !result.Ok {
			// A failed start aborts the whole cycle, there is nothing to continue
			self.monitor.GetReport().Keeper.Errors.SummarizerStartFailures.Inc()
			self.monitor.GetReport().Keeper.Errors.TransactionFailures.Inc()
			return nil, fmt.Errorf("failed to start summarization: %w", result.Err)
		}

		self.monitor.GetReport().Keeper.State.SummarizationsStarted.Inc()
		self.monitor.GetReport().Keeper.State.TransactionsConfirmed.Inc()

		payload.SummarizationStarted = true
		payload.TxHashes = append(payload.TxHashes, result.TxHash.Hex())
	} else {
		self.Log.WithField("stage", params.Stage).Info("Resuming pending summarization")
	}

	err = self.driveStages(payload)
	if err != nil {
		return nil, err
	}

	payload.FinishedTimestamp = time.Now().Unix()
	return payload, nil
}

// driveStages sends continuation transactions one at a time, re-reading the
// stage after each confirmation, until the contract reports it's done
func (self *Summarizer) driveStages(payload *CyclePayload) (err error) {
	for {
		params, err := self.rebalancer.SummParams(self.Ctx)
		if err != nil {
			self.monitor.GetReport().Keeper.Errors.SummarizerReadFailures.Inc()
			return fmt.Errorf("failed to read summarization params: %w", err)
		}

		if params.Stage == 0 {
			self.Log.WithField("stages_driven", payload.StagesDriven).Info("Summarization finished")
			return nil
		}

		if payload.StagesDriven >= uint64(self.Config.Keeper.MaxStagesPerCycle) {
			self.monitor.GetReport().Keeper.Errors.SummarizerStageFailures.Inc()
			return ErrTooManyStages
		}

		result := self.runner.Execute(self.Ctx, "summarize_users_states", func() (*types.Transaction, error) {
			return self.rebalancer.SummarizeUsersStates(self.Ctx)
		})
		if !result.Ok {
			self.monitor.GetReport().Keeper.Errors.SummarizerStageFailures.Inc()
			self.monitor.GetReport().Keeper.Errors.TransactionFailures.Inc()
			return fmt.Errorf("failed to drive summarization stage %d: %w", params.Stage, result.Err)
		}

		payload.StagesDriven += 1
		payload.TxHashes = append(payload.TxHashes, result.TxHash.Hex())
		self.monitor.GetReport().Keeper.State.StagesDriven.Inc()
		self.monitor.GetReport().Keeper.State.TransactionsConfirmed.Inc()
	}
}

func (self *Summarizer) getFrequency() (frequency uint64, err error) {
	cached, ok := self.frequencyCache.Get(frequencyCacheKey)
	if ok {
		return cached.(uint64), nil
	}

	frequency, err = self.factory.SummarizationFrequency(self.Ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read summarization frequency: %w", err)
	}

	self.frequencyCache.SetDefault(frequencyCacheKey, frequency)
	return
}
