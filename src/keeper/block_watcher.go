package keeper

import (
	"golang.org/x/time/rate"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/monitoring"
	"github.com/rebalancer-finance/keeper/src/utils/task"
)

// BlockWatcher polls the provider for the chain head and emits every newly
// observed height to the Output channel. Heights are strictly increasing,
// a provider that momentarily answers with an older head gets ignored.
type BlockWatcher struct {
	*task.Task

	heightReader HeightReader
	monitor      monitoring.Monitor
	limiter      *rate.Limiter

	lastHeight uint64
	Output     chan uint64
}

func NewBlockWatcher(config *config.Config) (self *BlockWatcher) {
	self = new(BlockWatcher)
	self.Output = make(chan uint64, config.Keeper.WatcherChannelSize)
	self.limiter = rate.NewLimiter(rate.Limit(config.Keeper.WatcherRateLimit), 1)

	self.Task = task.NewTask(config, "block-watcher").
		WithOnBeforeStart(self.initLastHeight).
		WithPeriodicSubtaskFunc(config.Keeper.WatcherInterval, self.run).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *BlockWatcher) WithHeightReader(v HeightReader) *BlockWatcher {
	self.heightReader = v
	return self
}

func (self *BlockWatcher) WithMonitor(v monitoring.Monitor) *BlockWatcher {
	self.monitor = v
	return self
}

// Snapshots the head upon startup, only heights above this baseline get emitted
func (self *BlockWatcher) initLastHeight() (err error) {
	err = task.NewRetry().
		WithContext(self.Ctx).
		WithMaxInterval(self.Config.Keeper.WatcherBackoffInterval).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			self.Log.WithError(err).Error("Failed to get initial block height, retrying")
			self.monitor.GetReport().Keeper.Errors.WatcherHeightFailures.Inc()
			return err
		}).
		Run(func() (err error) {
			self.lastHeight, err = self.heightReader.Height(self.Ctx)
			return
		})
	if err != nil {
		return
	}

	self.Log.WithField("height", self.lastHeight).Info("Starting from the current head")
	self.monitor.GetReport().Keeper.State.WatcherCurrentHeight.Store(int64(self.lastHeight))
	return
}

func (self *BlockWatcher) run() (err error) {
	err = self.limiter.Wait(self.Ctx)
	if err != nil {
		// Stopping
		return nil
	}

	height, err := self.heightReader.Height(self.Ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to get current block height")
		self.monitor.GetReport().Keeper.Errors.WatcherHeightFailures.Inc()

		// Height gets polled again upon the next tick
		return nil
	}

	if height <= self.lastHeight {
		self.Log.WithField("height", height).Debug("No new block found")
		return nil
	}

	self.lastHeight = height
	self.monitor.GetReport().Keeper.State.WatcherCurrentHeight.Store(int64(height))
	self.monitor.GetReport().Keeper.State.BlocksEmitted.Inc()

	select {
	case self.Output <- height:
	case <-self.StopChannel:
	}

	return nil
}
