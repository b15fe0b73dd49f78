package keeper

import (
	"encoding/json"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/model"
	"github.com/rebalancer-finance/keeper/src/utils/monitoring"
	"github.com/rebalancer-finance/keeper/src/utils/task"
)

// Store journals finished cycles into the database.
// It's an audit trail only, the keeper never reads these rows back.
type Store struct {
	*task.SinkTask[*CyclePayload]

	db      *gorm.DB
	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.SinkTask = task.NewSinkTask[*CyclePayload](config, "store").
		WithBatchSize(config.Keeper.StoreBatchSize).
		WithOnFlush(config.Keeper.StoreInterval, self.flush)

	return
}

func (self *Store) WithInputChannel(v chan *CyclePayload) *Store {
	self.SinkTask = self.SinkTask.WithInputChannel(v)
	return self
}

func (self *Store) WithDb(v *gorm.DB) *Store {
	self.db = v
	return self
}

func (self *Store) WithMonitor(v monitoring.Monitor) *Store {
	self.monitor = v
	return self
}

func (self *Store) flush(payloads []*CyclePayload) (err error) {
	if len(payloads) == 0 {
		return nil
	}

	self.Log.WithField("len", len(payloads)).Debug("Saving cycles to the journal")

	cycles := make([]*model.KeeperCycle, 0, len(payloads))
	for _, payload := range payloads {
		cycle, err := toCycleRow(payload)
		if err != nil {
			self.Log.WithError(err).WithField("height", payload.Height).Error("Failed to convert cycle for the journal")
			continue
		}
		cycles = append(cycles, cycle)
	}

	err = task.NewRetry().
		WithContext(self.Ctx).
		WithMaxInterval(self.Config.Keeper.StoreMaxBackoffInterval).
		WithOnError(func(err error, isDurationAcceptable bool) error {
			self.Log.WithError(err).Error("Failed to save cycles, retrying")
			self.monitor.GetReport().Keeper.Errors.StoreSaveFailures.Inc()
			return err
		}).
		Run(func() error {
			return self.db.WithContext(self.Ctx).
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&cycles).
				Error
		})
	if err != nil {
		self.Log.WithError(err).Error("Failed to save cycles, giving up")
		return err
	}

	self.monitor.GetReport().Keeper.State.CyclesStored.Add(uint64(len(cycles)))
	return nil
}

func toCycleRow(payload *CyclePayload) (cycle *model.KeeperCycle, err error) {
	hashes, err := json.Marshal(payload.TxHashes)
	if err != nil {
		return
	}

	cycle = &model.KeeperCycle{
		Height:               payload.Height,
		SummarizationStarted: payload.SummarizationStarted,
		StagesDriven:         payload.StagesDriven,
		PriceInRange:         payload.PriceInRange,
		Rebalanced:           payload.Rebalanced,
		TickLower:            payload.TickLower,
		TickUpper:            payload.TickUpper,
		FinishedTimestamp:    uint64(payload.FinishedTimestamp),
	}

	err = cycle.TxHashes.Set(hashes)
	if err != nil {
		return nil, err
	}
	return
}
