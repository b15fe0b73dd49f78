package keeper

import (
	"gorm.io/gorm"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/contracts"
	"github.com/rebalancer-finance/keeper/src/utils/eth"
	"github.com/rebalancer-finance/keeper/src/utils/logger"
	"github.com/rebalancer-finance/keeper/src/utils/model"
	"github.com/rebalancer-finance/keeper/src/utils/monitoring"
	monitor_keeper "github.com/rebalancer-finance/keeper/src/utils/monitoring/keeper"
	"github.com/rebalancer-finance/keeper/src/utils/publisher"
	"github.com/rebalancer-finance/keeper/src/utils/task"
)

type Controller struct {
	*task.Task
}

// NewController builds the whole keeper pipeline.
// Everything gets started upon calling Controller.Start()
func NewController(config *config.Config) (self *Controller, err error) {
	self = new(Controller)
	self.Task = task.NewTask(config, "keeper")

	// Eth client
	ethClient, err := eth.GetEthClient(self.Log, &config.Eth)
	if err != nil {
		self.Log.WithError(err).Error("Could not get ETH client")
		return
	}

	// Contract handles, deploys dev contracts when needed
	bindings, err := contracts.Resolve(self.Ctx, ethClient, config, self.Log)
	if err != nil {
		self.Log.WithError(err).Error("Could not resolve contract bindings")
		return
	}

	// Sends transactions and waits for their confirmations
	runner := eth.NewRunner(ethClient, logger.NewSublogger("runner"), config.Keeper.ReceiptTimeout)

	// Monitoring
	monitor := monitor_keeper.NewMonitor()
	server := monitoring.NewServer(config).
		WithMonitor(monitor)

	// Polls the chain head
	watcher := NewBlockWatcher(config).
		WithHeightReader(eth.NewHeadReader(ethClient, config.Eth)).
		WithMonitor(monitor)

	// Drives the summarization state machine
	summarizer := NewSummarizer(config).
		WithInputChannel(watcher.Output).
		WithRebalancer(bindings.Rebalancer).
		WithFactory(bindings.Factory).
		WithRunner(runner).
		WithMonitor(monitor)

	// Moves the position when the price leaves its range
	rebalancer := NewRebalancer(config).
		WithInputChannel(summarizer.Output).
		WithRebalancer(bindings.Rebalancer).
		WithPool(bindings.Pool).
		WithRunner(runner).
		WithMonitor(monitor)

	// Journals finished cycles in the database
	var store *Store
	if config.Database.Enabled {
		var db *gorm.DB
		db, err = model.NewConnection(self.Ctx, config, "keeper")
		if err != nil {
			self.Log.WithError(err).Error("Could not connect to the database")
			return
		}

		journal := make(chan *CyclePayload, config.Keeper.ReportChannelSize)
		rebalancer = rebalancer.WithJournalChannel(journal)
		store = NewStore(config).
			WithInputChannel(journal).
			WithDb(db).
			WithMonitor(monitor)
	}

	// Publishes finished cycles to Redis
	var redisPublisher *publisher.RedisPublisher[*CyclePayload]
	if config.Redis.Enabled {
		publish := make(chan *CyclePayload, config.Keeper.ReportChannelSize)
		rebalancer = rebalancer.WithPublishChannel(publish)
		redisPublisher = publisher.NewRedisPublisher[*CyclePayload](config, "redis-publisher").
			WithInputChannel(publish).
			WithMonitor(monitor)
	}

	// Setup everything, will start upon calling Controller.Start()
	self.Task.
		WithSubtask(watcher.Task).
		WithSubtask(summarizer.Task).
		WithSubtask(rebalancer.Task).
		WithSubtask(monitor.Task).
		WithSubtask(server.Task)

	if store != nil {
		self.Task.WithSubtask(store.Task)
	}
	if redisPublisher != nil {
		self.Task.WithSubtask(redisPublisher.Task)
	}

	return
}
