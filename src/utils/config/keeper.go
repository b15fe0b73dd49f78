package config

import (
	"time"

	"github.com/spf13/viper"
)

type Keeper struct {
	// How often to poll for a new block height
	WatcherInterval time.Duration

	// Maximum length of the watcher's output channel
	WatcherChannelSize int

	// Max head requests per second. Guards the provider against a tight interval.
	WatcherRateLimit float64

	// Max time between failed retries to read the head height
	WatcherBackoffInterval time.Duration

	// How long a transaction may wait for its confirmation receipt
	ReceiptTimeout time.Duration

	// TTL for the cached factory summarization frequency
	FrequencyCacheTTL time.Duration

	// Safety bound on continuation transactions driven within one cycle
	MaxStagesPerCycle int

	// New position width, in tick-spacing units
	RangeWidth int64

	// Maximum length of the cycle report channels
	ReportChannelSize int

	// Max batch size before cycle reports are inserted into the journal
	StoreBatchSize int

	// After this time pending cycle reports are flushed to the journal
	StoreInterval time.Duration

	// Max time between failed retries to save cycle reports
	StoreMaxBackoffInterval time.Duration
}

func setKeeperDefaults() {
	viper.SetDefault("Keeper.WatcherInterval", "10s")
	viper.SetDefault("Keeper.WatcherChannelSize", 100)
	viper.SetDefault("Keeper.WatcherRateLimit", 1)
	viper.SetDefault("Keeper.WatcherBackoffInterval", "3s")
	viper.SetDefault("Keeper.ReceiptTimeout", "5m")
	viper.SetDefault("Keeper.FrequencyCacheTTL", "10m")
	viper.SetDefault("Keeper.MaxStagesPerCycle", 64)
	viper.SetDefault("Keeper.RangeWidth", 10)
	viper.SetDefault("Keeper.ReportChannelSize", 100)
	viper.SetDefault("Keeper.StoreBatchSize", 50)
	viper.SetDefault("Keeper.StoreInterval", "2s")
	viper.SetDefault("Keeper.StoreMaxBackoffInterval", "30s")
}
