package monitor_keeper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	// Run
	UpForSeconds *prometheus.Desc

	// Errors
	WatcherHeightFailures     *prometheus.Desc
	SummarizerStartFailures   *prometheus.Desc
	SummarizerStageFailures   *prometheus.Desc
	SummarizerReadFailures    *prometheus.Desc
	RebalancerReadFailures    *prometheus.Desc
	RebalancerExecuteFailures *prometheus.Desc
	TransactionFailures       *prometheus.Desc
	StoreSaveFailures         *prometheus.Desc

	// State
	WatcherCurrentHeight  *prometheus.Desc
	BlocksEmitted         *prometheus.Desc
	SummarizationsStarted *prometheus.Desc
	StagesDriven          *prometheus.Desc
	CyclesFinished        *prometheus.Desc
	RebalanceChecks       *prometheus.Desc
	PriceOutOfRange       *prometheus.Desc
	RebalancesExecuted    *prometheus.Desc
	TransactionsConfirmed *prometheus.Desc
	CyclesStored          *prometheus.Desc
}

func NewCollector() *Collector {
	return &Collector{
		UpForSeconds: prometheus.NewDesc("up_for_seconds", "", nil, nil),

		// Errors
		WatcherHeightFailures:     prometheus.NewDesc("watcher_height_failures", "", nil, nil),
		SummarizerStartFailures:   prometheus.NewDesc("summarizer_start_failures", "", nil, nil),
		SummarizerStageFailures:   prometheus.NewDesc("summarizer_stage_failures", "", nil, nil),
		SummarizerReadFailures:    prometheus.NewDesc("summarizer_read_failures", "", nil, nil),
		RebalancerReadFailures:    prometheus.NewDesc("rebalancer_read_failures", "", nil, nil),
		RebalancerExecuteFailures: prometheus.NewDesc("rebalancer_execute_failures", "", nil, nil),
		TransactionFailures:       prometheus.NewDesc("transaction_failures", "", nil, nil),
		StoreSaveFailures:         prometheus.NewDesc("store_save_failures", "", nil, nil),

		// State
		WatcherCurrentHeight:  prometheus.NewDesc("watcher_current_height", "", nil, nil),
		BlocksEmitted:         prometheus.NewDesc("blocks_emitted", "", nil, nil),
		SummarizationsStarted: prometheus.NewDesc("summarizations_started", "", nil, nil),
		StagesDriven:          prometheus.NewDesc("stages_driven", "", nil, nil),
		CyclesFinished:        prometheus.NewDesc("cycles_finished", "", nil, nil),
		RebalanceChecks:       prometheus.NewDesc("rebalance_checks", "", nil, nil),
		PriceOutOfRange:       prometheus.NewDesc("price_out_of_range", "", nil, nil),
		RebalancesExecuted:    prometheus.NewDesc("rebalances_executed", "", nil, nil),
		TransactionsConfirmed: prometheus.NewDesc("transactions_confirmed", "", nil, nil),
		CyclesStored:          prometheus.NewDesc("cycles_stored", "", nil, nil),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	// Run
	ch <- self.UpForSeconds

	// Errors
	ch <- self.WatcherHeightFailures
	ch <- self.SummarizerStartFailures
	ch <- self.SummarizerStageFailures
	ch <- self.SummarizerReadFailures
	ch <- self.RebalancerReadFailures
	ch <- self.RebalancerExecuteFailures
	ch <- self.TransactionFailures
	ch <- self.StoreSaveFailures

	// State
	ch <- self.WatcherCurrentHeight
	ch <- self.BlocksEmitted
	ch <- self.SummarizationsStarted
	ch <- self.StagesDriven
	ch <- self.CyclesFinished
	ch <- self.RebalanceChecks
	ch <- self.PriceOutOfRange
	ch <- self.RebalancesExecuted
	ch <- self.TransactionsConfirmed
	ch <- self.CyclesStored
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	self.monitor.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.monitor.Report.Run.State.StartTimestamp.Load()))

	// Run
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.UpForSeconds.Load()))

	// Errors
	ch <- prometheus.MustNewConstMetric(self.WatcherHeightFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.WatcherHeightFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.SummarizerStartFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.SummarizerStartFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.SummarizerStageFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.SummarizerStageFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.SummarizerReadFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.SummarizerReadFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.RebalancerReadFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.RebalancerReadFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.RebalancerExecuteFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.RebalancerExecuteFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.TransactionFailures.Load()))
	ch <- prometheus.MustNewConstMetric(self.StoreSaveFailures, prometheus.CounterValue, float64(self.monitor.Report.Keeper.Errors.StoreSaveFailures.Load()))

	// State
	ch <- prometheus.MustNewConstMetric(self.WatcherCurrentHeight, prometheus.GaugeValue, float64(self.monitor.Report.Keeper.State.WatcherCurrentHeight.Load()))
	ch <- prometheus.MustNewConstMetric(self.BlocksEmitted, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.BlocksEmitted.Load()))
	ch <- prometheus.MustNewConstMetric(self.SummarizationsStarted, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.SummarizationsStarted.Load()))
	ch <- prometheus.MustNewConstMetric(self.StagesDriven, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.StagesDriven.Load()))
	ch <- prometheus.MustNewConstMetric(self.CyclesFinished, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.CyclesFinished.Load()))
	ch <- prometheus.MustNewConstMetric(self.RebalanceChecks, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.RebalanceChecks.Load()))
	ch <- prometheus.MustNewConstMetric(self.PriceOutOfRange, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.PriceOutOfRange.Load()))
	ch <- prometheus.MustNewConstMetric(self.RebalancesExecuted, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.RebalancesExecuted.Load()))
	ch <- prometheus.MustNewConstMetric(self.TransactionsConfirmed, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.TransactionsConfirmed.Load()))
	ch <- prometheus.MustNewConstMetric(self.CyclesStored, prometheus.CounterValue, float64(self.monitor.Report.Keeper.State.CyclesStored.Load()))
}
