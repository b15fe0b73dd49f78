package keeper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	monitor_keeper "github.com/rebalancer-finance/keeper/src/utils/monitoring/keeper"
)

func TestSummarizerTestSuite(t *testing.T) {
	suite.Run(t, new(SummarizerTestSuite))
}

type SummarizerTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *SummarizerTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *SummarizerTestSuite) newSummarizer(rebalancer *fakeRebalancer, factory *fakeFactory, runner *fakeRunner) *Summarizer {
	return NewSummarizer(s.config).
		WithRebalancer(rebalancer).
		WithFactory(factory).
		WithRunner(runner).
		WithMonitor(monitor_keeper.NewMonitor())
}

func (s *SummarizerTestSuite) TestIdleBelowFrequency() {
	rebalancer := &fakeRebalancer{stages: []uint64{0}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	// No transactions, but the payload still goes out so the price check runs
	payload, err := summarizer.process(105)
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), payload)
	assert.False(s.T(), payload.SummarizationStarted)
	assert.Equal(s.T(), uint64(0), payload.StagesDriven)
	assert.Equal(s.T(), uint64(105), payload.Height)
	assert.Empty(s.T(), runner.labels)
}

func (s *SummarizerTestSuite) TestLastBlockAboveHeight() {
	// A receipt wait takes minutes, so heights queued before the start
	// transaction mined can arrive with lastBlock already ahead of them
	rebalancer := &fakeRebalancer{stages: []uint64{0}, lastBlock: 115}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	payload, err := summarizer.process(112)
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), payload)
	assert.False(s.T(), payload.SummarizationStarted)
	assert.Equal(s.T(), 0, rebalancer.startCalls)
	assert.Empty(s.T(), runner.labels)
}

func (s *SummarizerTestSuite) TestStartsAtFrequencyBoundary() {
	rebalancer := &fakeRebalancer{stages: []uint64{0, 0}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	// Exactly frequency blocks since the last cycle
	payload, err := summarizer.process(110)
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), payload)
	assert.True(s.T(), payload.SummarizationStarted)
	assert.Equal(s.T(), 1, rebalancer.startCalls)
}

func (s *SummarizerTestSuite) TestDrivesAllStages() {
	// First read decides to start, then the contract walks down to zero
	rebalancer := &fakeRebalancer{stages: []uint64{0, 3, 2, 1, 0}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	payload, err := summarizer.process(111)
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), payload)

	assert.True(s.T(), payload.SummarizationStarted)
	assert.Equal(s.T(), uint64(3), payload.StagesDriven)
	assert.Len(s.T(), payload.TxHashes, 4)
	assert.Equal(s.T(), uint64(111), payload.Height)

	// The stage got re-read after every confirmation
	assert.Equal(s.T(), 5, rebalancer.reads)
	assert.Equal(s.T(), []string{
		"start_summarize_trades",
		"summarize_users_states",
		"summarize_users_states",
		"summarize_users_states",
	}, runner.labels)
}

func (s *SummarizerTestSuite) TestStartFailureAbortsCycle() {
	rebalancer := &fakeRebalancer{stages: []uint64{0, 3}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{failing: map[string]error{
		"start_summarize_trades": errors.New("nonce too low"),
	}}

	monitor := monitor_keeper.NewMonitor()
	summarizer := NewSummarizer(s.config).
		WithRebalancer(rebalancer).
		WithFactory(factory).
		WithRunner(runner).
		WithMonitor(monitor)

	payload, err := summarizer.process(111)
	assert.NotNil(s.T(), err)
	assert.Nil(s.T(), payload)

	// No continuations after the failed start
	assert.Equal(s.T(), 0, rebalancer.stageCalls)
	assert.Equal(s.T(), []string{"start_summarize_trades"}, runner.labels)
	assert.Equal(s.T(), uint64(1), monitor.Report.Keeper.Errors.TransactionFailures.Load())
}

func (s *SummarizerTestSuite) TestResumesPendingCycle() {
	// Stage found non zero without starting anything, a previous run left it behind
	rebalancer := &fakeRebalancer{stages: []uint64{2, 2, 1, 0}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	payload, err := summarizer.process(105)
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), payload)

	assert.False(s.T(), payload.SummarizationStarted)
	assert.Equal(s.T(), uint64(2), payload.StagesDriven)
	assert.Equal(s.T(), 0, rebalancer.startCalls)
}

func (s *SummarizerTestSuite) TestStageFailureStopsDriving() {
	rebalancer := &fakeRebalancer{stages: []uint64{2, 2}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{failing: map[string]error{
		"summarize_users_states": errors.New("reverted"),
	}}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	payload, err := summarizer.process(105)
	assert.NotNil(s.T(), err)
	assert.Nil(s.T(), payload)
	assert.Len(s.T(), runner.labels, 1)
}

func (s *SummarizerTestSuite) TestTooManyStages() {
	// Contract never reaches stage zero
	rebalancer := &fakeRebalancer{stages: []uint64{5}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	payload, err := summarizer.process(105)
	assert.ErrorIs(s.T(), err, ErrTooManyStages)
	assert.Nil(s.T(), payload)
	assert.Equal(s.T(), s.config.Keeper.MaxStagesPerCycle, rebalancer.stageCalls)
}

func (s *SummarizerTestSuite) TestFrequencyIsCached() {
	rebalancer := &fakeRebalancer{stages: []uint64{0}, lastBlock: 100}
	factory := &fakeFactory{frequency: 10}
	runner := &fakeRunner{}

	summarizer := s.newSummarizer(rebalancer, factory, runner)

	_, err := summarizer.process(101)
	assert.Nil(s.T(), err)
	_, err = summarizer.process(102)
	assert.Nil(s.T(), err)

	assert.Equal(s.T(), 1, factory.reads)
}
