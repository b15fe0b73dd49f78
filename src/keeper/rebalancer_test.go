package keeper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/contracts"
	monitor_keeper "github.com/rebalancer-finance/keeper/src/utils/monitoring/keeper"
)

func TestRebalancerTestSuite(t *testing.T) {
	suite.Run(t, new(RebalancerTestSuite))
}

type RebalancerTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *RebalancerTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *RebalancerTestSuite) newRebalancer(contract *fakeRebalancer, pool *fakePool, runner *fakeRunner) *Rebalancer {
	return NewRebalancer(s.config).
		WithRebalancer(contract).
		WithPool(pool).
		WithRunner(runner).
		WithMonitor(monitor_keeper.NewMonitor())
}

func (s *RebalancerTestSuite) TestPriceInRangeBoundaries() {
	position := contracts.Position{TickLower: 0, TickUpper: 600}

	// Lower bound owns the price, upper does not
	assert.True(s.T(), priceInPositionRange(0, position))
	assert.True(s.T(), priceInPositionRange(300, position))
	assert.True(s.T(), priceInPositionRange(599, position))
	assert.False(s.T(), priceInPositionRange(600, position))
	assert.False(s.T(), priceInPositionRange(-1, position))
}

func (s *RebalancerTestSuite) TestCalcRebalanceParams() {
	params := calcRebalanceParams(1000, 60, 10)
	assert.Equal(s.T(), int64(660), params.TickLower)
	assert.Equal(s.T(), int64(1260), params.TickUpper)

	// Snapping rounds towards negative infinity
	params = calcRebalanceParams(-1000, 60, 10)
	assert.Equal(s.T(), int64(-1320), params.TickLower)
	assert.Equal(s.T(), int64(-720), params.TickUpper)

	// Both bounds stay multiples of the spacing
	assert.Zero(s.T(), params.TickLower%60)
	assert.Zero(s.T(), params.TickUpper%60)
}

func (s *RebalancerTestSuite) TestCalcRebalanceParamsClamped() {
	params := calcRebalanceParams(MinTick+10, 60, 10)
	assert.GreaterOrEqual(s.T(), params.TickLower, MinTick)
	assert.Less(s.T(), params.TickLower, params.TickUpper)

	params = calcRebalanceParams(MaxTick-10, 60, 10)
	assert.LessOrEqual(s.T(), params.TickUpper, MaxTick)
	assert.Less(s.T(), params.TickLower, params.TickUpper)
}

func (s *RebalancerTestSuite) TestNoRebalanceWhenInRange() {
	contract := &fakeRebalancer{position: contracts.Position{TickLower: 0, TickUpper: 600}}
	pool := &fakePool{tick: 300, spacing: 60}
	runner := &fakeRunner{}

	rebalancer := s.newRebalancer(contract, pool, runner)

	payload := &CyclePayload{Height: 111}
	err := rebalancer.check(payload)
	assert.Nil(s.T(), err)

	assert.True(s.T(), payload.PriceInRange)
	assert.False(s.T(), payload.Rebalanced)
	assert.Equal(s.T(), 0, contract.rebalanceCalls)
	assert.Equal(s.T(), int64(0), payload.TickLower)
	assert.Equal(s.T(), int64(600), payload.TickUpper)
}

func (s *RebalancerTestSuite) TestRebalancesWhenOutOfRange() {
	contract := &fakeRebalancer{position: contracts.Position{TickLower: 0, TickUpper: 600}}
	// Upper bound is exclusive, this tick is already outside
	pool := &fakePool{tick: 600, spacing: 60}
	runner := &fakeRunner{}

	rebalancer := s.newRebalancer(contract, pool, runner)

	payload := &CyclePayload{Height: 111}
	err := rebalancer.check(payload)
	assert.Nil(s.T(), err)

	assert.False(s.T(), payload.PriceInRange)
	assert.True(s.T(), payload.Rebalanced)
	assert.Equal(s.T(), 1, contract.rebalanceCalls)
	assert.Equal(s.T(), []string{"rebalance"}, runner.labels)

	// New range centered on the current tick
	assert.Equal(s.T(), int64(300), contract.rebalancedWith.TickLower)
	assert.Equal(s.T(), int64(900), contract.rebalancedWith.TickUpper)
	assert.Equal(s.T(), contract.rebalancedWith.TickLower, payload.TickLower)
	assert.Equal(s.T(), contract.rebalancedWith.TickUpper, payload.TickUpper)
	assert.Len(s.T(), payload.TxHashes, 1)
}

func (s *RebalancerTestSuite) TestRebalanceFailureReported() {
	contract := &fakeRebalancer{position: contracts.Position{TickLower: 0, TickUpper: 600}}
	pool := &fakePool{tick: 1000, spacing: 60}
	runner := &fakeRunner{failing: map[string]error{
		"rebalance": errors.New("reverted"),
	}}

	monitor := monitor_keeper.NewMonitor()
	rebalancer := NewRebalancer(s.config).
		WithRebalancer(contract).
		WithPool(pool).
		WithRunner(runner).
		WithMonitor(monitor)

	payload := &CyclePayload{Height: 111}
	err := rebalancer.check(payload)
	assert.NotNil(s.T(), err)

	assert.False(s.T(), payload.PriceInRange)
	assert.False(s.T(), payload.Rebalanced)
	assert.Empty(s.T(), payload.TxHashes)
	assert.Equal(s.T(), uint64(1), monitor.Report.Keeper.Errors.TransactionFailures.Load())
}

func (s *RebalancerTestSuite) TestReadFailureSkipsRebalance() {
	contract := &fakeRebalancer{readErr: errors.New("provider down")}
	pool := &fakePool{tick: 1000, spacing: 60}
	runner := &fakeRunner{}

	rebalancer := s.newRebalancer(contract, pool, runner)

	payload := &CyclePayload{Height: 111}
	err := rebalancer.check(payload)
	assert.NotNil(s.T(), err)
	assert.Empty(s.T(), runner.labels)
}
