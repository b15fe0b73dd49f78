package keeper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	monitor_keeper "github.com/rebalancer-finance/keeper/src/utils/monitoring/keeper"
)

func TestBlockWatcherTestSuite(t *testing.T) {
	suite.Run(t, new(BlockWatcherTestSuite))
}

type BlockWatcherTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *BlockWatcherTestSuite) SetupSuite() {
	s.config = config.Default()

	// Keep the limiter out of the way
	s.config.Keeper.WatcherRateLimit = 1000
}

func (s *BlockWatcherTestSuite) newWatcher(reader *fakeHeightReader) *BlockWatcher {
	return NewBlockWatcher(s.config).
		WithHeightReader(reader).
		WithMonitor(monitor_keeper.NewMonitor())
}

func (s *BlockWatcherTestSuite) TestEmitsOnlyIncreasingHeights() {
	reader := &fakeHeightReader{heights: []uint64{100, 100, 101, 99, 103}}
	watcher := s.newWatcher(reader)

	// Baseline snapshot, consumes the first read
	err := watcher.initLastHeight()
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), uint64(100), watcher.lastHeight)

	for i := 0; i < 4; i++ {
		err = watcher.run()
		assert.Nil(s.T(), err)
	}

	// Same head and the lower head got swallowed
	assert.Len(s.T(), watcher.Output, 2)
	assert.Equal(s.T(), uint64(101), <-watcher.Output)
	assert.Equal(s.T(), uint64(103), <-watcher.Output)
}

func (s *BlockWatcherTestSuite) TestKeepsPollingAfterFailure() {
	reader := &fakeHeightReader{heights: []uint64{100}}
	watcher := s.newWatcher(reader)

	err := watcher.initLastHeight()
	assert.Nil(s.T(), err)

	reader.err = errors.New("provider down")
	err = watcher.run()
	assert.Nil(s.T(), err)
	assert.Empty(s.T(), watcher.Output)

	reader.err = nil
	reader.heights = []uint64{105}
	reader.reads = 0
	err = watcher.run()
	assert.Nil(s.T(), err)
	assert.Equal(s.T(), uint64(105), <-watcher.Output)
}
