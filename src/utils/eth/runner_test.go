package eth

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rebalancer-finance/keeper/src/utils/logger"
)

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

type RunnerTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *RunnerTestSuite) SetupSuite() {
	s.ctx = context.Background()
}

type fakeBackend struct {
	receipt *types.Receipt
	err     error
}

func (self *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if self.err != nil {
		return nil, self.err
	}
	return self.receipt, nil
}

func (self *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{1}, nil
}

func newTestTx() *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		Gas:      21000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
		To:       &common.Address{},
	})
}

func (s *RunnerTestSuite) TestConfirmed() {
	tx := newTestTx()
	backend := &fakeBackend{receipt: &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(5),
		GasUsed:     21000,
	}}

	runner := NewRunner(backend, logger.NewSublogger("test"), time.Second)

	result := runner.Execute(s.ctx, "test", func() (*types.Transaction, error) {
		return tx, nil
	})

	assert.True(s.T(), result.Ok)
	assert.Nil(s.T(), result.Err)
	assert.Equal(s.T(), tx.Hash(), result.TxHash)
	assert.Equal(s.T(), uint64(21000), result.GasUsed)
}

func (s *RunnerTestSuite) TestSendFailure() {
	backend := &fakeBackend{}
	runner := NewRunner(backend, logger.NewSublogger("test"), time.Second)

	sendErr := errors.New("nonce too low")
	result := runner.Execute(s.ctx, "test", func() (*types.Transaction, error) {
		return nil, sendErr
	})

	assert.False(s.T(), result.Ok)
	assert.ErrorIs(s.T(), result.Err, sendErr)
}

func (s *RunnerTestSuite) TestReverted() {
	tx := newTestTx()
	backend := &fakeBackend{receipt: &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(5),
		GasUsed:     30000,
	}}

	runner := NewRunner(backend, logger.NewSublogger("test"), time.Second)

	result := runner.Execute(s.ctx, "test", func() (*types.Transaction, error) {
		return tx, nil
	})

	assert.False(s.T(), result.Ok)
	assert.ErrorIs(s.T(), result.Err, ErrTxReverted)
	assert.Equal(s.T(), tx.Hash(), result.TxHash)
}

func (s *RunnerTestSuite) TestReceiptTimeout() {
	tx := newTestTx()
	backend := &fakeBackend{err: ethereum.NotFound}

	runner := NewRunner(backend, logger.NewSublogger("test"), 50*time.Millisecond)

	result := runner.Execute(s.ctx, "test", func() (*types.Transaction, error) {
		return tx, nil
	})

	assert.False(s.T(), result.Ok)
	assert.NotNil(s.T(), result.Err)
	assert.Equal(s.T(), tx.Hash(), result.TxHash)
}
