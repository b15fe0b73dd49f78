package keeper

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/rebalancer-finance/keeper/src/utils/contracts"
	"github.com/rebalancer-finance/keeper/src/utils/eth"
)

func newFakeTx(nonce uint64) *types.Transaction {
	return types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		Gas:      21000,
		GasPrice: big.NewInt(1),
		Value:    big.NewInt(0),
		To:       &common.Address{},
	})
}

// fakeRebalancer serves a scripted sequence of stage reads
type fakeRebalancer struct {
	stages    []uint64
	lastBlock uint64
	reads     int

	position contracts.Position

	startCalls     int
	stageCalls     int
	rebalanceCalls int
	rebalancedWith contracts.RebalanceParams

	readErr error
}

func (self *fakeRebalancer) SummParams(ctx context.Context) (params contracts.SummarizationParams, err error) {
	if self.readErr != nil {
		return params, self.readErr
	}

	i := self.reads
	if i >= len(self.stages) {
		i = len(self.stages) - 1
	}
	self.reads += 1

	params.Stage = self.stages[i]
	params.LastBlock = self.lastBlock
	return
}

func (self *fakeRebalancer) Position(ctx context.Context) (contracts.Position, error) {
	return self.position, self.readErr
}

func (self *fakeRebalancer) StartSummarizeTrades(ctx context.Context) (*types.Transaction, error) {
	self.startCalls += 1
	return newFakeTx(uint64(self.startCalls)), nil
}

func (self *fakeRebalancer) SummarizeUsersStates(ctx context.Context) (*types.Transaction, error) {
	self.stageCalls += 1
	return newFakeTx(uint64(100 + self.stageCalls)), nil
}

func (self *fakeRebalancer) Rebalance(ctx context.Context, params contracts.RebalanceParams) (*types.Transaction, error) {
	self.rebalanceCalls += 1
	self.rebalancedWith = params
	return newFakeTx(uint64(200 + self.rebalanceCalls)), nil
}

type fakeFactory struct {
	frequency uint64
	reads     int
	err       error
}

func (self *fakeFactory) SummarizationFrequency(ctx context.Context) (uint64, error) {
	self.reads += 1
	return self.frequency, self.err
}

type fakePool struct {
	tick    int64
	spacing int64
	err     error
}

func (self *fakePool) CurrentTick(ctx context.Context) (int64, error) {
	return self.tick, self.err
}

func (self *fakePool) TickSpacing(ctx context.Context) (int64, error) {
	return self.spacing, self.err
}

// fakeRunner confirms every transaction unless its label is marked as failing
type fakeRunner struct {
	failing map[string]error
	labels  []string
}

func (self *fakeRunner) Execute(ctx context.Context, label string, send eth.SendFunc) eth.Result {
	self.labels = append(self.labels, label)

	if err, ok := self.failing[label]; ok {
		return eth.Result{Ok: false, Err: err}
	}

	tx, err := send()
	if err != nil {
		return eth.Result{Ok: false, Err: err}
	}
	return eth.Result{Ok: true, TxHash: tx.Hash(), GasUsed: 21000}
}

type fakeHeightReader struct {
	heights []uint64
	reads   int
	err     error
}

func (self *fakeHeightReader) Height(ctx context.Context) (uint64, error) {
	if self.err != nil {
		return 0, self.err
	}

	i := self.reads
	if i >= len(self.heights) {
		i = len(self.heights) - 1
	}
	self.reads += 1
	return self.heights[i], nil
}
