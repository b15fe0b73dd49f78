package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Rebalancer is a typed read/write handle to the rebalancer contract,
// resolved once at startup and used for the lifetime of the process
type Rebalancer struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	signer  *Signer
}

func NewRebalancer(address common.Address, backend bind.ContractBackend, signer *Signer) (self *Rebalancer, err error) {
	parsed, err := ParseABI(RebalancerABI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rebalancer abi: %w", err)
	}

	self = &Rebalancer{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:  signer,
	}
	return
}

func (self *Rebalancer) Address() common.Address {
	return self.address
}

func (self *Rebalancer) SummParams(ctx context.Context) (params SummarizationParams, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "summParams")
	if err != nil {
		return
	}

	params.Stage = out[0].(*big.Int).Uint64()
	params.LastBlock = out[1].(*big.Int).Uint64()
	return
}

func (self *Rebalancer) Factory(ctx context.Context) (address common.Address, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "factory")
	if err != nil {
		return
	}

	address = out[0].(common.Address)
	return
}

func (self *Rebalancer) Pool(ctx context.Context) (address common.Address, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "pool")
	if err != nil {
		return
	}

	address = out[0].(common.Address)
	return
}

func (self *Rebalancer) Position(ctx context.Context) (position Position, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "position")
	if err != nil {
		return
	}

	position.TickLower = out[0].(*big.Int).Int64()
	position.TickUpper = out[1].(*big.Int).Int64()
	return
}

func (self *Rebalancer) StartSummarizeTrades(ctx context.Context) (tx *types.Transaction, err error) {
	return self.bound.Transact(self.signer.TransactOpts(ctx), "startSummarizeTrades")
}

func (self *Rebalancer) SummarizeUsersStates(ctx context.Context) (tx *types.Transaction, err error) {
	return self.bound.Transact(self.signer.TransactOpts(ctx), "summarizeUsersStates")
}

func (self *Rebalancer) Rebalance(ctx context.Context, params RebalanceParams) (tx *types.Transaction, err error) {
	return self.bound.Transact(self.signer.TransactOpts(ctx), "rebalance",
		big.NewInt(params.TickLower), big.NewInt(params.TickUpper))
}
