package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

// Pool is a typed read handle to the underlying Uniswap V3 pool
type Pool struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

func NewPool(address common.Address, backend bind.ContractBackend) (self *Pool, err error) {
	parsed, err := ParseABI(PoolABI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool abi: %w", err)
	}

	self = &Pool{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
	}
	return
}

func (self *Pool) Address() common.Address {
	return self.address
}

// CurrentTick reads the pool's current tick from slot0
func (self *Pool) CurrentTick(ctx context.Context) (tick int64, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "slot0")
	if err != nil {
		return
	}

	tick = out[1].(*big.Int).Int64()
	return
}

func (self *Pool) TickSpacing(ctx context.Context) (spacing int64, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "tickSpacing")
	if err != nil {
		return
	}

	spacing = out[0].(*big.Int).Int64()
	return
}
