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

// Factory is a typed handle to the rebalancer factory
type Factory struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
	signer  *Signer
}

func NewFactory(address common.Address, backend bind.ContractBackend, signer *Signer) (self *Factory, err error) {
	parsed, err := ParseABI(FactoryABI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory abi: %w", err)
	}

	self = &Factory{
		address: address,
		abi:     parsed,
		bound:   bind.NewBoundContract(address, parsed, backend, backend, backend),
		signer:  signer,
	}
	return
}

func (self *Factory) Address() common.Address {
	return self.address
}

func (self *Factory) SummarizationFrequency(ctx context.Context) (frequency uint64, err error) {
	var out []interface{}
	err = self.bound.Call(&bind.CallOpts{Context: ctx}, &out, "summarizationFrequency")
	if err != nil {
		return
	}

	frequency = out[0].(*big.Int).Uint64()
	return
}

func (self *Factory) CreateRebalancer(ctx context.Context, token0, token1 common.Address, fee int64) (tx *types.Transaction, err error) {
	return self.bound.Transact(self.signer.TransactOpts(ctx), "createRebalancer", token0, token1, big.NewInt(fee))
}

// RebalancerCreatedAddress digs the created child's address out of the
// creation receipt's RebalancerCreated event
func (self *Factory) RebalancerCreatedAddress(receipt *types.Receipt) (address common.Address, err error) {
	event, ok := self.abi.Events["RebalancerCreated"]
	if !ok {
		err = fmt.Errorf("factory abi has no RebalancerCreated event")
		return
	}

	for _, vLog := range receipt.Logs {
		if len(vLog.Topics) < 2 || vLog.Topics[0] != event.ID {
			continue
		}

		// The child address is the first indexed argument
		address = common.BytesToAddress(vLog.Topics[1].Bytes())
		return
	}

	err = fmt.Errorf("RebalancerCreated event not found in receipt %s", receipt.TxHash.Hex())
	return
}
