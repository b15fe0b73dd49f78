package contracts

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"

	"github.com/rebalancer-finance/keeper/src/utils/config"
)

// Bindings groups the contract handles the keeper operates on
type Bindings struct {
	Signer     *Signer
	Rebalancer *Rebalancer
	Factory    *Factory
	Pool       *Pool
}

// Resolve builds handles for the rebalancer and its factory and pool.
// In development mode it deploys a fresh factory and creates the
// rebalancer through it, otherwise the configured address is used.
func Resolve(ctx context.Context, client *ethclient.Client, config *config.Config, log *logrus.Entry) (out *Bindings, err error) {
	chainId, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	signer, err := NewSigner(config.Contract.SignerKey, chainId)
	if err != nil {
		return
	}

	var rebalancerAddress common.Address
	if config.IsDevelopment {
		rebalancerAddress, err = DeployDevContracts(ctx, client, signer, &config.Contract, log)
		if err != nil {
			return
		}
	} else {
		if config.Contract.RebalancerAddress == "" {
			return nil, fmt.Errorf("rebalancer address not configured")
		}
		if !common.IsHexAddress(config.Contract.RebalancerAddress) {
			return nil, fmt.Errorf("bad rebalancer address: %s", config.Contract.RebalancerAddress)
		}
		rebalancerAddress = common.HexToAddress(config.Contract.RebalancerAddress)
	}

	rebalancer, err := NewRebalancer(rebalancerAddress, client, signer)
	if err != nil {
		return
	}

	factoryAddress, err := rebalancer.Factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve factory address: %w", err)
	}

	factory, err := NewFactory(factoryAddress, client, signer)
	if err != nil {
		return
	}

	poolAddress, err := rebalancer.Pool(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve pool address: %w", err)
	}

	pool, err := NewPool(poolAddress, client)
	if err != nil {
		return
	}

	log.WithField("rebalancer", rebalancer.Address().Hex()).
		WithField("factory", factory.Address().Hex()).
		WithField("pool", pool.Address().Hex()).
		Info("Resolved contract bindings")

	out = &Bindings{
		Signer:     signer,
		Rebalancer: rebalancer,
		Factory:    factory,
		Pool:       pool,
	}
	return
}
