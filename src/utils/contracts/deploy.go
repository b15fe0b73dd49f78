package contracts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/rebalancer-finance/keeper/src/utils/config"
)

// Artifact is the compiler output format the factory is deployed from
type Artifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode string          `json:"bytecode"`
}

func LoadArtifact(path string) (out *Artifact, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	out = &Artifact{}
	err = json.Unmarshal(data, out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	if out.Bytecode == "" {
		return nil, fmt.Errorf("artifact %s has no bytecode", path)
	}
	return
}

// DeployDevContracts deploys a fresh factory and creates a rebalancer
// through it. Used only against local development nodes.
func DeployDevContracts(ctx context.Context, backend bind.ContractBackend, signer *Signer, contractConfig *config.Contract, log *logrus.Entry) (rebalancerAddress common.Address, err error) {
	artifact, err := LoadArtifact(contractConfig.FactoryArtifactPath)
	if err != nil {
		return
	}

	parsed, err := ParseABI(string(artifact.ABI))
	if err != nil {
		err = fmt.Errorf("failed to parse factory artifact abi: %w", err)
		return
	}

	deployBackend, ok := backend.(bind.DeployBackend)
	if !ok {
		err = fmt.Errorf("backend does not support waiting for deployments")
		return
	}

	factoryAddress, tx, _, err := bind.DeployContract(signer.TransactOpts(ctx), parsed, common.FromHex(artifact.Bytecode), backend)
	if err != nil {
		err = fmt.Errorf("failed to deploy factory: %w", err)
		return
	}

	log.WithField("tx", tx.Hash().Hex()).Info("Waiting for factory deployment")

	_, err = bind.WaitDeployed(ctx, deployBackend, tx)
	if err != nil {
		err = fmt.Errorf("factory deployment not mined: %w", err)
		return
	}

	log.WithField("factory", factoryAddress.Hex()).Info("Factory deployed")

	factory, err := NewFactory(factoryAddress, backend, signer)
	if err != nil {
		return
	}

	tx, err = factory.CreateRebalancer(ctx,
		common.HexToAddress(contractConfig.Token0),
		common.HexToAddress(contractConfig.Token1),
		contractConfig.FeeTier)
	if err != nil {
		err = fmt.Errorf("failed to create rebalancer: %w", err)
		return
	}

	receipt, err := bind.WaitMined(ctx, deployBackend, tx)
	if err != nil {
		err = fmt.Errorf("create rebalancer not mined: %w", err)
		return
	}

	rebalancerAddress, err = factory.RebalancerCreatedAddress(receipt)
	if err != nil {
		return
	}

	log.WithField("rebalancer", rebalancerAddress.Hex()).Info("Rebalancer created")
	return
}
