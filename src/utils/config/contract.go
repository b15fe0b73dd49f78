package config

import (
	"github.com/spf13/viper"
)

type Contract struct {
	// Address of the rebalancer contract. Required outside development mode.
	RebalancerAddress string

	// Hex encoded ECDSA key used to sign keeper transactions
	SignerKey string

	// Path to the compiled factory artifact (abi + bytecode), development mode only
	FactoryArtifactPath string

	// Asset pair the development factory creates a rebalancer for
	Token0 string
	Token1 string

	// Uniswap V3 fee tier of the managed pool, in hundredths of a bip
	FeeTier int64

	// Explorer API used by the abi command
	ExplorerApiUrl string
	ExplorerApiKey string
}

func setContractDefaults() {
	viper.SetDefault("Contract.RebalancerAddress", "")
	viper.SetDefault("Contract.SignerKey", "")
	viper.SetDefault("Contract.FactoryArtifactPath", "artifacts/RebalancerFactory.json")
	viper.SetDefault("Contract.Token0", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	viper.SetDefault("Contract.Token1", "0xdAC17F958D2ee523a2206206994597C13D831ec7")
	viper.SetDefault("Contract.FeeTier", 3000)
	viper.SetDefault("Contract.ExplorerApiUrl", "https://api.etherscan.io/api")
	viper.SetDefault("Contract.ExplorerApiKey", "")
}
