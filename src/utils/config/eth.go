package config

import (
	"time"

	"github.com/spf13/viper"
)

type Eth struct {
	// RPC endpoint. Socket path for ipc, URL for http.
	Provider string

	// Transport kind, one of: ipc, http
	ProviderType string

	// Timeout for a single RPC read
	RequestTimeout time.Duration
}

func setEthDefaults() {
	viper.SetDefault("Eth.Provider", "")
	viper.SetDefault("Eth.ProviderType", "")
	viper.SetDefault("Eth.RequestTimeout", "15s")
}
