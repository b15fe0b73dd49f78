package contracts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer holds the keeper's transaction signing identity
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
	chainId *big.Int
}

func NewSigner(keyHex string, chainId *big.Int) (self *Signer, err error) {
	if keyHex == "" {
		return nil, fmt.Errorf("signer key not configured")
	}
	if chainId == nil {
		return nil, fmt.Errorf("chain id not set")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse signer key: %w", err)
	}

	self = &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		chainId: chainId,
	}
	return
}

func (self *Signer) Address() common.Address {
	return self.address
}

// TransactOpts returns fresh options bound to the given context.
// Nonce and gas are left for the backend to fill, the loop keeps at most
// one transaction in flight so there is no nonce race to manage.
func (self *Signer) TransactOpts(ctx context.Context) *bind.TransactOpts {
	opts, err := bind.NewKeyedTransactorWithChainID(self.key, self.chainId)
	if err != nil {
		// Only fails on a nil chain id, which NewSigner guarantees against
		panic(err)
	}
	opts.Context = ctx
	return opts
}
