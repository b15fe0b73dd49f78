package eth

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

var ErrTxReverted = errors.New("transaction reverted")

// SendFunc creates and submits a single transaction
type SendFunc func() (*types.Transaction, error)

// Result is what a transaction attempt collapses into: a success flag plus
// whatever detail was available. Callers branch on Ok instead of handling faults.
type Result struct {
	Ok      bool
	TxHash  common.Hash
	GasUsed uint64
	Err     error
}

// Runner wraps a single contract call with the receipt wait.
// Every failure mode (submit error, revert, timeout) comes back as Ok == false,
// nothing is raised past this boundary.
type Runner struct {
	backend        bind.DeployBackend
	log            *logrus.Entry
	receiptTimeout time.Duration
}

func NewRunner(backend bind.DeployBackend, log *logrus.Entry, receiptTimeout time.Duration) *Runner {
	return &Runner{
		backend:        backend,
		log:            log,
		receiptTimeout: receiptTimeout,
	}
}

func (self *Runner) Execute(ctx context.Context, label string, send SendFunc) Result {
	self.log.WithField("label", label).Debug("Sending transaction")

	tx, err := send()
	if err != nil {
		self.log.WithError(err).WithField("label", label).Error("Failed to send transaction")
		return Result{Ok: false, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, self.receiptTimeout)
	defer cancel()

	receipt, err := bind.WaitMined(ctx, self.backend, tx)
	if err != nil {
		self.log.WithError(err).
			WithField("label", label).
			WithField("tx", tx.Hash().Hex()).
			Error("Failed to get transaction receipt")
		return Result{Ok: false, TxHash: tx.Hash(), Err: err}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		self.log.WithField("label", label).
			WithField("tx", tx.Hash().Hex()).
			WithField("gas_used", receipt.GasUsed).
			Error("Transaction reverted")
		return Result{Ok: false, TxHash: tx.Hash(), GasUsed: receipt.GasUsed, Err: ErrTxReverted}
	}

	self.log.WithField("label", label).
		WithField("tx", tx.Hash().Hex()).
		WithField("block", receipt.BlockNumber.Uint64()).
		WithField("gas_used", receipt.GasUsed).
		Info("Transaction confirmed")

	return Result{Ok: true, TxHash: tx.Hash(), GasUsed: receipt.GasUsed}
}
