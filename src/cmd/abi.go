package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rebalancer-finance/keeper/src/utils/eth"
)

func init() {
	RootCmd.AddCommand(abiCmd)
}

var abiCmd = &cobra.Command{
	Use:   "abi <address>",
	Short: "Download a contract's ABI from the configured explorer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		response, err := eth.GetContractRawABI(args[0], conf.Contract.ExplorerApiKey, conf.Contract.ExplorerApiUrl)
		if err != nil {
			return
		}

		fmt.Println(*response.Result)

		applicationCtxCancel()
		return
	},
}
