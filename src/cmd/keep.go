package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rebalancer-finance/keeper/src/keeper"
	"github.com/rebalancer-finance/keeper/src/utils/logger"
)

func init() {
	RootCmd.AddCommand(keepCmd)
}

var keepCmd = &cobra.Command{
	Use:   "keep",
	Short: "Watch the chain and keep the rebalancer contract summarized and in range",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := keeper.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished keep command")
		applicationCtxCancel()
		return
	},
}
