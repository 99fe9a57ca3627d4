package main

import (
	"fmt"

	"jito-speedtest/internal/adapter/delivery/console"
	"jito-speedtest/internal/domain/entity"

	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var testnet bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Test block engine endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSpeedTest(cmd, testnet)
		},
	}
	cmd.Flags().BoolVarP(&testnet, "testnet", "t", false, "test testnet endpoints instead of mainnet")
	return cmd
}

func (a *app) runSpeedTest(cmd *cobra.Command, testnet bool) error {
	out := cmd.OutOrStdout()

	network := entity.NetworkMainnet
	if testnet {
		network = entity.NetworkTestnet
		fmt.Fprintln(out, "🧪 Testing Testnet endpoints...")
	} else {
		fmt.Fprintln(out, "🌐 Testing Mainnet endpoints...")
	}
	fmt.Fprintln(out, "Starting speed test, please wait...")
	fmt.Fprintln(out)

	svc, err := a.factories.speedTest(a.logger)
	if err != nil {
		return err
	}

	result, err := svc.Run(cmd.Context(), network)
	if err != nil {
		return err
	}

	return console.NewReporter(out).Report(result)
}
