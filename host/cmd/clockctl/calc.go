package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bootclock/core"
)

func newCalcCmd() *cobra.Command {
	var from, to, maxSec uint32

	cmd := &cobra.Command{
		Use:     "calc",
		Short:   "Compute mult/shift for a counter frequency",
		Example: "clockctl calc --from 32768 --max-seconds 3600",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mult, shift, err := core.CalcMultShift(from, to, maxSec)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mult=%d shift=%d\n", mult, shift)
			fmt.Fprintf(out, "%d cycles = %d\n", from, core.CyclesToNs(uint64(from), mult, shift))
			return nil
		},
	}

	cmd.Flags().Uint32Var(&from, "from", 0, "Counter frequency in Hz")
	cmd.Flags().Uint32Var(&to, "to", core.NSecPerSec, "Target frequency in Hz")
	cmd.Flags().Uint32Var(&maxSec, "max-seconds", 3600, "Longest span between two reads in seconds")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}

func newHzToMultCmd() *cobra.Command {
	var hz, shift uint32

	cmd := &cobra.Command{
		Use:     "hz2mult",
		Short:   "Compute the nanosecond mult for a frequency and a fixed shift",
		Example: "clockctl hz2mult --hz 1000000 --shift 20",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mult, err := core.HzToMult(hz, shift)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mult=%d shift=%d\n", mult, shift)
			return nil
		},
	}

	cmd.Flags().Uint32Var(&hz, "hz", 0, "Counter frequency in Hz")
	cmd.Flags().Uint32Var(&shift, "shift", 0, "Shift, 0 to 32")
	_ = cmd.MarkFlagRequired("hz")

	return cmd
}
