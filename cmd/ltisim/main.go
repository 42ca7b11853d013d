// Command ltisim discretizes continuous transfer functions and runs them on
// a simulated update clock.
//
// Usage:
//
//	ltisim [command] [flags]
//
// The system is read from a YAML model file (--file) or given inline with
// --num/--den/--ts/--method/--prewarp; inline flags override the file.
//
// Examples:
//
//	ltisim coeffs --num 1 --den 1,1 --ts 0.5
//	ltisim simulate --num 1 --den 1,1.4,1 --ts 0.01 --samples 50
//	ltisim simulate -f model.yml --input sine --freq 3 --stall-at 20 --stall 2s
//	ltisim response --num 1 --den 1,1 --ts 0.1 --method bwd
//	ltisim coeffs --num 100 --den 1,14,100 --ts 0.05 --prewarp-cutoff 10.1 --damping 0.7
//	ltisim verify dsp/filter/lti/testdata/linear_system.yml
package main

import (
	"context"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(NewCmd().ExecuteContext(context.Background()))
}

func NewCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "ltisim [command] [flags]",
		Short:         "ltisim discretizes and simulates continuous LTI systems",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}

	coeffsCmd := &cobra.Command{
		Use:   "coeffs [flags]",
		Short: "Print discrete coefficients for every method",
		RunE:  doCoeffs,
	}
	addModelFlags(coeffsCmd)

	simulateCmd := &cobra.Command{
		Use:   "simulate [flags]",
		Short: "Run the discretized system on a simulated clock",
		RunE:  doSimulate,
	}
	addModelFlags(simulateCmd)
	simulateCmd.Flags().String("input", "step", "`<Input>` signal: step, impulse or sine")
	simulateCmd.Flags().Float64("freq", 1, "`<Freq>` of the sine input in rad/s")
	simulateCmd.Flags().Int("samples", 20, "`<Samples>` number of updates")
	simulateCmd.Flags().Duration("interval", 0, "`<Interval>` between updates, default one sampling period")
	simulateCmd.Flags().Int("stall-at", -1, "`<Index>` of an update to delay")
	simulateCmd.Flags().Duration("stall", 0, "`<Delay>` added before the stalled update")

	responseCmd := &cobra.Command{
		Use:   "response [flags]",
		Short: "Compare continuous and discrete frequency responses",
		RunE:  doResponse,
	}
	addModelFlags(responseCmd)
	responseCmd.Flags().Int("points", 10, "`<Points>` on a logarithmic frequency grid")
	responseCmd.Flags().Float64("wmin", 0.1, "`<Wmin>` lowest frequency in rad/s")
	responseCmd.Flags().Int("fft", 0, "`<Size>` use the FFT of the impulse response instead of the grid")

	verifyCmd := &cobra.Command{
		Use:   "verify [flags] <path to reference.yml>",
		Short: "Replay reference vectors through every method",
		RunE:  doVerify,
	}
	verifyCmd.Args = cobra.ExactArgs(1)
	verifyCmd.Flags().Float64("tol", 1e-5, "`<Tolerance>` on the absolute output deviation")

	rootCmd.AddCommand(
		coeffsCmd,
		simulateCmd,
		responseCmd,
		verifyCmd,
	)
	return rootCmd
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "`<Model>` YAML file")
	cmd.Flags().Float64Slice("num", nil, "`<Num>` numerator coefficients, highest degree first")
	cmd.Flags().Float64Slice("den", nil, "`<Den>` denominator coefficients, highest degree first")
	cmd.Flags().Float64("ts", defaultTs, "`<Ts>` sampling period in seconds")
	cmd.Flags().StringP("method", "m", "tustin", "`<Method>` tustin, forward-euler or backward-euler")
	cmd.Flags().Float64("prewarp", 0, "`<Omega>` Tustin prewarp frequency in rad/s")
	cmd.Flags().Float64("prewarp-cutoff", 0, "`<Omega>` prewarp at the natural frequency of a second-order section with this -3 dB point")
	cmd.Flags().Float64("damping", 0.7071067811865476, "`<Zeta>` damping ratio used with --prewarp-cutoff")
}
