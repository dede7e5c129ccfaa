// Command d4 compresses images with the Daubechies-4 wavelet transform.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/cocosip/go-daubechies/codec/nonstandard"
	_ "github.com/cocosip/go-daubechies/codec/standard"
)

func main() {
	log.SetFlags(0)
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	verbose bool
	workers int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "d4",
		Short:        "Daubechies-4 wavelet image compression",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log every pipeline stage")
	root.PersistentFlags().IntVarP(&flags.workers, "workers", "j", 1, "goroutines per transform pass")

	root.AddCommand(
		newRoundtripCmd(flags),
		newEncodeCmd(flags),
		newDecodeCmd(flags),
		newInfoCmd(),
		newDumpCmd(),
		newSchemesCmd(),
	)
	return root
}
