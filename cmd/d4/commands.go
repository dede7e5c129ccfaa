package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/cocosip/go-daubechies/archive"
	"github.com/cocosip/go-daubechies/codec"
	"github.com/cocosip/go-daubechies/grid"
	"github.com/cocosip/go-daubechies/raster"
	"github.com/cocosip/go-daubechies/threshold"
)

func newRoundtripCmd(root *rootFlags) *cobra.Command {
	flags := &transformFlags{}
	cmd := &cobra.Command{
		Use:   "roundtrip INPUT OUTPUT",
		Short: "Transform, threshold and reconstruct an image",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := flags.options(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}
			original := g.Clone()

			rep, err := codec.Roundtrip(c, g, opts)
			if err != nil {
				return err
			}
			if err := raster.WriteFile(args[1], g); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, rep)
			fmt.Fprintf(out, "max err:  %g\n", original.MaxAbsDiff(g))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newEncodeCmd(root *rootFlags) *cobra.Command {
	flags := &transformFlags{}
	cmd := &cobra.Command{
		Use:   "encode INPUT ARCHIVE",
		Short: "Transform and threshold an image into a coefficient archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, opts, err := flags.options(root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			g, err := flags.load(args[0])
			if err != nil {
				return err
			}

			rep, err := codec.Encode(c, g, opts)
			if err != nil {
				return err
			}
			if err := archive.WriteFile(args[1], archive.HeaderFor(c, g, opts), g); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printReport(out, rep)
			if st, err := os.Stat(args[1]); err == nil {
				fmt.Fprintf(out, "archive:  %d bytes\n", st.Size())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDecodeCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "decode ARCHIVE OUTPUT",
		Short: "Reconstruct an image from a coefficient archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, g, err := archive.ReadFile(args[0])
			if err != nil {
				return err
			}
			c, err := codec.GetByID(h.Scheme)
			if err != nil {
				return fmt.Errorf("scheme %d: %w", h.Scheme, err)
			}

			opts := h.Options().WithWorkers(root.workers)
			if root.verbose {
				opts.WithVerbose(nil)
			}
			if err := codec.Decode(c, g, opts); err != nil {
				return err
			}
			return raster.WriteFile(args[1], g)
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info ARCHIVE",
		Short: "Describe a coefficient archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, g, err := archive.ReadFile(args[0])
			if err != nil {
				return err
			}
			scheme := fmt.Sprintf("#%d", h.Scheme)
			if c, err := codec.GetByID(h.Scheme); err == nil {
				scheme = c.Name()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scheme:   %s\n", scheme)
			fmt.Fprintf(out, "size:     %dx%d\n", h.Width, h.Height)
			fmt.Fprintf(out, "variant:  normalized=%v filter=%s norm=%s\n", h.Normalized, h.Filter, h.Normalize)
			fmt.Fprintf(out, "quality:  %g\n", h.Quality)
			fmt.Fprintf(out, "zeros:    %d/%d\n", threshold.Zeros(g), g.Len())
			fmt.Fprintf(out, "energy:   %g\n", threshold.Energy(g))
			fmt.Fprintf(out, "payload:  %d bytes\n", h.Payload)
			return nil
		},
	}
}

func newDumpCmd() *cobra.Command {
	var precision int
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the samples of an image or coefficient archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadAny(args[0])
			if err != nil {
				return err
			}
			return grid.Fprint(cmd.OutOrStdout(), g, precision)
		},
	}
	cmd.Flags().IntVarP(&precision, "precision", "p", 3, "digits after the decimal point")
	return cmd
}

// loadAny reads an archive when the file carries the archive magic and a
// raster otherwise.
func loadAny(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	_, err = archive.ReadHeader(f)
	_ = f.Close()
	if err == nil {
		_, g, err := archive.ReadFile(path)
		return g, err
	}
	return raster.ReadFile(path)
}

func newSchemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List the registered 2D schemes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			modes := []codec.NormMode{codec.NormNone, codec.NormStep, codec.NormQuadrant, codec.NormPyramid}
			for _, c := range codec.List() {
				supported := lo.Filter(modes, func(m codec.NormMode, _ int) bool { return c.Supports(m) })
				names := lo.Map(supported, func(m codec.NormMode, _ int) string { return m.String() })
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tnorm=%s\n", c.ID(), c.Name(), strings.Join(names, ","))
			}
		},
	}
}
