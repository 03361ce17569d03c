// Command brainpack inspects and rewrites BRPK archives.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	brainpack "github.com/neurodataio/go-brainpack"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "brainpack",
		Short: "brainpack - inspect and rewrite BRPK brain-data archives",
		Long: `brainpack works with BRPK archives: single-file containers bundling
named brain-imaging data views with packed subject resources (surfaces,
transforms, masks, ROI overlays).

Use subcommands to perform different operations:
  - inspect: summarize the views and packed subjects in an archive
  - repack:  rewrite an archive with a different compression algorithm`,
		SilenceUsage: true,
	}
	root.AddCommand(newInspectCmd())
	root.AddCommand(newRepackCmd())
	return root
}

func newInspectCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Summarize the views and packed subjects in an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.NewNop()
			if verbose {
				var err error
				if logger, err = zap.NewDevelopment(); err != nil {
					return err
				}
				defer logger.Sync()
			}

			ds, skipped, err := brainpack.FromFile(args[0], brainpack.WithLogger(logger))
			if err != nil {
				return err
			}
			defer ds.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", ds)
			ds.Each(func(name string, view brainpack.Dataview) {
				fmt.Fprintf(out, "  view %-24s priority=%g\n", name, view.Priority())
			})
			if subjects, err := ds.File().Group("subjects"); err == nil {
				for _, id := range subjects.Names() {
					fmt.Fprintf(out, "  subject %s\n", id)
				}
			}
			for _, s := range skipped {
				fmt.Fprintf(out, "  skipped %s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log load diagnostics")
	return cmd
}

func newRepackCmd() *cobra.Command {
	var compName string
	cmd := &cobra.Command{
		Use:   "repack <in> <out>",
		Short: "Rewrite an archive with a different compression algorithm",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := parseCompression(compName)
			if err != nil {
				return err
			}

			in, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer in.Close()
			root, metadata, err := brainpack.ReadArchive(in)
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()
			return brainpack.WriteArchive(out, root, metadata, brainpack.WithCompression(comp))
		},
	}
	cmd.Flags().StringVarP(&compName, "compression", "c", "zstd", "none, zip, zstd, lz4, or brotli")
	return cmd
}

func parseCompression(name string) (brainpack.Compression, error) {
	switch name {
	case "none":
		return brainpack.CompNone, nil
	case "zip":
		return brainpack.CompZIP, nil
	case "zstd":
		return brainpack.CompZSTD, nil
	case "lz4":
		return brainpack.CompLZ4, nil
	case "brotli":
		return brainpack.CompBR, nil
	}
	return 0, fmt.Errorf("unknown compression %q", name)
}
