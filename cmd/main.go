package main

import (
	"os"

	"github.com/spf13/cobra"

	"dartino/internal/inspect"
	"dartino/internal/logger"
	"dartino/pkg/color"
)

// Main entry point for the Dartino VM inspection tool.
func main() {
	options := inspect.Inspector{}

	rootCmd := &cobra.Command{
		Use:   "dartino",
		Short: "Inspection tool for the Dartino VM execution substrate",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(options.Verbose, options.NoColor)
			if options.NoColor {
				color.EnableColor(false)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false, "Verbose mode")
	rootCmd.PersistentFlags().BoolVarP(&options.NoColor, "no-color", "n", false, "No color")
	rootCmd.PersistentFlags().StringVarP(&options.ConfigFile, "config", "c", "", "dartino.toml with function ranges and print log path")

	transcodeCmd := &cobra.Command{
		Use:   "transcode <file>",
		Short: "Validate a UTF-8 file and decode it to UTF-16 code units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.SourceFile = args[0]
			return options.Transcode()
		},
	}
	transcodeCmd.Flags().StringVarP(&options.OutputFile, "output", "o", "", "Write UTF-16LE output to this file")

	codepointsCmd := &cobra.Command{
		Use:   "codepoints <file>",
		Short: "List the code points of a UTF-8 file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.SourceFile = args[0]
			return options.CodePoints()
		},
	}

	stackdumpCmd := &cobra.Command{
		Use:   "stackdump <snapshot>",
		Short: "Print the frame walk of a CBOR stack snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.SourceFile = args[0]
			return options.DumpSnapshot()
		},
	}

	rootCmd.AddCommand(transcodeCmd, codepointsCmd, stackdumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
