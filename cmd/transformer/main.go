// Command transformer runs the BPMN/PNML converter either as an HTTP service
// or as a one-shot file conversion on stdin/stdout.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/woped/bpmn-pnml-transformer/log"
	"github.com/woped/bpmn-pnml-transformer/server"
	"github.com/woped/bpmn-pnml-transformer/transform"
)

func main() {
	// a local .env is optional
	_ = godotenv.Load()
	log.SetDefaultLogger(log.NewGologLogger(golog.Default))

	root := &cobra.Command{
		Use:           "transformer",
		Short:         "Bidirectional converter between BPMN and WOPED workflow nets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), convertCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP transformation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := server.LoadConfig()
			if err != nil {
				return err
			}
			return server.New(config).ListenAndServe()
		},
	}
}

func convertCmd() *cobra.Command {
	var direction string
	var workflow bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Transform a model read from stdin and write the result to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}

			var result string
			switch direction {
			case "bpmntopnml":
				if workflow {
					result, err = transform.BPMNToWorkflowNet(string(input))
				} else {
					result, err = transform.BPMNToSTNet(string(input))
				}
			case "pnmltobpmn":
				result, err = transform.PNMLToBPMN(string(input))
			default:
				return fmt.Errorf("unknown direction %q", direction)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "bpmntopnml", "bpmntopnml or pnmltobpmn")
	cmd.Flags().BoolVar(&workflow, "workflow", false, "emit a WOPED workflow net instead of a standard net")
	return cmd
}
