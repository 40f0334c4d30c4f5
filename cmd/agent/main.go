package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"browser-task/internal/application/port/input"
	"browser-task/internal/config"
	"browser-task/internal/di"
	"browser-task/internal/infrastructure/env"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		product    string
		goal       string
		timeout    time.Duration
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:           "agent",
		Short:         "Log into the demo shop and print the price of a product",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envService := env.NewEnvService()

			var (
				cfg *config.Config
				err error
			)
			if configPath != "" {
				cfg, err = config.LoadFrom(envService, configPath)
			} else {
				cfg, err = config.Load(envService)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %v\n", err)
				return err
			}

			container, err := di.NewContainer(cfg, di.Options{Name: "agent", Console: verbose})
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Failed: %v\n", err)
				return err
			}
			defer container.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			res := container.Runner.Run(ctx, input.RunRequest{Goal: goal, Product: product})

			out := cmd.OutOrStdout()
			if price, ok := res.Result.Value(); ok {
				color.New(color.FgGreen, color.Bold).Fprint(out, "Success!")
				fmt.Fprintf(out, " %s costs %s\n", res.Product, price.StringFixed(2))
				return nil
			}

			failure := res.Result.Err()
			color.New(color.FgRed, color.Bold).Fprint(out, "Failed:")
			fmt.Fprintf(out, " %s: %s\n", failure.Kind, failure.Message)
			if failure.Artifact != "" {
				color.New(color.Faint).Fprintf(out, "Screenshot: %s\n", failure.Artifact)
			}
			return failure
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (default $CONFIG_FILE or ./config.yaml)")
	cmd.Flags().StringVarP(&product, "product", "p", "", "product name to price (overrides config)")
	cmd.Flags().StringVar(&goal, "goal", "", "free-text goal recorded with the run")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall run deadline")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "mirror logs to stderr")

	return cmd
}
