// touchpath attributes marketing conversions to channels.
//
// Usage:
//
//	touchpath run    -i journeys.csv [--methods shapley,markov] [--markov-order 2] [-f markdown]
//	touchpath matrix -i journeys.xlsx --sheet journeys [--markov-order 1]
//	touchpath version
//
// Settings are read from --config (YAML), .env, TOUCHPATH_* variables and
// flags, in that order.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
