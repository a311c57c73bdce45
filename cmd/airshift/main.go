package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"

	"github.com/airshift-io/airshift/cmd/airshift/app"
	"github.com/airshift-io/airshift/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := app.NewAirshiftCommand(ctx).Execute()
	log.Flush()
	if err != nil {
		os.Exit(1)
	}
}
