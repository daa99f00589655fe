package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCLIApp(os.Stdout).RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "dex: %v\n", err)
		return 1
	}
	return 0
}
