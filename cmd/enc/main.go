// Command enc transpiles a natural-language description into source code
// with a large language model and reports what the call cost.
//
// Usage:
//
//	# Generate hello.py from hello.en with the default backend
//	enc hello.en -o hello.py
//
//	# Pick a backend and model, pin the seed
//	enc design.en -l rust --provider openai --model gpt-4o -s 42
//
//	# Print the resolved configuration and exit
//	enc hello.en -o hello.py --show-config --format yaml
//
//	# Re-run on every save, exporting Prometheus metrics
//	enc hello.en -o hello.py --watch --metrics-file enc.prom
//
//	# Print the JSON Schema of the pricing catalog
//	enc schema pricing
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(os.Stdout, os.Stderr, os.Args, os.Environ())
	if err := app.root().ExecuteContext(ctx); err != nil {
		app.printError(err)
		stop()
		os.Exit(1)
	}
}
