package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/connectors/tallyhttp"
	"github.com/tallylabs/tally/counter"
)

func configureService(ctx context.Context) (CounterService, func(), error) {
	if os.Getenv("TALLY_STORE") == "local" {
		return local(ctx)
	}

	return live(ctx)
}

func configureTracing(ctx context.Context) (func(), error) {
	if os.Getenv("TALLY_TRACE") != "console" {
		return func() {}, nil
	}

	exporter, err := tally.ConsoleExporter()
	if err != nil {
		return nil, err
	}

	provider := trace.NewTracerProvider(trace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func() { _ = provider.Shutdown(ctx) }, nil
}

func run() error {
	ctx := context.Background()

	stopTracing, err := configureTracing(ctx)
	if err != nil {
		return err
	}
	defer stopTracing()

	service, cleanup, err := configureService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := tallyhttp.NewHandler(
		service,
		tallyhttp.StatusMapper[counter.Counter](counter.ErrorStatus),
	)

	log.Println("listening on :9080")
	return http.ListenAndServe(":9080", withLogging(handler))
}

func main() {
	if err := run(); err != nil {
		log.Fatal("ListenAndServe:", err)
	}
}
