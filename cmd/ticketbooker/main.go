package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"ticketbooker/cmd/ticketbooker/commands"
	"ticketbooker/lib/serviceutil"
	"ticketbooker/lib/telemetry"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env", "err", err)
	}

	ctx := serviceutil.SignalContext()
	otel, err := telemetry.SetupFromEnv(ctx, "ticketbooker")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}

	code := 0
	if commands.ExecuteContext(ctx) != nil {
		code = 1
	}
	err = otel.Shutdown(context.Background())
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
	os.Exit(code)
}
