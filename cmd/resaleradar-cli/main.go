package main

import (
	"context"

	"resaleradar/cmd/resaleradar-cli/commands"
	"resaleradar/lib/telemetry"
)

func main() {
	telemetry.InitSlog(false)
	telemetry.SetupFromEnv(context.Background(), "resaleradar-cli")
	commands.ExecuteContext(context.Background())
}
