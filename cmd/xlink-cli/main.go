package main

import (
	"xlinkfetcher/cmd/xlink-cli/commands"
	"xlinkfetcher/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	commands.ExecuteContext(ctx)
}
