// main is the entry point of the vmfs CLI.
package main

import (
	"github.com/huangsam/vmfs/cmd"
	"github.com/huangsam/vmfs/internal/contract"
	"github.com/huangsam/vmfs/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
