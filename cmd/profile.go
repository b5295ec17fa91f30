package cmd

import (
	"fmt"
	"os"
	"runtime/pprof"
)

// profiler owns the pprof output files selected by --profile.
// The zero value is inactive.
type profiler struct {
	prefix string
	cpu    *os.File
}

// activeProfiler is started by sharedSetup and stopped once from main.
var activeProfiler = &profiler{}

func (p *profiler) cpuPath() string { return p.prefix + ".cpu.prof" }
func (p *profiler) memPath() string { return p.prefix + ".mem.prof" }

// start begins CPU sampling. Notes go to stderr so csv and json on stdout stay clean.
func (p *profiler) start(prefix string) error {
	if p.cpu != nil {
		return nil
	}
	p.prefix = prefix
	f, err := os.Create(p.cpuPath())
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}
	p.cpu = f
	fmt.Fprintf(os.Stderr, "Profiling to %s and %s\n", p.cpuPath(), p.memPath())
	return nil
}

// stop ends CPU sampling and writes a heap snapshot. It is a no-op when inactive.
func (p *profiler) stop() error {
	if p.cpu == nil {
		return nil
	}
	pprof.StopCPUProfile()
	cpuErr := p.cpu.Close()
	p.cpu = nil

	mem, err := os.Create(p.memPath())
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = mem.Close() }()
	if err := pprof.WriteHeapProfile(mem); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	if cpuErr != nil {
		return fmt.Errorf("could not close CPU profile: %w", cpuErr)
	}

	fmt.Fprintf(os.Stderr, "Inspect with 'go tool pprof %s'\n", p.cpuPath())
	return nil
}
