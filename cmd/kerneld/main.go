// Command kerneld boots the microkernel coordination core: it builds
// the HAL/Process-Manager stand-ins, initializes the Event Manager
// singleton, and runs the kcall dispatcher loop until PROCD exits or
// shutdown is requested.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/LucasGdosR/kernel/internal/boot"
	"github.com/LucasGdosR/kernel/internal/capability"
	"github.com/LucasGdosR/kernel/internal/event"
	"github.com/LucasGdosR/kernel/internal/kcall"
	"github.com/LucasGdosR/kernel/internal/klog"
	"github.com/LucasGdosR/kernel/internal/sys/config"
)

func main() {
	configPath := flag.String("config", "", "Path to a kernel.yaml configuration file (default: built-in defaults)")
	platformFlag := flag.String("platform", "", "Override the configured platform (pc or microvm)")
	logLevelFlag := flag.String("log-level", "", "Override the configured log level (trace, info, warn, error, panic)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kerneld [options]\n\nRuns the microkernel event/IPC coordination core.\n\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  kerneld -config /etc/kernel.yaml\n")
		fmt.Fprintf(os.Stderr, "  kerneld -platform microvm -log-level trace\n")
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if *platformFlag != "" {
		cfg.Platform = config.Platform(*platformFlag)
	}
	if *logLevelFlag != "" {
		cfg.LogLevel = *logLevelFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := klog.New(klog.ParseLevel(cfg.LogLevel))
	caps := capability.NewSet()
	hal := boot.NewSoftHal(cfg.Platform, cfg.WordWidth)
	pmgr := boot.NewSoftPM(caps)

	evmgr := event.Init(hal, pmgr, caps, log)

	board := kcall.NewChannelScoreboard()
	dispatcher := kcall.New(board, evmgr, pmgr, caps, log, nil)

	log.Infof("kerneld booting: platform=%s word_width=%d log_level=%s", cfg.Platform, cfg.WordWidth, cfg.LogLevel)
	dispatcher.Run()
	log.Infof("kerneld stopped")
}
