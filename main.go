// ABOUTME: Entry point for notewatch
// ABOUTME: Handles command-line parsing and routing to CLI, dump, compare, or visual mode

// Package main provides the entry point for notewatch, a live score tracker
// for an external rhythm-game process.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"notewatch/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) > 1 && os.Args[1] == "compare" {
		return runCompare(os.Args[2:])
	}

	configPath := flag.String("config", "", "path to config file (default: "+defaultConfigHint()+")")
	signaturePath := flag.String("signatures", "", "path to signature file (default: from config)")
	dumpFile := flag.String("dump-file", "", "read process memory from this raw snapshot instead of attaching live")
	debug := flag.Bool("debug", false, "enable debug logging to notewatch-debug.log")
	dryRun := flag.Bool("dry-run", false, "resolve and print offsets, then exit without tracking")
	dumpOffsetsFlag := flag.Bool("dump-offsets", false, "print the resolved offset collection and exit")
	visual := flag.Bool("visual", false, "run with the live status dashboard attached")
	flag.Parse()

	if *debug {
		if err := SetupDebugLog("notewatch-debug.log"); err != nil {
			log.Printf("failed to setup debug log: %v", err)
			return 1
		}
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}
	if *signaturePath != "" {
		cfg.SignatureFile = *signaturePath
	}

	opts := RunOptions{
		ConfigPath:    path,
		SignaturePath: cfg.SignatureFile,
		DumpFile:      *dumpFile,
		DryRun:        *dryRun,
		DebugLog:      *debug,
		Visual:        *visual,
	}

	if *dumpOffsetsFlag {
		if err := RunDumpOffsets(opts, cfg); err != nil {
			log.Printf("dump-offsets error: %v", err)
			return 1
		}
		return 0
	}

	if err := RunCLI(opts, cfg); err != nil {
		log.Printf("tracker error: %v", err)
		return 1
	}

	return 0
}

func defaultConfigHint() string {
	return fmt.Sprintf("%q", config.GetConfigPath())
}
