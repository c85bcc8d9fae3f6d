// ABOUTME: CLI mode implementation for non-interactive score tracking
// ABOUTME: Handles progress display, offset dumping, and signal handling for command-line usage

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notewatch/config"
	"notewatch/session"
	"notewatch/tui"
)

const statusLineInterval = 500 * time.Millisecond

// isTTY checks if the given file is a terminal.
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// RunCLI attaches to the target process, resolves offsets, and runs the poll
// loop until interrupted, optionally attaching the live dashboard.
func RunCLI(opts RunOptions, cfg config.Config) error {
	tr, err := buildTracker(cfg, opts.DumpFile)
	if err != nil {
		return err
	}

	if opts.DryRun {
		fmt.Printf("dry-run: offsets resolved for %q, not starting tracker\n", cfg.ProcessName)
		return nil
	}

	if err := tr.StartSession(time.Now()); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	watchDone := make(chan struct{})
	defer close(watchDone)

	sharedCfg := config.NewSharedConfig(cfg)
	if opts.ConfigPath != "" {
		if err := WatchConfig(opts.ConfigPath, sharedCfg, watchDone); err != nil {
			fmt.Fprintf(os.Stderr, "warning: config file watch disabled: %v\n", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := session.NewShutdownSignal()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		shutdown.Trigger()
		cancel()
	}()

	if opts.Visual {
		updateChan := make(chan tui.Update, 8)
		tr.AttachStatusChannel(updateChan)

		go func() {
			if err := tui.Run(tui.Options{ProcessName: cfg.ProcessName}, updateChan); err != nil {
				fmt.Fprintf(os.Stderr, "dashboard error: %v\n", err)
			}
			shutdown.Trigger()
			cancel()
		}()

		return tr.Run(ctx, shutdown)
	}

	return runWithStatusLine(ctx, tr, shutdown)
}

// runWithStatusLine drives the tracker loop with a plain-terminal progress
// line in place of the full dashboard: on a terminal a spinner is redrawn
// every statusLineInterval, and one line is printed per captured play whose
// chart title is known.
func runWithStatusLine(ctx context.Context, tr *Tracker, shutdown *session.ShutdownSignal) error {
	isTerminal := isTTY(os.Stdout)

	updateChan := make(chan tui.Update, 8)
	tr.AttachStatusChannel(updateChan)

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerIdx := 0

	done := make(chan error, 1)
	go func() {
		done <- tr.Run(ctx, shutdown)
	}()

	var ticker *time.Ticker
	if isTerminal {
		ticker = time.NewTicker(statusLineInterval)
		defer ticker.Stop()
	}

	fmt.Println("notewatch is tracking. Press Ctrl+C to stop.")

	var tickerC <-chan time.Time
	if ticker != nil {
		tickerC = ticker.C
	}

	for {
		select {
		case update := <-updateChan:
			if update.ChartTitle == "" {
				continue
			}
			best := ""
			if update.IsNewBest {
				best = "  NEW BEST"
			}
			if isTerminal {
				fmt.Print("\r\033[K")
			}
			fmt.Printf("%s [%s]: %d EX  %s  %s%s\n",
				update.ChartTitle, update.Difficulty, update.ExScore, update.Grade, update.Lamp, best)

		case <-tickerC:
			fmt.Printf("\r%s tracking%s", time.Now().Format("15:04:05"), spinnerFrames[spinnerIdx])
			spinnerIdx = (spinnerIdx + 1) % len(spinnerFrames)

		case err := <-done:
			if isTerminal {
				fmt.Print("\r\033[K")
			}
			fmt.Println("notewatch stopped.")
			return err
		}
	}
}

// RunDumpOffsets resolves offsets without starting the poll loop and prints
// the resolved Collection plus a small preview of the song directory, for
// diagnosing signature/offset drift after a game update.
func RunDumpOffsets(opts RunOptions, cfg config.Config) error {
	reader, err := attachToProcess(cfg, opts.DumpFile)
	if err != nil {
		return err
	}

	offsets, err := resolveOffsets(reader, cfg, gameVersionHint)
	if err != nil {
		return err
	}

	fmt.Printf("version:       %s\n", offsets.Version)
	fmt.Printf("song_list:     0x%08X\n", offsets.SongList)
	fmt.Printf("data_map:      0x%08X\n", offsets.DataMap)
	fmt.Printf("judge_data:    0x%08X\n", offsets.JudgeData)
	fmt.Printf("play_data:     0x%08X\n", offsets.PlayData)
	fmt.Printf("play_settings: 0x%08X\n", offsets.PlaySettings)
	fmt.Printf("unlock_data:   0x%08X\n", offsets.UnlockData)
	fmt.Printf("current_song:  0x%08X\n", offsets.CurrentSong)
	fmt.Printf("valid:         %v\n", offsets.IsValid())

	if !offsets.IsValid() {
		return nil
	}

	tr := NewTracker(reader, offsets, cfg)
	n, err := tr.LoadSongDirectory()
	if err != nil {
		fmt.Printf("song directory: failed to load (%v)\n", err)
		return nil
	}

	fmt.Printf("\nsong directory: %d entries loaded\n", n)
	shown := 0
	for _, song := range tr.songs {
		if shown >= 10 {
			fmt.Println("...")
			break
		}
		fmt.Printf("  %s\n", songEntryDisplayName(song))
		shown++
	}

	return nil
}
