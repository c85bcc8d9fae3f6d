// ABOUTME: Shared initialization code for all modes (CLI, TUI, dump, compare)
// ABOUTME: Provides config/signature/offset setup and the process-attach seam

package main

import (
	"fmt"
	"log"
	"os"

	"notewatch/config"
	"notewatch/game"
	"notewatch/memory"
	"notewatch/offset"
	"notewatch/signature"
)

// Debug logger - writes to file for debugging
var debugLog *log.Logger

// RunOptions contains command-line options shared across all modes.
type RunOptions struct {
	ConfigPath     string
	SignaturePath  string
	DumpFile       string // raw memory snapshot for offline dump/replay, bypasses live attach
	DryRun         bool   // resolve offsets and print them, never start the poll loop
	DebugLog       bool
	Visual         bool
}

// SetupDebugLog initializes debug logging to the specified file.
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	fileInfo, _ := os.Stdout.Stat()
	if (fileInfo.Mode() & os.ModeCharDevice) != 0 {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging to a file.
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages to file if debug logging is enabled.
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

// attachToProcess opens a ReadMemory over the configured target process.
// The live Windows process-handle implementation is an external
// collaborator this module does not provide (spec non-goal: the
// process-handle/memory-read primitive itself) - only dumpFile-backed
// offline replay is wired here, for -dump-offsets and tests.
func attachToProcess(cfg config.Config, dumpFile string) (memory.ReadMemory, error) {
	if dumpFile != "" {
		data, err := os.ReadFile(dumpFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read memory snapshot %s: %w", dumpFile, err)
		}
		return memory.NewBufferReader(0, data), nil
	}
	return nil, newErr(KindProcessNotFound, fmt.Sprintf("no live process attach implementation for %q; pass -dump-file for offline replay", cfg.ProcessName))
}

// resolveOffsets tries the on-disk cache first, falling back to a full
// signature search and saving the result for next time.
func resolveOffsets(reader memory.ReadMemory, cfg config.Config, gameVersion string) (offset.Collection, error) {
	cachePath := cfg.OffsetCacheDir + string(os.PathSeparator) + offset.DefaultCacheFile
	if cached, ok := offset.TryLoadCached(cachePath, gameVersion, cfg.OffsetCacheMaxAge()); ok {
		log.Printf("offsets: reusing cached offsets for version %q", gameVersion)
		return cached, nil
	}

	sigs, err := signature.LoadSignatures(cfg.SignatureFile)
	if err != nil {
		return offset.Collection{}, fmt.Errorf("failed to load signatures: %w", err)
	}

	searcher := offset.NewSearcher(reader)
	offsets, err := searcher.SearchAll(sigs, cfg.MinExpectedSongs)
	if err != nil {
		return offset.Collection{}, fmt.Errorf("offset search failed: %w", err)
	}

	offset.SaveToCache(cachePath, gameVersion, offsets)
	return offsets, nil
}

// buildTracker attaches to the target, resolves offsets, and loads the
// song directory, returning a Tracker ready to Run.
func buildTracker(cfg config.Config, dumpFile string) (*Tracker, error) {
	reader, err := attachToProcess(cfg, dumpFile)
	if err != nil {
		return nil, err
	}

	offsets, err := resolveOffsets(reader, cfg, gameVersionHint)
	if err != nil {
		return nil, err
	}
	if !offsets.IsValid() {
		return nil, versionMismatchErr(gameVersionHint, offsets.Version)
	}

	tr := NewTracker(reader, offsets, cfg)
	n, err := tr.LoadSongDirectory()
	if err != nil {
		return nil, err
	}
	log.Printf("tracker: loaded %d song entries", n)

	return tr, nil
}

// gameVersionHint is the version string the offset cache is keyed against;
// the signature file's own version is not compared with it. A single, fixed string is acceptable here because
// cross-version address sharing is an explicit non-goal; a future version
// bump just means a new signature file with a new version string.
const gameVersionHint = "unknown"

// songEntryDisplayName formats a SongInfo for -dump-offsets output,
// falling back to the bare ID when title text hasn't been decoded.
func songEntryDisplayName(s game.SongInfo) string {
	if s.Title != "" {
		return fmt.Sprintf("%s (%s)", s.Title, s.ID)
	}
	return s.ID
}
