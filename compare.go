// ABOUTME: "compare" CLI subcommand: aggregates best scores across past session TSV files
// ABOUTME: Adapts the teacher's WorkerPool to scan files concurrently with no second memory reader

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"notewatch/pool"
)

// chartBest is the best row seen for one chart across every scanned session
// file.
type chartBest struct {
	chart     string
	exScore   uint64
	grade     string
	lamp      string
	sourceTSV string
}

// runCompare implements `notewatch compare [-dir sessions]`: it walks every
// .tsv file under dir, parses each with a worker pool (pure file
// I/O, no process attach), and prints the best result per chart found.
func runCompare(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	dir := fs.String("dir", "sessions", "directory of session_*.tsv files to scan")
	fs.Parse(args)

	files, err := findSessionFiles(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "compare: %v\n", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Printf("compare: no session files found under %s\n", *dir)
		return 0
	}

	results := scanSessionFiles(files)
	printComparison(results)
	return 0
}

func findSessionFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".tsv") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// scanSessionFiles parses every file concurrently via WorkerPool, folding
// each file's rows into a shared best-per-chart map under a mutex.
func scanSessionFiles(files []string) map[string]chartBest {
	p := pool.NewWorkerPool(len(files))
	defer p.Close()

	var mu sync.Mutex
	best := make(map[string]chartBest)

	for _, f := range files {
		f := f
		p.Submit(func() {
			rows, err := parseSessionTSV(f)
			if err != nil {
				fmt.Fprintf(os.Stderr, "compare: skipping %s: %v\n", f, err)
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, row := range rows {
				cur, ok := best[row.chart]
				if !ok || row.exScore > cur.exScore {
					best[row.chart] = row
				}
			}
		})
	}

	p.Wait()
	return best
}

// parseSessionTSV reads a session file and returns every data row after the
// header line, each labelled by chart as "title [difficulty]". Rows with
// fewer than 13 columns or a non-numeric exscore are skipped.
func parseSessionTSV(path string) ([]chartBest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, nil
	}

	var rows []chartBest
	for scanner.Scan() {
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) < 13 {
			continue
		}

		exScore, err := strconv.ParseUint(cols[12], 10, 64)
		if err != nil {
			continue
		}

		rows = append(rows, chartBest{
			chart:     fmt.Sprintf("%s [%s]", cols[0], cols[1]),
			exScore:   exScore,
			grade:     cols[9],
			lamp:      cols[10],
			sourceTSV: path,
		})
	}

	return rows, scanner.Err()
}

func printComparison(results map[string]chartBest) {
	charts := make([]string, 0, len(results))
	for chart := range results {
		charts = append(charts, chart)
	}
	sort.Strings(charts)

	fmt.Printf("%-50s %8s %6s %6s\n", "chart", "ex", "grade", "lamp")
	for _, chart := range charts {
		r := results[chart]
		fmt.Printf("%-50s %8d %6s %6s\n", chart, r.exScore, r.grade, r.lamp)
	}
}
