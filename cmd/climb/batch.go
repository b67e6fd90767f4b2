package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	urls, err := readURLFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	if len(urls) == 0 {
		fmt.Fprintln(deps.Stdout, "no URLs to fetch")
		return nil
	}
	dir := deps.outputDir(c.Output)

	return runEvery(deps, c.Every, func() error {
		result, err := deps.newBatchDriver(dir).Run(deps.Ctx, urls)
		printSummary(deps.Stdout, result)
		if err != nil && deps.Ctx.Err() != nil {
			// Interrupted mid-run; the partial report is already written.
			return nil
		}
		return err
	})
}

// readURLFile reads one URL per line. Blank lines and lines starting
// with # are skipped.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
