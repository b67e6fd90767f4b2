package main

import (
	"fmt"

	"github.com/sensa-code/climb"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	dir := deps.outputDir(c.Output)
	ledger := deps.NewLedger(dir)

	if !c.Force && ledger.IsFetched(c.URL) {
		fmt.Fprintf(deps.Stdout, "already fetched: %s (use --force to refetch)\n", c.URL)
		return nil
	}

	article, err := deps.Fetch(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", climb.ErrorMessage(err))
		return err
	}

	path, err := deps.NewStore(dir).Save(deps.Ctx, article)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", climb.ErrorMessage(err))
		return err
	}
	if err := ledger.MarkFetched(c.URL); err != nil {
		deps.Logger.Warn("ledger update failed", "url", c.URL, "error", err)
	}

	fmt.Fprintf(deps.Stdout, "Saved %q via %s to %s\n", article.Title, article.Strategy, path)
	return nil
}
