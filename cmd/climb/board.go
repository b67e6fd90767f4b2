package main

import (
	"fmt"

	"github.com/sensa-code/climb/crawl"
)

// Run executes the board command.
func (c *BoardCmd) Run(deps *Dependencies) error {
	dir := deps.outputDir(c.Output)

	return runEvery(deps, c.Every, func() error {
		walker := &crawl.BoardWalker{
			HTML:   deps.HTML,
			Ledger: deps.NewLedger(dir),
			Logger: deps.Logger,
		}
		urls, err := walker.Collect(deps.Ctx, c.Board, c.Pages)
		if err != nil {
			if deps.Ctx.Err() != nil {
				return nil
			}
			return err
		}
		if len(urls) == 0 {
			fmt.Fprintln(deps.Stdout, "no new posts")
			return nil
		}
		fmt.Fprintf(deps.Stdout, "found %d new posts\n", len(urls))

		result, err := deps.newBatchDriver(dir).Run(deps.Ctx, urls)
		printSummary(deps.Stdout, result)
		if err != nil && deps.Ctx.Err() != nil {
			return nil
		}
		return err
	})
}
