package main

import (
	"encoding/json"
	"fmt"

	"github.com/sensa-code/climb"
)

// Run executes the identify command.
func (c *IdentifyCmd) Run(deps *Dependencies) error {
	data, err := json.MarshalIndent(climb.Classify(c.URL), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(data))
	return nil
}
