package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
)

type insightsCommand struct {
	fs *flag.FlagSet
}

func InsightsCommand() Command {
	return &insightsCommand{
		fs: flag.NewFlagSet("insights", flag.ExitOnError),
	}
}

func (c *insightsCommand) Init(args []string) error {
	return c.fs.Parse(args)
}

func (c *insightsCommand) Run() {
	if err := insights(); err != nil {
		fmt.Printf("Could not fetch insights: %v\n", err)
	}
}

func (c *insightsCommand) Name() string {
	return c.fs.Name()
}

func (c *insightsCommand) Description() string {
	return "Fetch and print the aggregate insights report"
}

func insights() error {
	res, err := http.Get(fmt.Sprintf("%s/api/v1/insights", baseUrl))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var resBody map[string]any
	if err = json.NewDecoder(res.Body).Decode(&resBody); err != nil {
		return err
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("Status %d, and message: %v", res.StatusCode, resBody["message"])
	}

	pretty, err := json.MarshalIndent(resBody, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))

	return nil
}
