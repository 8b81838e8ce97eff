package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hallwatch-go/internal/cli/connection"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "System commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check dashboard health",
				Action: probe("/health", "healthy"),
			},
			{
				Name:   "ready",
				Usage:  "Check whether the initial state has been loaded",
				Action: probe("/ready", "ready"),
			},
		},
	}
}

type probeResult struct {
	Status      string `json:"status"`
	Time        string `json:"time"`
	ViewVersion uint64 `json:"view_version"`
}

// probe builds an action that checks a health endpoint. A non-2xx answer
// is reported and returned as an error so the exit code is non-zero.
func probe(path, want string) cli.ActionFunc {
	return func(c *cli.Context) error {
		client := Client(c)

		ctx, cancel := requestContext(c)
		defer cancel()

		resp, err := client.Get(ctx, path)
		if err != nil {
			PrintError("Health check failed: %v", err)
			return errors.New("server unreachable")
		}

		var result probeResult
		parseErr := connection.ParseResponse(resp, &result)

		var apiErr *connection.APIError
		if parseErr != nil && !errors.As(parseErr, &apiErr) {
			return parseErr
		}

		if !isTable(c) {
			if err := printResult(c, result); err != nil {
				return err
			}
		} else if result.Status == want {
			fmt.Fprintf(stdout(c), "✓ Server is %s\n", want)
			fmt.Fprintf(stdout(c), "  Target:       %s\n", client.BaseURL())
			fmt.Fprintf(stdout(c), "  View version: %d\n", result.ViewVersion)
		} else {
			fmt.Fprintf(stdout(c), "✗ Server is not %s: %s\n", want, result.Status)
		}

		if result.Status != want {
			return fmt.Errorf("server %s", orUnknown(result.Status))
		}
		return nil
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "status unknown"
	}
	return s
}
