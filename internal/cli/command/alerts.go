package command

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hallwatch-go/internal/cli/connection"
	"github.com/yndnr/hallwatch-go/internal/cli/output"
	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// AlertsCommand returns the alerts subcommand group.
func AlertsCommand() *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Inspect capacity alerts",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List capacity alerts, oldest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hall", Usage: "Filter by hall ID"},
				},
				Action: alertsList,
			},
		},
	}
}

type alertList struct {
	Items []domain.Alert `json:"items"`
	Count int            `json:"count"`
}

func alertsList(c *cli.Context) error {
	path := "/alerts"
	if hall := c.String("hall"); hall != "" {
		path += "?hall_id=" + url.QueryEscape(hall)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := Client(c).Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result alertList
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, result)
	}
	if result.Count == 0 {
		fmt.Fprintln(stdout(c), "No alerts")
		return nil
	}
	return printResult(c, alertsTable(result.Items))
}

type alertsTable []domain.Alert

func (l alertsTable) Table(bool) *output.Table {
	t := output.NewTable("TIME", "HALL", "KIND", "INSIDE", "CAPACITY")
	for _, a := range l {
		t.AddRow(
			output.Time(a.Timestamp),
			a.HallID,
			string(a.Kind),
			strconv.FormatInt(a.Inside, 10),
			strconv.FormatInt(a.Capacity, 10),
		)
	}
	return t
}
