package command

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hallwatch-go/internal/cli/connection"
	"github.com/yndnr/hallwatch-go/internal/cli/output"
	"github.com/yndnr/hallwatch-go/internal/core/domain"
)

// EventsCommand returns the events subcommand group.
func EventsCommand() *cli.Command {
	return &cli.Command{
		Name:    "events",
		Aliases: []string{"ev"},
		Usage:   "Inspect the entered/exited event log",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent events",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "hall", Usage: "Filter by hall ID"},
					&cli.StringFlag{Name: "camera", Aliases: []string{"c"}, Usage: "Filter by camera ID"},
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Filter by kind: entered, exited"},
					&cli.Uint64Flag{Name: "since", Usage: "Only events after this sequence number"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "Maximum events (max 1000)"},
				},
				Action: eventsList,
			},
		},
	}
}

type eventList struct {
	Items        []domain.Event `json:"items"`
	Count        int            `json:"count"`
	LastSequence uint64         `json:"last_sequence"`
}

func eventsList(c *cli.Context) error {
	q := url.Values{}
	if v := c.String("hall"); v != "" {
		q.Set("hall_id", v)
	}
	if v := c.String("camera"); v != "" {
		q.Set("camera_id", v)
	}
	if v := c.String("kind"); v != "" {
		if _, err := domain.ParseEventKind(v); err != nil {
			return err
		}
		q.Set("kind", v)
	}
	if c.IsSet("since") {
		q.Set("since", strconv.FormatUint(c.Uint64("since"), 10))
	}
	if n := c.Int("limit"); n > 0 {
		q.Set("limit", strconv.Itoa(n))
	}

	path := "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := Client(c).Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result eventList
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, result)
	}
	if err := printResult(c, eventsTable(result.Items)); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "\nShowing %d events (last sequence %d)\n", result.Count, result.LastSequence)
	return nil
}

type eventsTable []domain.Event

func (l eventsTable) Table(wide bool) *output.Table {
	headers := []string{"SEQ", "TIME", "HALL", "CAMERA", "KIND", "COUNT", "INSIDE"}
	if wide {
		headers = append(headers, "ID")
	}
	t := output.NewTable(headers...)
	for _, e := range l {
		row := []string{
			strconv.FormatUint(e.Sequence, 10),
			e.Timestamp.Local().Format(time.TimeOnly),
			e.HallID,
			e.CameraID,
			string(e.Kind),
			strconv.FormatInt(e.Count, 10),
			strconv.FormatInt(e.Inside, 10),
		}
		if wide {
			row = append(row, e.ID)
		}
		t.AddRow(row...)
	}
	return t
}
