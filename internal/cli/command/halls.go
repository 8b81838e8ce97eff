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

// HallsCommand returns the halls subcommand group.
func HallsCommand() *cli.Command {
	return &cli.Command{
		Name:    "halls",
		Aliases: []string{"hall"},
		Usage:   "Show hall occupancy",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List halls with their inside counts",
				Action: hallsList,
			},
			{
				Name:      "show",
				Usage:     "Show per-camera counters of a hall",
				ArgsUsage: "HALL_ID",
				Action:    hallsShow,
			},
		},
	}
}

func hallsList(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := Client(c).Get(ctx, "/halls")
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var view domain.View
	if err := connection.ParseResponse(resp, &view); err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, view)
	}
	if err := printResult(c, hallsTable(view)); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "\nTotal inside: %d (%d cameras)\n", view.TotalInside, view.Cameras)
	return nil
}

func hallsShow(c *cli.Context) error {
	hallID := c.Args().First()
	if hallID == "" {
		return fmt.Errorf("HALL_ID is required")
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := Client(c).Get(ctx, "/halls/"+url.PathEscape(hallID))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var hall domain.HallView
	if err := connection.ParseResponse(resp, &hall); err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, hall)
	}
	if err := printResult(c, hallTable(hall)); err != nil {
		return err
	}
	fmt.Fprintf(stdout(c), "\nHall %s: %d inside%s\n", hall.HallID, hall.Inside, capacityNote(hall))
	return nil
}

type hallsTable domain.View

func (v hallsTable) Table(bool) *output.Table {
	t := output.NewTable("HALL", "CAMERAS", "INSIDE", "CAPACITY", "STATUS")
	for _, h := range v.Halls {
		t.AddRow(h.HallID, strconv.Itoa(len(h.Cameras)), strconv.FormatInt(h.Inside, 10), capacity(h), status(h))
	}
	return t
}

type hallTable domain.HallView

func (h hallTable) Table(wide bool) *output.Table {
	headers := []string{"CAMERA", "ENTERED", "EXITED", "INSIDE"}
	if wide {
		headers = append(headers, "SOURCE")
	}
	t := output.NewTable(headers...)
	for _, cam := range h.Cameras {
		row := []string{
			cam.CameraID,
			strconv.FormatInt(cam.Entered, 10),
			strconv.FormatInt(cam.Exited, 10),
			strconv.FormatInt(cam.Inside, 10),
		}
		if wide {
			row = append(row, cam.SourceURI)
		}
		t.AddRow(row...)
	}
	return t
}

func capacity(h domain.HallView) string {
	if h.Capacity == 0 {
		return ""
	}
	return strconv.FormatInt(h.Capacity, 10)
}

func status(h domain.HallView) string {
	switch {
	case h.Capacity == 0:
		return ""
	case h.OverCapacity:
		return "OVER"
	default:
		return "ok"
	}
}

func capacityNote(h domain.HallView) string {
	if h.Capacity == 0 {
		return ""
	}
	if h.OverCapacity {
		return fmt.Sprintf(" (over capacity %d)", h.Capacity)
	}
	return fmt.Sprintf(" (capacity %d)", h.Capacity)
}
