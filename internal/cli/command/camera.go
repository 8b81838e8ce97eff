package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hallwatch-go/internal/cli/connection"
	"github.com/yndnr/hallwatch-go/internal/cli/output"
)

// CameraCommand returns the camera subcommand group.
func CameraCommand() *cli.Command {
	return &cli.Command{
		Name:    "camera",
		Aliases: []string{"cam"},
		Usage:   "Register and remove cameras",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Register a camera with the analytics backend",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Camera ID", Required: true},
					&cli.StringFlag{Name: "link", Aliases: []string{"l"}, Usage: "Stream URL (rtsp, http, file)", Required: true},
					&cli.StringFlag{Name: "hall", Usage: "Hall ID (default: server default hall)"},
				},
				Action: cameraAdd,
			},
			{
				Name:    "remove",
				Aliases: []string{"rm"},
				Usage:   "Remove a camera",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Camera ID", Required: true},
					&cli.StringFlag{Name: "hall", Usage: "Hall ID (default: server default hall)"},
				},
				Action: cameraRemove,
			},
		},
	}
}

type cameraResult struct {
	HallID   string `json:"hall_id"`
	CameraID string `json:"camera_id"`
}

func hallFlag(c *cli.Context) string {
	if h := c.String("hall"); h != "" {
		return h
	}
	return ParseGlobalFlags(c).DefaultHall
}

func cameraAdd(c *cli.Context) error {
	body := map[string]string{
		"camera_id":   c.String("id"),
		"camera_link": c.String("link"),
	}
	if hall := hallFlag(c); hall != "" {
		body["hall_id"] = hall
	}

	var result cameraResult
	err := withSpinner(c, "Registering camera "+body["camera_id"], func() error {
		ctx, cancel := requestContext(c)
		defer cancel()

		resp, err := Client(c).Post(ctx, "/cameras", body)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		return connection.ParseResponse(resp, &result)
	})
	if err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, result)
	}
	fmt.Fprintf(stdout(c), "Camera %s added to hall %s\n", result.CameraID, result.HallID)
	return nil
}

func cameraRemove(c *cli.Context) error {
	body := map[string]string{"camera_id": c.String("id")}
	if hall := hallFlag(c); hall != "" {
		body["hall_id"] = hall
	}

	var result cameraResult
	err := withSpinner(c, "Removing camera "+body["camera_id"], func() error {
		ctx, cancel := requestContext(c)
		defer cancel()

		resp, err := Client(c).Post(ctx, "/cameras/remove", body)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		return connection.ParseResponse(resp, &result)
	})
	if err != nil {
		return err
	}

	if !isTable(c) {
		return printResult(c, result)
	}
	fmt.Fprintf(stdout(c), "Camera %s removed from hall %s\n", result.CameraID, result.HallID)
	return nil
}

// withSpinner runs fn behind a spinner on stderr in table mode.
func withSpinner(c *cli.Context, message string, fn func() error) error {
	if !isTable(c) {
		return fn()
	}

	s := output.NewSpinner(stderr(c), message)
	s.Start()
	if err := fn(); err != nil {
		s.Fail(err.Error())
		return err
	}
	s.Stop()
	return nil
}
