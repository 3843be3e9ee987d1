package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"autotube/internal/client"
	"autotube/internal/jobs"
)

var version = "dev"

func App() *cli.Command {
	return &cli.Command{
		Name:    "autotube",
		Version: version,
		Usage:   "Generate, voice, illustrate and upload videos through the autotube API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "API base URL",
				Value:   "http://localhost:8000",
				Sources: cli.EnvVars("AUTOTUBE_SERVER"),
			},
		},
		Commands: []*cli.Command{
			generateCmd(),
			listCmd(),
			getCmd(),
			ttsCmd(),
			thumbnailCmd(),
			uploadCmd(),
			runCmd(),
		},
	}
}

func apiClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("server"))
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "niche", Aliases: []string{"n"}, Usage: "Topic of the video", Required: true},
		&cli.StringFlag{Name: "style", Usage: "Content style", Value: "educational"},
		&cli.IntFlag{Name: "duration", Aliases: []string{"d"}, Usage: "Target length in seconds (30-900)", Value: 120},
		&cli.StringSliceFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Keyword, repeatable"},
	}
}

func generateRequest(cmd *cli.Command) jobs.GenerateRequest {
	return jobs.GenerateRequest{
		Niche:    cmd.String("niche"),
		Style:    cmd.String("style"),
		Duration: int(cmd.Int("duration")),
		Keywords: cmd.StringSlice("keyword"),
	}
}

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Create a job with a templated title, outline and script",
		Flags: generateFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			job, err := apiClient(cmd).Generate(ctx, generateRequest(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, job)
		},
	}
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the newest jobs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			items, err := apiClient(cmd).List(ctx, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			w := cmd.Root().Writer
			for _, j := range items {
				fmt.Fprintf(w, "%s\t%-11s\t%s\n", j.ID, j.Status, j.Title)
			}
			return nil
		},
	}
}

func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Show one job",
		ArgsUsage: "<job-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := jobArg(cmd)
			if err != nil {
				return err
			}
			job, err := apiClient(cmd).Get(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, job)
		},
	}
}

func ttsCmd() *cli.Command {
	return &cli.Command{
		Name:      "tts",
		Usage:     "Render the job script to speech",
		ArgsUsage: "<job-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lang", Value: "id", Usage: "Speech language"},
			&cli.BoolFlag{Name: "slow", Usage: "Slower speech"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := jobArg(cmd)
			if err != nil {
				return err
			}
			res, err := apiClient(cmd).TTS(ctx, jobs.TTSRequest{JobID: id, Lang: cmd.String("lang"), Slow: cmd.Bool("slow")})
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, res)
		},
	}
}

func thumbnailCmd() *cli.Command {
	return &cli.Command{
		Name:      "thumbnail",
		Usage:     "Draw the job thumbnail",
		ArgsUsage: "<job-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := jobArg(cmd)
			if err != nil {
				return err
			}
			res, err := apiClient(cmd).Thumbnail(ctx, jobs.ThumbnailRequest{JobID: id})
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, res)
		},
	}
}

func privacyFlag() cli.Flag {
	return &cli.StringFlag{Name: "privacy", Value: "unlisted", Usage: "public, unlisted or private"}
}

func uploadCmd() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Render the video and upload it to YouTube",
		ArgsUsage: "<job-id>",
		Flags:     []cli.Flag{privacyFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := jobArg(cmd)
			if err != nil {
				return err
			}
			res, err := apiClient(cmd).Upload(ctx, jobs.UploadRequest{JobID: id, PrivacyStatus: cmd.String("privacy")})
			if err != nil {
				return err
			}
			return printJSON(cmd.Root().Writer, res)
		},
	}
}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Generate a job and take it through every step",
		Flags: append(generateFlags(), privacyFlag()),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			res, err := apiClient(cmd).Run(ctx, generateRequest(cmd), cmd.String("privacy"), func(name string, v any) {
				fmt.Fprintf(w, "== %s\n", name)
				_ = printJSON(w, v)
			})
			if err != nil {
				return err
			}
			if res.Status != "uploaded" {
				return fmt.Errorf("upload finished with status %s: %s", res.Status, res.Detail)
			}
			return nil
		},
	}
}

func jobArg(cmd *cli.Command) (string, error) {
	id := cmd.Args().First()
	if id == "" {
		return "", fmt.Errorf("a job id is required")
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
