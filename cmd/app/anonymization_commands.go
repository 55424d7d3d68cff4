package main

import (
	"context"
	"errors"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/allisson/anonymizer/cmd/app/commands"
	"github.com/allisson/anonymizer/internal/app"
	"github.com/allisson/anonymizer/internal/config"
)

func getAnonymizationCommands() []*cli.Command {
	inputFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Value:   "-",
			Usage:   "JSON input file, or '-' for stdin",
		}
	}
	outputFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "-",
			Usage:   "Output file, or '-' for stdout",
		}
	}

	return []*cli.Command{
		{
			Name:  "anonymize",
			Usage: "Anonymize a JSON document offline using the configured secret",
			Flags: []cli.Flag{inputFlag(), outputFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) (err error) {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				anonymizer, err := container.Anonymizer()
				if err != nil {
					return err
				}

				stdio := commands.DefaultIO()
				in, closeIn, err := commands.OpenInput(cmd.String("input"), stdio.Reader)
				if err != nil {
					return err
				}
				defer func() { _ = closeIn() }()

				out, closeOut, err := commands.OpenOutput(cmd.String("output"), stdio.Writer)
				if err != nil {
					return err
				}
				defer func() { err = errors.Join(err, closeOut()) }()

				return commands.RunAnonymize(anonymizer, container.Logger(), in, out)
			},
		},
		{
			Name:  "deanonymize",
			Usage: "Restore an anonymized JSON document offline using the configured secret",
			Flags: []cli.Flag{
				inputFlag(),
				&cli.StringFlag{
					Name:    "map",
					Aliases: []string{"m"},
					Usage:   "File holding the anonymization map; omit when the input is anonymize output",
				},
				outputFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) (err error) {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				anonymizer, err := container.Anonymizer()
				if err != nil {
					return err
				}

				stdio := commands.DefaultIO()
				in, closeIn, err := commands.OpenInput(cmd.String("input"), stdio.Reader)
				if err != nil {
					return err
				}
				defer func() { _ = closeIn() }()

				var mapReader io.Reader
				if mapPath := cmd.String("map"); mapPath != "" {
					if mapPath == "-" && cmd.String("input") == "-" {
						return errors.New("--input and --map cannot both read from stdin")
					}
					var closeMap func() error
					mapReader, closeMap, err = commands.OpenInput(mapPath, stdio.Reader)
					if err != nil {
						return err
					}
					defer func() { _ = closeMap() }()
				}

				out, closeOut, err := commands.OpenOutput(cmd.String("output"), stdio.Writer)
				if err != nil {
					return err
				}
				defer func() { err = errors.Join(err, closeOut()) }()

				return commands.RunDeanonymize(anonymizer, container.Logger(), in, mapReader, out)
			},
		},
	}
}
