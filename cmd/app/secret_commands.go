package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/anonymizer/cmd/app/commands"
	"github.com/allisson/anonymizer/internal/app"
	"github.com/allisson/anonymizer/internal/config"
)

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-secret",
			Usage: "Generate a new shared secret for substitution map encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Value: "",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateSecret(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-provider"),
					cmd.String("kms-key-uri"),
				)
			},
		},
	}
}
