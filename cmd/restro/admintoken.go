package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"restro/pkg/domain/model"
	"restro/pkg/infrastructure/identity"
)

func issueAdminTokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "issue-admin-token",
		Usage: "print a token for the admin endpoints",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Usage:    "operator email stored in the token",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := parseEnv()
			if err != nil {
				return err
			}
			tokens := identity.NewTokenManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
			token, err := tokens.Issue(model.Claims{
				Subject:  uuid.New(),
				Email:    c.String("email"),
				Role:     model.RoleAdmin,
				Verified: true,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, token)
			return err
		},
	}
}
