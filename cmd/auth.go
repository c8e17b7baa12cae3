package main

import (
	"context"
	"errors"

	"github.com/desertthunder/gameretriever/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges Twitch client credentials for an IGDB access token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("requesting IGDB access token")

	if err := r.authenticate(ctx, cmd.String("client-id"), cmd.String("client-secret")); err != nil {
		return err
	}

	r.logger.Info("authentication successful")
	r.writePlain("✓ Authenticated with IGDB\n")
	return r.writePlain("Token saved to: %s\n", r.config.Auth.File)
}

// AuthLogout deletes the stored access token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := shared.DeleteCredentials(r.config.Auth.File); err != nil {
		return err
	}
	r.source = nil
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus checks whether IGDB accepts the stored access token.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds, err := shared.LoadCredentials(r.config.Auth.File)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		return r.writePlain("Run 'gameretriever auth login' to request a token\n")
	}
	if err != nil {
		return err
	}

	if err := r.useCredentials(*creds); err != nil {
		return err
	}

	r.logger.Info("checking auth status")
	ok, err := r.source.Ping(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Client ID: %s\n", creds.ClientID)
	if ok {
		return r.writePlain("Authentication: ✓ Authenticated\n")
	}
	r.writePlain("Authentication: ✗ Token rejected\n")
	return r.writePlain("Run 'gameretriever auth login' to request a new token\n")
}
