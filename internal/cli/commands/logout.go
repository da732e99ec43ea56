package commands

import (
	"context"
	"fmt"

	"Gallerist/internal/cli/api"
	"Gallerist/internal/config"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	store := tokenStore(cfg)
	if token, err := store.Load(); err == nil {
		// сервер токены не отзывает, ответ не важен
		_, _, _ = api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/auth/logout"), nil, token)
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() { RegisterCmd(logoutCmd{}) }
