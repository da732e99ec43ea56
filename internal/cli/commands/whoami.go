package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"Gallerist/internal/cli/api"
	"Gallerist/internal/config"
)

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the admin behind the stored token" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := tokenStore(cfg).Load()
	if err != nil {
		return errors.New("not logged in")
	}
	resp, body, err := api.Get(ctx, api.Endpoint(cfg.ServerURL, "/api/auth/verify"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return api.ResponseError(resp, body)
	}
	env, err := api.DecodeEnvelope(body)
	if err != nil {
		return err
	}
	var data struct {
		Admin struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"admin"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode verify data: %w", err)
	}
	fmt.Fprintf(Out, "%s <%s>\n", data.Admin.Username, data.Admin.Email)
	return nil
}

func init() { RegisterCmd(whoamiCmd{}) }
