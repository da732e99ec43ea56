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

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginData struct {
	Token string `json:"token"`
	Admin struct {
		Username string `json:"username"`
	} `json:"admin"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store bearer token" }
func (loginCmd) Usage() string       { return "login <username> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	req := LoginRequest{Username: args[0], Password: args[1]}
	resp, body, err := api.PostJSON(ctx, api.Endpoint(cfg.ServerURL, "/api/auth/login"), req, "")
	if err != nil {
		return err
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return errors.New("invalid username or password")
	default:
		return api.ResponseError(resp, body)
	}

	env, err := api.DecodeEnvelope(body)
	if err != nil {
		return err
	}
	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return fmt.Errorf("decode login data: %w", err)
	}
	if data.Token == "" {
		return errors.New("server returned no token")
	}
	if err := tokenStore(cfg).Save(data.Token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	fmt.Fprintf(Out, "Logged in as %s\n", data.Admin.Username)
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
