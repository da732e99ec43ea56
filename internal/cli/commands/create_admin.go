package commands

import (
	"context"
	"fmt"

	"Gallerist/internal/cli/bootstrap"
	"Gallerist/internal/config"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminEmail    = "admin@subline.com"
	defaultAdminPassword = "admin123"
)

type createAdminCmd struct{}

func (createAdminCmd) Name() string { return "create-admin" }
func (createAdminCmd) Description() string {
	return "Create the initial admin directly in the database (idempotent)"
}
func (createAdminCmd) Usage() string { return "create-admin [<username> <email> <password>]" }

func (createAdminCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	username, email, password := defaultAdminUsername, defaultAdminEmail, defaultAdminPassword
	switch len(args) {
	case 0:
	case 3:
		username, email, password = args[0], args[1], args[2]
	default:
		return ErrUsage
	}

	db, closeDB, err := bootstrap.OpenDB(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeDB() }()

	auth := bootstrap.NewAuthService(db, cfg, bootstrap.Logger())
	admin, created, err := auth.EnsureAdmin(ctx, username, email, password)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(Out, "Admin %q already exists\n", admin.Username)
		return nil
	}
	fmt.Fprintf(Out, "Admin created: %s <%s>\n", admin.Username, admin.Email)
	if len(args) == 0 {
		fmt.Fprintln(Out, "Default password is in use, change it before going live")
	}
	return nil
}

func init() { RegisterCmd(createAdminCmd{}) }
