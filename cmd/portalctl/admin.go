package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/informreaders/portal/internal/app"
	"github.com/informreaders/portal/internal/auth"
	"github.com/informreaders/portal/internal/platform/db"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// adminCreator stores a back-office user.
type adminCreator interface {
	CreateAdmin(ctx context.Context, email, name, password, role string) (int64, error)
}

func (c *cli) adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage back-office users",
	}

	var email, name, role, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a back-office user",
		Long: `Create a back-office user.

The password is read from the first line of stdin when --password is not set:
  echo "s3cret-pass" | portalctl admin create --email ops@example.com --name Ops`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				p, err := readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
				password = p
			}
			cfg, err := c.deps.config()
			if err != nil {
				return err
			}
			admins, closeFn, err := c.deps.admins(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			id, err := admins.CreateAdmin(cmd.Context(), email, name, password, role)
			if err != nil {
				if errors.Is(err, httpx.ErrDuplicate) {
					return fmt.Errorf("an admin with email %s already exists", email)
				}
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "created %s admin %s (id %d)\n", role, strings.ToLower(strings.TrimSpace(email)), id)
			return err
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&role, "role", shared.RoleEditor, "role: admin or editor")
	create.Flags().StringVar(&password, "password", "", "password, read from stdin when empty")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("no password given on stdin or --password")
	}
	return line, nil
}

// txAdmins creates the user and its audit entry in one transaction.
type txAdmins struct {
	pool *pgxpool.Pool
}

func (a txAdmins) CreateAdmin(ctx context.Context, email, name, password, role string) (int64, error) {
	var id int64
	err := db.WithTx(ctx, a.pool, func(tx pgx.Tx) error {
		var err error
		id, err = auth.NewService(auth.NewRepository(tx)).CreateAdmin(ctx, email, name, password, role)
		if err != nil {
			return err
		}
		return shared.NewAuditLogger(tx).Record(ctx, shared.AuditLog{
			ActorID:  id,
			Action:   "admin.create",
			Entity:   "user",
			EntityID: fmt.Sprint(id),
			Meta:     map[string]any{"role": role, "via": "portalctl"},
		})
	})
	return id, err
}

func openAdmins(ctx context.Context, cfg *app.Config) (adminCreator, func(), error) {
	pool, err := db.New(ctx, cfg.PGDSN, 2)
	if err != nil {
		return nil, nil, err
	}
	return txAdmins{pool: pool}, pool.Close, nil
}
