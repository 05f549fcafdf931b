package main

import (
	"fmt"
	"strings"
	"time"

	"link-graph/backend/internal/graph"

	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var email, name, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Register a user and print a signed bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(email) == "" {
				return fmt.Errorf("--email is required")
			}

			e, err := openEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.close()

			user, err := e.svc.Auth.Register(cmd.Context(), email, name, graph.Role(role))
			if err != nil {
				return err
			}
			token, expires, err := e.svc.Auth.Issue(cmd.Context(), user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s (%s) expires %s\n", user.Email, user.Role, expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(graph.RoleUser), "admin or user")
	return cmd
}
