package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scalebit/admin-console/internal/auth"
)

func (a *App) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Log in and store the session token",
		Args:        cobra.NoArgs,
		Annotations: routed(auth.LoginPath),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := a.readLine(cmd)
				if err != nil {
					return err
				}
				password = p
			}
			session, err := a.console.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if !session.Authenticated {
				return ErrNotLoggedIn
			}
			a.session = session
			return a.printSession(cmd)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when omitted)")
	return cmd
}

func (a *App) registerCommand() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create an account",
		Args:        cobra.NoArgs,
		Annotations: routed(auth.RegisterPath),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				p, err := a.readLine(cmd)
				if err != nil {
					return err
				}
				password = p
			}
			if _, err := a.console.Register(cmd.Context(), name, email, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful. Redirecting to login...")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when omitted)")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session token",
		Args:        cobra.NoArgs,
		Annotations: routed(auth.LogoutPath),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.console.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printSession(cmd)
		},
	}
}

type sessionOutput struct {
	Authenticated bool       `json:"authenticated"`
	Role          string     `json:"role,omitempty"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	UserID        *int64     `json:"user_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}

func (a *App) printSession(cmd *cobra.Command) error {
	out := sessionOutput{Authenticated: a.session.Authenticated, Role: a.session.RoleName()}
	if claims := a.session.Claims; claims != nil {
		out.Email, out.Name, out.UserID, out.ExpiresAt = claims.Email, claims.Name, claims.UserID, claims.ExpiresAt
	}

	row := []string{strconv.FormatBool(out.Authenticated), dash(out.Role), dash(out.Email), "-"}
	if out.ExpiresAt != nil {
		row[3] = out.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return a.render(cmd.OutOrStdout(), out, []string{"AUTHENTICATED", "ROLE", "EMAIL", "EXPIRES"}, [][]string{row})
}

func (a *App) readLine(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
