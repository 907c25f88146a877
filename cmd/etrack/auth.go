package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/expensetrack/etrack/internal/cli"
	"github.com/expensetrack/etrack/internal/common"
	"github.com/expensetrack/etrack/internal/model"
	"github.com/expensetrack/etrack/internal/route"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and store a session token",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLogin,
	}
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		var err error
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(username) == "" {
		return common.NewUserError("username is required", nil)
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	if password == "" {
		return common.NewUserError("password is required", nil)
	}

	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	client := initClient(sessions)

	sess, err := client.Login(cmd.Context(), username, password)
	if err != nil {
		return friendlyError(err)
	}
	if err := sessions.Set(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Logged in as %s", sess.Username)))
	if sess.IsAdmin() {
		fmt.Println(cli.SubtleStyle.Render("  admin role granted by server"))
	}
	return nil
}

func registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE:  runRegister,
	}
}

func runRegister(cmd *cobra.Command, _ []string) error {
	name, err := promptLine("Username: ")
	if err != nil {
		return err
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return common.NewUserError("passwords do not match", nil)
	}

	sessions, err := initSessionStore()
	if err != nil {
		return err
	}
	client := initClient(sessions)

	if err := client.Register(cmd.Context(), name, email, password); err != nil {
		return friendlyError(err)
	}

	fmt.Println(cli.SuccessStyle.Render("✓ Account created. Run `etrack login` to sign in."))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sessions, err := initSessionStore()
			if err != nil {
				return err
			}
			// Clearing twice is fine; logout never fails on an absent session.
			if err := sessions.Clear(); err != nil {
				return err
			}
			fmt.Println(cli.SuccessStyle.Render("✓ Logged out"))
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, err := initSessionStore()
			if err != nil {
				return err
			}
			if _, err := requireView(route.ViewProfile, sessions); err != nil {
				fmt.Println(cli.SubtleStyle.Render("not logged in"))
				return nil
			}

			client := initClient(sessions)
			user, err := client.CurrentUser(cmd.Context())
			if err != nil {
				return friendlyError(err)
			}

			printProfile(user)
			return nil
		},
	}
}

func printProfile(user model.User) {
	fmt.Println(cli.TitleStyle.Render("👤 Profile"))
	fmt.Printf("  Name:  %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	role := user.Role
	if user.IsAdmin() {
		role = cli.InfoStyle.Render(role)
	}
	fmt.Printf("  Role:  %s\n", role)
}

func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
