package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *App) loginCmd() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Long: `Log in with your e-mail and password. The token pair is written to the
config file, readable by you only.`,
		Example: `  grafik login --email jan.kowalski@szpital.pl
  echo "$PASSWORD" | grafik login --email jan.kowalski@szpital.pl --password-stdin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reader := bufio.NewReader(a.in)
			if email == "" {
				fmt.Fprint(a.out, "E-mail: ")
				line, err := reader.ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("reading e-mail: %w", err)
				}
				email = strings.TrimSpace(line)
			}

			password, err := a.readPassword(reader, passwordStdin)
			if err != nil {
				return err
			}

			tok, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.saveTokens(tok.AccessToken, tok.RefreshToken); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Zalogowano jako %s. Token zapisany w %s\n", email, a.configPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account e-mail")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

func (a *App) readPassword(reader *bufio.Reader, fromStdin bool) (string, error) {
	if f, ok := a.in.(*os.File); ok && !fromStdin && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.out, "Hasło: ")
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(data), nil
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	return password, nil
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the stored refresh token and forget both tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rt := a.config.Server.RefreshToken; rt != "" {
				if err := a.api.Logout(cmd.Context(), rt); err != nil {
					a.logger.Warn("server logout failed", "error", err)
				}
			}
			a.config.Server.Token = ""
			a.config.Server.RefreshToken = ""
			a.api.SetToken("")
			if err := a.config.SaveTo(a.configPath); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Wylogowano.")
			return nil
		},
	}
}
