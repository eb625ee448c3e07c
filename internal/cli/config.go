package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the client configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "Config file: %s\n\n", a.configPath)
			printConfig(a.out, a.config)
			return nil
		},
	}

	setServer := &cobra.Command{
		Use:   "set-server <url>",
		Short: "Point the client at another server",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				return fmt.Errorf("server url must be http(s), got %q", args[0])
			}
			a.config.Server.URL = args[0]
			if err := a.config.SaveTo(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Serwer: %s\n", args[0])
			return nil
		},
	}

	var department int64
	setDepartment := &cobra.Command{
		Use:   "set-department <id>",
		Short: "Set the department used when --department is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if _, err := fmt.Sscan(args[0], &department); err != nil || department < 0 {
				return fmt.Errorf("invalid department id %q", args[0])
			}
			a.config.Grid.DefaultDepartment = department
			if err := a.config.SaveTo(a.configPath); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Domyślny dział: %d\n", department)
			return nil
		},
	}

	cmd.AddCommand(setServer, setDepartment)
	return cmd
}
