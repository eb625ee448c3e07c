// Package cli is the command line front end of the grafik terminal client.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/grafik-backend-go/internal/client"
	"github.com/cmlabs-hris/grafik-backend-go/internal/clientconfig"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config     *clientconfig.Config
	configPath string
	root       *cobra.Command
	debug      bool
	noColor    bool

	logger *slog.Logger
	api    *client.Client
	in     io.Reader
	out    io.Writer
}

// NewApp creates the CLI for cfg. configPath is where login stores tokens.
func NewApp(cfg *clientconfig.Config, configPath string) *App {
	a := &App{
		config:     cfg,
		configPath: configPath,
		logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		api:        client.FromConfig(cfg),
		in:         os.Stdin,
		out:        color.Output,
	}

	a.root = &cobra.Command{
		Use:   "grafik",
		Short: "Department shift schedule in the terminal",
		Long: `grafik shows and edits the monthly shift schedule of a department.

Run "grafik login" once, then "grafik edit" to open the interactive grid
or "grafik show" to print a month.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.noColor {
				color.NoColor = true
			}
			if a.debug {
				a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.loginCmd())
	a.root.AddCommand(a.logoutCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.watchCmd())
	a.root.AddCommand(a.holidaysCmd())
	a.root.AddCommand(a.requestsCmd())
	a.root.AddCommand(a.reportCmd())
	a.root.AddCommand(a.cacheCmd())

	return a
}

// SetIO replaces stdin and stdout, e.g. in tests.
func (a *App) SetIO(in io.Reader, out io.Writer) {
	a.in = in
	a.out = out
	a.root.SetOut(out)
	a.root.SetErr(out)
}

func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "grafik %s (commit: %s)\n", Version, Commit)
		},
	}
}

// saveTokens stores a fresh token pair in the config file.
func (a *App) saveTokens(access, refresh string) error {
	a.config.Server.Token = access
	if refresh != "" {
		a.config.Server.RefreshToken = refresh
	}
	a.api.SetToken(access)
	return a.config.SaveTo(a.configPath)
}

// withRefresh runs fn and, when the access token has expired, trades the
// stored refresh token for a new one and runs fn once more.
func (a *App) withRefresh(ctx context.Context, fn func() error) error {
	err := fn()
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 401 || a.config.Server.RefreshToken == "" {
		return err
	}

	a.logger.Debug("access token rejected, refreshing")
	tok, rerr := a.api.Refresh(ctx, a.config.Server.RefreshToken)
	if rerr != nil {
		a.logger.Warn("token refresh failed", "error", rerr)
		return err
	}
	if serr := a.saveTokens(tok.AccessToken, ""); serr != nil {
		a.logger.Warn("failed to store refreshed token", "error", serr)
	}
	return fn()
}

func (a *App) openCache() *client.Cache {
	cache, err := client.OpenCache(a.config.Cache.Path)
	if err != nil {
		a.logger.Warn("month cache unavailable", "path", a.config.Cache.Path, "error", err)
		return nil
	}
	return cache
}

// monthFlags selects a department month on the command line.
type monthFlags struct {
	department int64
	year       int
	month      int
}

func (f *monthFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64VarP(&f.department, "department", "d", 0, "Department ID (defaults to grid.default_department, then your main department)")
	cmd.Flags().IntVar(&f.year, "year", 0, "Year (defaults to the current one)")
	cmd.Flags().IntVar(&f.month, "month", 0, "Month 1-12 (defaults to the current one)")
}

func (f *monthFlags) request(cfg *clientconfig.Config) (grafik.MonthViewRequest, error) {
	req := grafik.MonthViewRequest{DepartmentID: f.department, Year: f.year, Month: f.month}
	if req.DepartmentID == 0 {
		req.DepartmentID = cfg.Grid.DefaultDepartment
	}
	if req.Month < 0 || req.Month > 12 {
		return req, fmt.Errorf("month must be between 1 and 12, got %d", req.Month)
	}
	if req.Year != 0 && (req.Year < 2000 || req.Year > 2100) {
		return req, fmt.Errorf("year must be between 2000 and 2100, got %d", req.Year)
	}
	return req, nil
}

// resolved fills the zero year and month with the current ones.
func resolved(req grafik.MonthViewRequest, now time.Time) grafik.MonthViewRequest {
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	return req
}
