package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/grafik-backend-go/internal/client"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/grafik"
	"github.com/cmlabs-hris/grafik-backend-go/internal/tui"
)

// DebugLogPath receives the editor's log with --debug; the alternate
// screen leaves no room for stderr.
var DebugLogPath = filepath.Join(os.TempDir(), "grafik-debug.log")

func (a *App) showCmd() *cobra.Command {
	var (
		sel     monthFlags
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a department month",
		Long: `Print the shift grid of one department month.

Every fetched month is kept in the local cache. With --offline, or when the
server cannot be reached, the cached copy is printed instead.`,
		Example: `  grafik show
  grafik show -d 3 --year 2025 --month 10
  grafik show --offline`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := sel.request(a.config)
			if err != nil {
				return err
			}
			cache := a.openCache()
			if cache != nil {
				defer cache.Close()
			}

			v, cachedAt, err := a.loadMonth(cmd.Context(), cache, req, offline)
			if err != nil {
				return err
			}
			printMonth(a.out, v)
			if !cachedAt.IsZero() {
				fmt.Fprintln(a.out, colorMuted.Sprintf("(kopia z pamięci podręcznej, pobrana %s)", cachedAt.Local().Format("2006-01-02 15:04")))
			}
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&offline, "offline", false, "Read the month from the local cache only")

	return cmd
}

// loadMonth fetches a month and caches it. A non-zero time means the view
// came from the cache.
func (a *App) loadMonth(ctx context.Context, cache *client.Cache, req grafik.MonthViewRequest, offline bool) (grafik.MonthView, time.Time, error) {
	fromCache := func() (grafik.MonthView, time.Time, error) {
		if cache == nil {
			return grafik.MonthView{}, time.Time{}, errors.New("month cache unavailable")
		}
		r := resolved(req, time.Now())
		v, at, err := cache.Get(ctx, r.DepartmentID, r.Year, r.Month)
		if errors.Is(err, client.ErrCacheMiss) {
			return v, at, fmt.Errorf("no cached copy of %02d.%d", r.Month, r.Year)
		}
		return v, at, err
	}

	if offline {
		return fromCache()
	}

	var v grafik.MonthView
	err := a.withRefresh(ctx, func() error {
		var err error
		v, err = a.api.MonthView(ctx, req)
		return err
	})
	if err == nil {
		if cache != nil {
			if perr := cache.Put(ctx, v, time.Now()); perr != nil {
				a.logger.Warn("failed to cache month view", "error", perr)
			}
		}
		return v, time.Time{}, nil
	}

	// Only a transport failure falls back; the server's answers stand.
	var apiErr *client.APIError
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrNotLoggedIn) || errors.Is(err, client.ErrUnexpectedStatus) {
		return v, time.Time{}, err
	}
	a.logger.Warn("server unreachable, reading the cache", "error", err)
	cached, at, cerr := fromCache()
	if cerr != nil {
		return v, time.Time{}, err
	}
	return cached, at, nil
}

func (a *App) editCmd() *cobra.Command {
	var (
		sel         monthFlags
		downloadDir string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the interactive grid editor",
		Long: `Open the shift grid in the terminal. Select cells with the mouse or
shift+arrows, type a shift shortcut or press Enter for the menu.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := sel.request(a.config)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			if a.debug {
				f, err := os.Create(DebugLogPath)
				if err != nil {
					return fmt.Errorf("creating debug log: %w", err)
				}
				defer f.Close()
				logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
				fmt.Fprintf(a.out, "Debug log: %s\n", DebugLogPath)
			}

			cache := a.openCache()
			if cache != nil {
				defer cache.Close()
			}
			ctx := cmd.Context()
			return tui.Run(a.api, req, tui.Options{
				Timeout:     a.config.RequestTimeout(),
				DownloadDir: downloadDir,
				Logger:      logger,
				OnLoad: func(v grafik.MonthView) {
					if cache == nil {
						return
					}
					if err := cache.Put(ctx, v, time.Now()); err != nil {
						logger.Warn("failed to cache month view", "error", err)
					}
				},
			})
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&downloadDir, "download-dir", ".", "Directory for downloaded request PDFs")

	return cmd
}

var errStopWatching = errors.New("stop watching")

func (a *App) watchCmd() *cobra.Command {
	var (
		department int64
		once       bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow live changes of a department grid",
		Long: `Print a line whenever someone changes the department's grid. With
--refresh-cache every changed month is fetched again into the local cache.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if department == 0 {
				department = a.config.Grid.DefaultDepartment
			}
			if department == 0 {
				return errors.New("--department is required")
			}

			var cache *client.Cache
			if refresh {
				if cache = a.openCache(); cache != nil {
					defer cache.Close()
				}
			}

			ctx := cmd.Context()
			handle := func(ev client.Event) error {
				switch ev.Name {
				case "connected":
					fmt.Fprintf(a.out, "Połączono, nasłuch zmian działu %d (Ctrl+C kończy)\n", department)
				case "grafik.updated":
					var u client.GridUpdate
					if err := json.Unmarshal(ev.Data, &u); err != nil {
						a.logger.Warn("malformed grid event", "data", string(ev.Data), "error", err)
						return nil
					}
					fmt.Fprintf(a.out, "%s  zmiana w grafiku %02d.%d\n", time.Now().Format("15:04:05"), u.Month, u.Year)
					if cache != nil {
						a.refreshCache(ctx, cache, grafik.MonthViewRequest{DepartmentID: department, Year: u.Year, Month: u.Month})
					}
					if once {
						return errStopWatching
					}
				default:
					a.logger.Debug("event", "name", ev.Name, "data", string(ev.Data))
				}
				return nil
			}

			err := a.withRefresh(ctx, func() error {
				return a.api.Watch(ctx, department, handle)
			})
			if errors.Is(err, errStopWatching) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Int64VarP(&department, "department", "d", 0, "Department ID")
	cmd.Flags().BoolVar(&once, "once", false, "Exit after the first change")
	cmd.Flags().BoolVar(&refresh, "refresh-cache", false, "Fetch every changed month into the local cache")

	return cmd
}

func (a *App) refreshCache(ctx context.Context, cache *client.Cache, req grafik.MonthViewRequest) {
	v, err := a.api.MonthView(ctx, req)
	if err != nil {
		a.logger.Warn("failed to refresh cached month", "month", req.Month, "year", req.Year, "error", err)
		return
	}
	if err := cache.Put(ctx, v, time.Now()); err != nil {
		a.logger.Warn("failed to cache month view", "error", err)
	}
}

func (a *App) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local month cache",
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached months fetched before the given age",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache, err := client.OpenCache(a.config.Cache.Path)
			if err != nil {
				return err
			}
			defer cache.Close()

			n, err := cache.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Usunięto %d miesięcy z pamięci podręcznej\n", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 90*24*time.Hour, "Age of the entries to remove")

	cmd.AddCommand(prune)
	return cmd
}
