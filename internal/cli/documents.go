package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/grafik-backend-go/internal/client"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/podanie"
	"github.com/cmlabs-hris/grafik-backend-go/internal/domain/report"
)

func (a *App) holidaysCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "holidays [year]",
		Short: "List public and company holidays of a year",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				y, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid year %q", args[0])
				}
				year = y
			}
			if year == 0 {
				year = time.Now().Year()
			}
			var list []holiday.HolidayResponse
			err := a.withRefresh(cmd.Context(), func() error {
				var err error
				list, err = a.api.Holidays(cmd.Context(), year)
				return err
			})
			if err != nil {
				return fmt.Errorf("listing holidays: %w", err)
			}
			printHolidays(a.out, list)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (defaults to the current one)")
	return cmd
}

func (a *App) requestsCmd() *cobra.Command {
	listRequests := func(cmd *cobra.Command, _ []string) error {
		var list []podanie.RequestResponse
		err := a.withRefresh(cmd.Context(), func() error {
			var err error
			list, err = a.api.Requests(cmd.Context())
			return err
		})
		if err != nil {
			return fmt.Errorf("listing requests: %w", err)
		}
		printRequests(a.out, list)
		return nil
	}

	cmd := &cobra.Command{
		Use:     "requests",
		Aliases: []string{"podania"},
		Short:   "List leave requests or download their PDFs",
		RunE:    listRequests,
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List the requests you can see",
		RunE:  listRequests,
	}

	var dir string
	pdf := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download the PDF of a request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid request id %q", args[0])
			}
			var f client.File
			err = a.withRefresh(cmd.Context(), func() error {
				var err error
				f, err = a.api.RequestPDF(cmd.Context(), id)
				return err
			})
			if err != nil {
				return fmt.Errorf("downloading request %d: %w", id, err)
			}
			return a.saveFile(dir, f)
		},
	}
	pdf.Flags().StringVarP(&dir, "out", "o", ".", "Output directory")

	cmd.AddCommand(list, pdf)
	return cmd
}

func (a *App) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Administrative reports",
	}

	var (
		department int64
		year       int
		format     string
		dir        string
	)
	vacation := &cobra.Command{
		Use:   "vacation",
		Short: "Yearly vacation report of a department",
		Example: `  grafik report vacation -d 3 --year 2025
  grafik report vacation -d 3 --format xlsx -o ~/raporty`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if department == 0 {
				department = a.config.Grid.DefaultDepartment
			}
			if department == 0 {
				return errors.New("--department is required")
			}
			if year == 0 {
				year = time.Now().Year()
			}
			ctx := cmd.Context()

			switch format {
			case report.FormatJSON:
				var r report.VacationReport
				err := a.withRefresh(ctx, func() error {
					var err error
					r, err = a.api.VacationReport(ctx, department, year)
					return err
				})
				if err != nil {
					return fmt.Errorf("loading vacation report: %w", err)
				}
				printVacation(a.out, r)
				return nil
			case report.FormatXLSX, report.FormatPDF:
				var f client.File
				err := a.withRefresh(ctx, func() error {
					var err error
					f, err = a.api.VacationFile(ctx, department, year, format)
					return err
				})
				if err != nil {
					return fmt.Errorf("downloading vacation report: %w", err)
				}
				return a.saveFile(dir, f)
			}
			return fmt.Errorf("unknown format %q, use json, xlsx or pdf", format)
		},
	}
	vacation.Flags().Int64VarP(&department, "department", "d", 0, "Department ID")
	vacation.Flags().IntVar(&year, "year", 0, "Year (defaults to the current one)")
	vacation.Flags().StringVarP(&format, "format", "f", report.FormatJSON, "json (printed), xlsx or pdf (saved)")
	vacation.Flags().StringVarP(&dir, "out", "o", ".", "Output directory for xlsx and pdf")

	cmd.AddCommand(vacation)
	return cmd
}

func (a *App) saveFile(dir string, f client.File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(f.Name))
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(a.out, "Zapisano %s (%d B)\n", path, len(f.Data))
	return nil
}
