package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/ifm_report_app/internal/adapters/spreadsheet"
	"github.com/SscSPs/ifm_report_app/internal/core/domain"
	"github.com/SscSPs/ifm_report_app/internal/core/services"
	"github.com/SscSPs/ifm_report_app/internal/platform/config"
	"github.com/SscSPs/ifm_report_app/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:  "ifm_cli",
		Usage: "generate IFM reports from local BO extract and mapping workbooks",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: func(c *cli.Context) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
				return fmt.Errorf("invalid log level %q", c.String("log-level"))
			}
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
		Commands: []*cli.Command{
			generateCommand(),
			layoutCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "enrich, merge and aggregate the inputs into an IFM report",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "bo", Usage: "BO extract (.xlsx, .xls or .csv)", Required: true},
			&cli.PathFlag{Name: "mapping", Usage: "mapping workbook with vendor, receiving entity and country area sheets", Required: true},
			&cli.PathFlag{Name: "last-month", Usage: "last month's IFM report"},
			&cli.StringFlag{Name: "rate", Usage: "exchange rate to USD for non-USD amounts (default DEFAULT_EXCHANGE_RATE)"},
			&cli.StringFlag{Name: "format", Value: string(domain.FormatCSV), Usage: "csv, xlsx or json"},
			&cli.PathFlag{Name: "out", Usage: "output file (default: timestamped name in the current directory)"},
			&cli.StringFlag{Name: "join", Usage: "reference join policy: all or first (default REFERENCE_JOIN_POLICY)"},
			&cli.PathFlag{Name: "layout", Usage: "YAML override of sheet and header names (default LAYOUT_FILE)"},
		},
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	ctx := c.Context
	logger := slog.Default()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("join") {
		if cfg.JoinPolicy, err = domain.ParseJoinPolicy(c.String("join")); err != nil {
			return err
		}
	}
	if c.IsSet("layout") {
		cfg.LayoutFile = c.Path("layout")
	}

	format, err := domain.ParseExportFormat(c.String("format"))
	if err != nil {
		return err
	}

	req := domain.ReportRequest{RequestedBy: "cli"}
	if raw := strings.TrimSpace(c.String("rate")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid exchange rate %q: %w", raw, err)
		}
		req.ExchangeRate = decimal.NewNullDecimal(rate)
	}

	if req.Extract, err = readSource(c.Path("bo")); err != nil {
		return err
	}
	if req.Mapping, err = readSource(c.Path("mapping")); err != nil {
		return err
	}
	if c.IsSet("last-month") {
		if req.Historical, err = readSource(c.Path("last-month")); err != nil {
			return err
		}
	}

	layout, err := spreadsheet.LoadLayout(cfg.LayoutFile)
	if err != nil {
		return err
	}

	container := services.NewServiceContainer(cfg, spreadsheet.NewWorkbookReader(layout), spreadsheet.NewExporter())

	report, err := container.Report.GenerateReport(ctx, req)
	if err != nil {
		return err
	}

	out := c.Path("out")
	if out == "" {
		out = report.FileName(format)
	}
	if err := writeReport(ctx, container.Report, out, report, format); err != nil {
		return err
	}

	logger.Info("Report written",
		slog.String("file", out),
		slog.String("report_id", report.ReportID),
		slog.Int("rows", len(report.Rows)),
		slog.Int("unmatched_vendors", report.Enrichment.UnmatchedVendors),
		slog.Int("zero_net_groups", report.Aggregation.ZeroNetGroups))
	return nil
}

type reportExporter interface {
	ExportReport(ctx context.Context, w io.Writer, report *domain.Report, format domain.ExportFormat) error
}

// writeReport encodes report into the file at out. A failed export leaves no
// partial file behind.
func writeReport(ctx context.Context, exporter reportExporter, out string, report *domain.Report, format domain.ExportFormat) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", out, err)
	}
	if err := exporter.ExportReport(ctx, f, report, format); err != nil {
		f.Close()
		os.Remove(out)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return fmt.Errorf("failed to write %q: %w", out, err)
	}
	return nil
}

func layoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "layout",
		Usage: "print the effective sheet and header layout as YAML",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "layout", Usage: "YAML override to merge onto the defaults"},
		},
		Action: func(c *cli.Context) error {
			layout, err := spreadsheet.LoadLayout(c.Path("layout"))
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(c.App.Writer)
			enc.SetIndent(2)
			if err := enc.Encode(layout); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for the HTTP service, signed with JWT_SECRET",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Usage: "user the token identifies", Required: true},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			token, err := utils.IssueToken(c.String("subject"), cfg.JWTSecret, c.Duration("ttl"))
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			_, err = fmt.Fprintln(c.App.Writer, token)
			return err
		},
	}
}

func readSource(path string) (domain.SourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceFile{}, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return domain.SourceFile{Name: path, Data: data}, nil
}
