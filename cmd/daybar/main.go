package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/parquet-go/parquet-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-daily/internal/config"
	"github.com/rxtech-lab/argo-daily/internal/datasource"
	"github.com/rxtech-lab/argo-daily/internal/export"
	"github.com/rxtech-lab/argo-daily/internal/logger"
	"github.com/rxtech-lab/argo-daily/internal/mod"
	"github.com/rxtech-lab/argo-daily/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

var dateFlagConfig = cli.TimestampConfig{
	Layouts: []string{"2006-01-02"},
}

// loadConfig reads --config, or builds a minimal configuration from --db.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	if path := cmd.String("config"); path != "" {
		return config.Load(path)
	}

	db := cmd.String("db")
	if db == "" {
		return config.Config{}, fmt.Errorf("either --config or --db is required")
	}

	today := time.Now().Format(types.MetaDateLayout)

	return config.Config{
		Base: config.BaseConfig{
			StartDate: datasource.EarliestDate.Format(types.MetaDateLayout),
			EndDate:   today,
		},
		Mod: config.ModConfig{
			DBURL: db,
		},
		Log: logger.Config{Level: "warn"},
	}, nil
}

// withMod starts a Mod from the command flags, runs fn and tears the Mod down.
func withMod(ctx context.Context, cmd *cli.Command, fn func(*mod.Mod, config.Config) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Recording is for backtest runs, not for inspection commands.
	cfg.Mod.StrategyID = ""

	lg, err := logger.NewLoggerWithConfig(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	registry := prometheus.NewRegistry()
	if cfg.Metrics.Listen != "" {
		serveMetrics(cfg.Metrics.Listen, registry, lg)
	}

	m := mod.NewMod(lg, mod.WithRegisterer(registry))
	if err := m.StartUp(ctx, cfg); err != nil {
		return err
	}

	runErr := fn(m, cfg)

	if err := m.TearDown(ctx, runErr); err != nil && runErr == nil {
		return err
	}

	return runErr
}

func serveMetrics(listen string, registry *prometheus.Registry, lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	go func() {
		//nolint:gosec // local diagnostics endpoint
		if err := http.ListenAndServe(listen, mux); err != nil {
			lg.Warn("Metrics endpoint stopped", zap.String("listen", listen), zap.Error(err))
		}
	}()
}

// resolveInstrument uses --type, then the configured instruments, then the id heuristic.
func resolveInstrument(cmd *cli.Command, cfg config.Config, orderBookID string) types.Instrument {
	if t := cmd.String("type"); t != "" {
		return types.Instrument{OrderBookID: orderBookID, Type: types.InstrumentType(t), Symbol: ""}
	}

	if ins, ok := types.NewInstruments(cfg.Base.Instruments...).Instrument(orderBookID); ok {
		return ins
	}

	return types.NewInstrument(orderBookID)
}

func barAction(ctx context.Context, cmd *cli.Command) error {
	return withMod(ctx, cmd, func(m *mod.Mod, cfg config.Config) error {
		instrument := resolveInstrument(cmd, cfg, cmd.String("id"))

		bar, err := m.DataSource().GetBar(instrument, cmd.Timestamp("date"), types.FrequencyDaily)
		if err != nil {
			return err
		}

		if bar.IsNone() {
			fmt.Println(HelpStyle.Render(fmt.Sprintf("no bar for %s on %s",
				instrument.OrderBookID, cmd.Timestamp("date").Format(types.MetaDateLayout))))

			return nil
		}

		fmt.Println(RenderBar(instrument, bar.Unwrap()))

		return nil
	})
}

func historyAction(ctx context.Context, cmd *cli.Command) error {
	adjust, err := datasource.ParseAdjustType(cmd.String("adjust"))
	if err != nil {
		return err
	}

	return withMod(ctx, cmd, func(m *mod.Mod, cfg config.Config) error {
		instrument := resolveInstrument(cmd, cfg, cmd.String("id"))

		window, err := m.DataSource().HistoryBars(datasource.HistoryRequest{
			Instrument:    instrument,
			Count:         int(cmd.Int("count")),
			Frequency:     types.FrequencyDaily,
			Fields:        datasource.ParseFieldSelector(cmd.String("fields")),
			Date:          cmd.Timestamp("date"),
			SkipSuspended: optional.Some(cmd.Bool("skip-suspended")),
			AdjustType:    optional.Some(adjust),
		})
		if err != nil {
			return err
		}

		if out := cmd.String("out"); out != "" {
			if err := export.WriteWindowParquet(out, window); err != nil {
				return err
			}

			fmt.Println(HelpStyle.Render(fmt.Sprintf("wrote %d bars to %s", window.Len(), out)))

			return nil
		}

		fmt.Println(TitleStyle.Render(fmt.Sprintf("%s %s-adjusted, %d bars", instrument.OrderBookID, adjust, window.Len())))
		fmt.Println(RenderWindow(window))

		return nil
	})
}

func rangeAction(ctx context.Context, cmd *cli.Command) error {
	return withMod(ctx, cmd, func(m *mod.Mod, _ config.Config) error {
		start, end := m.DataSource().AvailableDataRange(types.FrequencyDaily)
		fmt.Printf("%s %s\n", start.Format(types.MetaDateLayout), end.Format(types.MetaDateLayout))

		return nil
	})
}

func warmAction(ctx context.Context, cmd *cli.Command) error {
	return withMod(ctx, cmd, func(m *mod.Mod, cfg config.Config) error {
		ids := cmd.StringSlice("ids")
		if len(ids) == 0 {
			for _, ins := range cfg.Base.Instruments {
				ids = append(ids, ins.OrderBookID)
			}
		}

		instruments := make([]types.Instrument, 0, len(ids))
		for _, id := range ids {
			instruments = append(instruments, resolveInstrument(cmd, cfg, strings.TrimSpace(id)))
		}

		bar := progressbar.NewOptions(len(instruments),
			progressbar.OptionSetDescription("Loading series"),
			progressbar.OptionShowCount())

		err := m.SeriesCache().Preload(instruments, func(types.Instrument) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		if err != nil {
			return err
		}

		fmt.Printf("\n%d series cached\n", m.SeriesCache().Len())

		return nil
	})
}

func importAction(_ context.Context, cmd *cli.Command) error {
	lg, err := logger.NewLoggerWithConfig(logger.Config{Level: "info"})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	rows, err := parquet.ReadFile[datasource.DailyRow](cmd.String("parquet"))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.String("parquet"), err)
	}

	w := datasource.NewDailyWriter(cmd.String("db"), cmd.String("table"), lg)
	if err := w.Initialize(); err != nil {
		return err
	}
	defer w.Close()

	bar := progressbar.NewOptions(len(rows),
		progressbar.OptionSetDescription(fmt.Sprintf("Importing into %s", cmd.String("table"))),
		progressbar.OptionShowCount())

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}

		_ = bar.Add(1)
	}

	_ = bar.Finish()

	n, err := w.Finalize()
	if err != nil {
		return err
	}

	fmt.Printf("\n%d rows imported\n", n)

	return nil
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := config.SchemaJSON()
	if err != nil {
		return err
	}

	fmt.Println(schema)

	return nil
}

func main() {
	sourceFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML run configuration",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "DuckDB database with the daily tables, used when --config is not given",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Instrument type (CS, INDX, Future, FUND). Inferred from the id when omitted",
		},
	}

	idFlag := &cli.StringFlag{
		Name:     "id",
		Aliases:  []string{"i"},
		Usage:    "Order book id, e.g. 600000.XSHG",
		Required: true,
	}

	dateFlag := &cli.TimestampFlag{
		Name:     "date",
		Aliases:  []string{"d"},
		Usage:    "Trading date in `YYYY-MM-DD` format",
		Required: true,
		Config:   dateFlagConfig,
	}

	cmd := &cli.Command{
		Name:  "daybar",
		Usage: "Inspect the daily bar store of a backtest",
		Commands: []*cli.Command{
			{
				Name:   "bar",
				Usage:  "Show the bar of an instrument on a date",
				Flags:  append([]cli.Flag{idFlag, dateFlag}, sourceFlags...),
				Action: barAction,
			},
			{
				Name:  "history",
				Usage: "Show the last bars ending at a date",
				Flags: append([]cli.Flag{
					idFlag,
					dateFlag,
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of bars",
						Value:   20,
					},
					&cli.StringFlag{
						Name:    "fields",
						Aliases: []string{"f"},
						Usage:   "Empty for all fields, one field, or a comma separated list",
					},
					&cli.StringFlag{
						Name:  "adjust",
						Usage: "Price adjustment: none, pre or post",
						Value: string(datasource.AdjustPre),
					},
					&cli.BoolFlag{
						Name:  "skip-suspended",
						Usage: "Drop zero-volume days of common stocks",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Write the window to this parquet file instead of printing it",
					},
				}, sourceFlags...),
				Action: historyAction,
			},
			{
				Name:   "range",
				Usage:  "Show the available data range",
				Flags:  sourceFlags,
				Action: rangeAction,
			},
			{
				Name:  "warm",
				Usage: "Load the series of instruments into the cache",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:  "ids",
						Usage: "Order book ids. Defaults to the configured instruments",
					},
				}, sourceFlags...),
				Action: warmAction,
			},
			{
				Name:  "import",
				Usage: "Import a tushare daily parquet export into a DuckDB bar table",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Usage:    "DuckDB database to write",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "parquet",
						Aliases:  []string{"p"},
						Usage:    "Parquet file in the tushare daily layout",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "table",
						Usage: fmt.Sprintf("Target table (%s, %s, %s, %s)", datasource.TableDaily, datasource.TableIndexDaily, datasource.TableFutureDaily, datasource.TableFundDaily),
						Value: datasource.TableDaily,
					},
				},
				Action: importAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the run configuration",
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
