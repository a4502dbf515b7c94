package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alertops/socstats/internal/config"
	"github.com/alertops/socstats/internal/db"
	"github.com/alertops/socstats/internal/domain/alert"
	"github.com/alertops/socstats/internal/pkg/logger"
	"github.com/alertops/socstats/internal/repository/sqlstore"
	"github.com/alertops/socstats/internal/services"
	"github.com/alertops/socstats/internal/stats"
)

var (
	cfgFile      string
	outputFormat string

	startDate     string
	endDate       string
	businessHours string
	transforms    []string
	companies     []string
	alertTypes    []string

	database *db.DB
	reports  *services.ReportService
)

var rootCmd = &cobra.Command{
	Use:   "socstats",
	Short: "SOC alert statistics from the alert database",
	Long: `socstats computes month-bucketed statistics over SOC alerts:
cycle times by disposition, operating-hours breakdowns, alert type
categories and analyst workloads, with optional business-hours
adjustment.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return initReports(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if database != nil {
			_ = database.Close()
		}
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.socstats/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml, csv")
	rootCmd.PersistentFlags().StringVarP(&startDate, "start", "s", "", "range start, YYYY-MM-DD (default 7 days ago)")
	rootCmd.PersistentFlags().StringVarP(&endDate, "end", "e", "", "range end, YYYY-MM-DD (default now)")
	rootCmd.PersistentFlags().StringVar(&businessHours, "business-hours", "", `compute cycle times in business hours, e.g. "6,18,US/Eastern"`)
	rootCmd.PersistentFlags().StringSliceVar(&transforms, "transform", nil, "record transforms to apply before aggregation")
	rootCmd.PersistentFlags().StringSliceVar(&companies, "company", nil, "restrict to these company names")
	rootCmd.PersistentFlags().StringSliceVar(&alertTypes, "alert-type", nil, "restrict to these alert types")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newAlertsCmd())
	rootCmd.AddCommand(newTypesCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newExportCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		configDir := home + "/.socstats"
		_ = os.MkdirAll(configDir, 0700)
		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SOCSTATS")
	viper.AutomaticEnv()

	viper.SetDefault("output", "table")

	_ = viper.ReadInConfig()
}

func initReports(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{Level: "warn", Format: "console"})

	database, err = db.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open alert database: %w", err)
	}
	if err := db.RunMigrations(ctx, database); err != nil {
		return err
	}

	window, err := parseBusinessHours(businessHours)
	if err != nil {
		return err
	}
	if window == nil && cfg.Stats.BusinessHoursEnabled {
		window, err = cfg.BusinessTimeWindow()
		if err != nil {
			return err
		}
	}

	names := transforms
	if names == nil {
		names = cfg.Stats.Transforms
	}
	for _, name := range names {
		if _, err := stats.LookupTransform(name); err != nil {
			return err
		}
	}

	repo := sqlstore.NewAlertRepository(database)
	reports = services.NewReportService(repo, window, names, stats.CategoryMap{}, log)
	return nil
}

// parseBusinessHours reads a "start,end,timezone" window spec.
func parseBusinessHours(spec string) (*stats.BusinessTimeWindow, error) {
	if spec == "" {
		return nil, nil
	}
	parts := strings.Split(spec, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf(`business hours must be "start,end,timezone", got %q`, spec)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("invalid business hours start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("invalid business hours end: %w", err)
	}
	return stats.NewBusinessTimeWindow(start, end, strings.TrimSpace(parts[2]), stats.DefaultHolidays())
}

// reportOptions resolves the shared range and filter flags. The range
// defaults to the trailing seven days.
func reportOptions() (services.ReportOptions, error) {
	end := time.Now()
	if endDate != "" {
		parsed, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return services.ReportOptions{}, fmt.Errorf("invalid end date: %w", err)
		}
		end = parsed.AddDate(0, 0, 1).Add(-time.Second)
	}
	start := end.AddDate(0, 0, -7)
	if startDate != "" {
		parsed, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return services.ReportOptions{}, fmt.Errorf("invalid start date: %w", err)
		}
		start = parsed
	}
	if end.Before(start) {
		return services.ReportOptions{}, fmt.Errorf("range end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return services.ReportOptions{
		Start:  start,
		End:    end,
		Filter: alert.Filter{Companies: companies, AlertTypes: alertTypes},
	}, nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
