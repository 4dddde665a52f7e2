package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tmercier/roomplan/internal/config"
	"github.com/tmercier/roomplan/pkg/clients/sheetsclient"
	"github.com/tmercier/roomplan/pkg/core/model"
	"github.com/tmercier/roomplan/pkg/core/services"
	"github.com/tmercier/roomplan/pkg/csvio"
	"github.com/tmercier/roomplan/pkg/postgres"
	"github.com/tmercier/roomplan/pkg/timetable"
	"github.com/tmercier/roomplan/pkg/utils/display"
	"github.com/tmercier/roomplan/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg          *config.Config
	sheetsClient *sheetsclient.Client
	database     *postgres.DB
	logger       *zap.Logger
	ctx          context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "roomplan",
		Short: "Roomplan CLI - Assign rooms to timetabled class sessions",
		Long:  `A CLI tool for importing cohort timetables, allocating rooms to class sessions, and viewing the day's room plan.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.database != nil {
					app.database.Close()
				}
				if app.logger != nil {
					app.logger.Sync()
				}
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(importTimetableCmd())
	rootCmd.AddCommand(importSheetCmd())
	rootCmd.AddCommand(defineRecurringCmd())
	rootCmd.AddCommand(allocateRoomsCmd())
	rootCmd.AddCommand(dayViewCmd())
	rootCmd.AddCommand(setRoomCmd())
	rootCmd.AddCommand(setCohortCmd())
	rootCmd.AddCommand(removeCohortCmd())
	rootCmd.AddCommand(listRoomsCmd())
	rootCmd.AddCommand(lockCmd())
	rootCmd.AddCommand(unlockCmd())
	rootCmd.AddCommand(resetImportsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Connect to database and apply migrations
	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

// sheets returns the Google Sheets client, authenticating on first use.
// Only the importSheet command pays the OAuth browser flow.
func sheets() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.logger.Info("Initializing sheets client")
	app.sheetsClient, err = sheetsclient.NewClient(app.ctx, oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return app.sheetsClient, nil
}

func loadRooms() ([]model.Room, error) {
	rooms, err := csvio.LoadRooms(app.cfg.RoomsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load room catalog: %w", err)
	}
	return rooms, nil
}

// Command definitions

func importTimetableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importTimetable <file>",
		Short: "Import a cohort's timetable from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cohort, _ := cmd.Flags().GetString("cohort")

			result, err := services.ImportTimetable(app.ctx, app.database, app.logger, app.cfg.PlanYear, args[0], cohort)
			if err != nil {
				return err
			}

			printImportResult(result)
			return nil
		},
	}

	cmd.Flags().String("cohort", "", "Cohort name (default: derived from the filename)")

	return cmd
}

func importSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "importSheet <tab>",
		Short: "Import a cohort's timetable from the configured Google Sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.cfg.TimetableSheetID == "" {
				return fmt.Errorf("timetableSheetID is not set in the configuration")
			}
			cohort, _ := cmd.Flags().GetString("cohort")

			client, err := sheets()
			if err != nil {
				return err
			}

			result, err := services.ImportTimetableSheet(app.ctx, app.database, client, app.logger, app.cfg.PlanYear, app.cfg.TimetableSheetID, args[0], cohort)
			if err != nil {
				return err
			}

			printImportResult(result)
			return nil
		},
	}

	cmd.Flags().String("cohort", "", "Cohort name (default: the tab name)")

	return cmd
}

func printImportResult(result *services.ImportResult) {
	fmt.Printf("\n✓ Timetable imported!\n\n")
	fmt.Printf("Cohort:   %s\n", result.Cohort)
	fmt.Printf("Sessions: %d\n", result.Sessions)
	if result.NewCohort {
		fmt.Printf("\nNew cohort registered with headcount 0.\n")
		fmt.Printf("Set it before allocating: roomplan setCohort %q <headcount>\n", result.Cohort)
	}
	fmt.Println()
}

func defineRecurringCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defineRecurring",
		Short: "Expand the configured recurring sessions into the plan year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.DefineRecurringSessions(app.ctx, app.database, app.cfg, app.logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Recurring sessions expanded!\n\n")
			fmt.Printf("Rules:    %d\n", result.Entries)
			fmt.Printf("Sessions: %d\n\n", result.Sessions)
			return nil
		},
	}
}

func allocateRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocateRooms",
		Short: "Assign rooms to every unassigned session of the plan year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			rooms, err := loadRooms()
			if err != nil {
				return err
			}

			result, err := services.AllocateRooms(app.ctx, app.database, app.logger, app.cfg.PlanYear, rooms, dryRun)
			if err != nil {
				return err
			}

			if dryRun {
				fmt.Printf("\n✓ Allocation computed (dry run, nothing saved)\n\n")
			} else {
				fmt.Printf("\n✓ Allocation completed!\n\n")
			}
			fmt.Printf("Sessions:           %d\n", result.Total)
			fmt.Printf("Already assigned:   %d\n", result.PreviouslyAssigned)
			fmt.Printf("Newly assigned:     %d\n", result.Assigned)
			fmt.Printf("Unassigned:         %d\n", len(result.Unassigned))

			if len(result.Unassigned) > 0 {
				fmt.Printf("\nNo room found for:\n")
				for _, s := range result.Unassigned {
					fmt.Printf("  ✗ %s %s-%s %s (%s)\n",
						s.Date,
						timetable.FormatClock(s.StartMin),
						timetable.FormatClock(s.EndMin),
						s.Cohort,
						s.Subject,
					)
				}
			}

			if len(result.Violations) > 0 {
				fmt.Printf("\n⚠ %d assignment problems (manual overrides?):\n", len(result.Violations))
				for _, v := range result.Violations {
					fmt.Printf("  ✗ [%s] %s\n", v.Check, v.Description)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Compute assignments without saving them")

	return cmd
}

func dayViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dayView [date]",
		Short: "Show the room plan for a day (defaults to today or the next teaching day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date string
			if len(args) > 0 {
				date = args[0]
			}

			result, err := services.DayView(app.ctx, app.database, app.logger, app.cfg.PlanYear, date, time.Now())
			if err != nil {
				return err
			}

			header := display.FrenchDate(result.Date)
			if result.IsToday {
				header += " (aujourd'hui)"
			}
			fmt.Printf("\n%s\n\n", header)

			printColumn("Matin", result.Morning)
			printColumn("Après-midi", result.Afternoon)

			return nil
		},
	}
}

func printColumn(title string, entries []services.DayEntry) {
	fmt.Printf("%s:\n", title)
	if len(entries) == 0 {
		fmt.Printf("  (aucun cours)\n\n")
		return
	}
	for _, e := range entries {
		room := e.Room
		if room == "" {
			room = "??"
		}
		fmt.Printf("  %-25s %-10s %s-%s  %s\n",
			e.Cohort,
			room,
			timetable.FormatClock(e.StartMin),
			timetable.FormatClock(e.EndMin),
			e.Subject,
		)
	}
	fmt.Println()
}

func setRoomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setRoom <date> <cohort> <room>",
		Short: "Manually assign a room to a cohort's sessions on a date (room '-' clears it)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			room := args[2]
			if room == "-" {
				room = ""
			}

			count, err := services.SetRoomOverride(app.ctx, app.database, app.logger, app.cfg.PlanYear, args[0], args[1], room)
			if err != nil {
				return err
			}

			if room == "" {
				fmt.Printf("\n✓ Cleared the room of %d sessions\n\n", count)
			} else {
				fmt.Printf("\n✓ Assigned %s to %d sessions\n\n", room, count)
			}
			return nil
		},
	}
}

func setCohortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setCohort <name> <headcount>",
		Short: "Set a cohort's headcount and accessibility requirement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			headcount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("headcount must be a number: %w", err)
			}
			accessible, _ := cmd.Flags().GetBool("accessible")

			cohort, err := services.SetCohortRequirements(app.ctx, app.database, app.logger, app.cfg.PlanYear, args[0], headcount, accessible)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Cohort saved!\n\n")
			fmt.Printf("Name:       %s\n", cohort.Name)
			fmt.Printf("Headcount:  %d\n", cohort.Headcount)
			fmt.Printf("Accessible: %t\n\n", cohort.RequiresAccessible)
			return nil
		},
	}

	cmd.Flags().Bool("accessible", false, "The cohort needs an accessible room")

	return cmd
}

func removeCohortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "removeCohort <name>",
		Short: "Remove a cohort's record (its sessions are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.RemoveCohort(app.ctx, app.database, app.logger, app.cfg.PlanYear, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Cohort removed\n\n")
			return nil
		},
	}
}

func listRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listRooms",
		Short: "List the room catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rooms, err := loadRooms()
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d rooms:\n\n", len(rooms))
			for _, r := range rooms {
				access := ""
				if r.Accessible {
					access = " [accessible]"
				}
				fmt.Printf("- %-10s %3d places%s\n", r.Code, r.Capacity, access)
			}
			fmt.Println()
			return nil
		},
	}
}

func lockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the plan year against imports and resets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.SetYearLock(app.ctx, app.database, app.logger, app.cfg.PlanYear, true); err != nil {
				return err
			}
			fmt.Printf("\n✓ Plan year %s locked\n\n", app.cfg.PlanYear)
			return nil
		},
	}
}

func unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Unlock the plan year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.SetYearLock(app.ctx, app.database, app.logger, app.cfg.PlanYear, false); err != nil {
				return err
			}
			fmt.Printf("\n✓ Plan year %s unlocked\n\n", app.cfg.PlanYear)
			return nil
		},
	}
}

func resetImportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resetImports",
		Short: "Delete every session of the plan year (cohorts are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.ResetImports(app.ctx, app.database, app.logger, app.cfg.PlanYear); err != nil {
				return err
			}
			fmt.Printf("\n✓ Sessions of %s deleted\n\n", app.cfg.PlanYear)
			return nil
		},
	}
}
