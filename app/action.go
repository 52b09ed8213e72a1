package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/daybook/config"
	"github.com/ayoisaiah/daybook/dashboard"
	"github.com/ayoisaiah/daybook/engine"
	"github.com/ayoisaiah/daybook/internal/applog"
	"github.com/ayoisaiah/daybook/internal/models"
	"github.com/ayoisaiah/daybook/internal/timeutil"
	"github.com/ayoisaiah/daybook/internal/ui"
	"github.com/ayoisaiah/daybook/report"
	"github.com/ayoisaiah/daybook/store"
	"github.com/ayoisaiah/daybook/tracker"
)

const (
	envNoColor        = "NO_COLOR"
	envDaybookNoColor = "DAYBOOK_NO_COLOR"
)

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

// configHelper resolves the effective configuration from the config file
// and CLI overrides.
func configHelper(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	return cfg, nil
}

// dayHelper resolves the requested day into the reporting timezone.
func dayHelper(
	ctx *cli.Context,
	engCfg engine.Config,
) (startTime, endTime time.Time, err error) {
	filter, err := config.Filter(ctx)
	if err != nil {
		return startTime, endTime, err
	}

	day := timeutil.RoundToStart(filter.Date.In(engCfg.Location))

	return day, timeutil.RoundToEnd(day), nil
}

// trackAction runs the sampling daemon until interrupted.
func trackAction(ctx *cli.Context) error {
	cfg, err := configHelper(ctx)
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	tr, err := tracker.New(cfg, db, nil)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(
		ctx.Context,
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	err = tr.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// reportAction prints the report for the requested day, preferring a
// stored aggregate unless --recompute is set.
func reportAction(ctx *cli.Context) error {
	cfg, err := configHelper(ctx)
	if err != nil {
		return err
	}

	engCfg, err := cfg.Engine()
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	startTime, endTime, err := dayHelper(ctx, engCfg)
	if err != nil {
		return err
	}

	var agg *models.DailyAggregate

	if !ctx.Bool("recompute") {
		agg, err = db.GetAggregate(startTime)
		if err != nil {
			return err
		}
	}

	if agg == nil {
		events, skipped, err := db.GetEvents(startTime, endTime)
		if err != nil {
			return err
		}

		agg, err = engine.Daily(engCfg, startTime, events)
		if err != nil {
			return err
		}

		agg.SkippedEvents += skipped
	}

	if ctx.Bool("json") {
		return report.JSON(os.Stdout, agg)
	}

	return report.Render(os.Stdout, agg)
}

// dashboardAction shows the live dashboard for today.
func dashboardAction(ctx *cli.Context) error {
	cfg, err := configHelper(ctx)
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	m, err := dashboard.New(cfg, db, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err = p.Run()

	return err
}

// listAction prints a table of the raw events recorded on a day.
func listAction(ctx *cli.Context) error {
	cfg, err := configHelper(ctx)
	if err != nil {
		return err
	}

	engCfg, err := cfg.Engine()
	if err != nil {
		return err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	defer db.Close()

	startTime, endTime, err := dayHelper(ctx, engCfg)
	if err != nil {
		return err
	}

	events, skipped, err := db.GetEvents(startTime, endTime)
	if err != nil {
		return err
	}

	if skipped > 0 {
		pterm.Warning.Printfln("Skipped %d malformed event(s)", skipped)
	}

	if ctx.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(events)
	}

	return listEvents(events, engCfg.Location)
}

// editConfigAction handles the edit-config command which opens the
// daybook config file in the user's default text editor.
func editConfigAction(_ *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cmd := exec.Command(editor, config.ConfigFilePath())

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func beforeAction(ctx *cli.Context) error {
	applog.Init(config.LogFilePath())

	// Override the default version printer
	oldVersionPrinter := cli.VersionPrinter
	cli.VersionPrinter = func(c *cli.Context) {
		oldVersionPrinter(c)
		fmt.Printf(
			"https://github.com/ayoisaiah/daybook/releases/%s\n",
			c.App.Version,
		)
	}

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	if _, exists := os.LookupEnv(envDaybookNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

func afterAction(ctx *cli.Context) error {
	slog.InfoContext(ctx.Context, "exiting daybook")

	return nil
}
