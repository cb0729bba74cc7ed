package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"dayplan/internal/app"
	"dayplan/internal/engine"
	"dayplan/internal/planner"
	"dayplan/internal/reminder"
)

const usage = `usage: dayplan [-config path] <command>

commands:
  plan [-date YYYY-MM-DD] [-now HH:MM] [-json]   compute one day's schedule
  import <tasks.yaml>                            load task templates into the database
  validate <tasks.yaml>                          check a template file without writing
  serve                                          run the reminder daemon
`

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config file (yaml or json)")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "plan":
		err = runPlan(cfgPath, args[1:])
	case "import":
		err = runImport(cfgPath, args[1:])
	case "validate":
		err = runValidate(args[1:])
	case "serve":
		err = runServe(cfgPath)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runPlan(cfgPath string, args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	dateStr := fs.String("date", "", "day to plan, YYYY-MM-DD (default today)")
	nowStr := fs.String("now", "", "treat this HH:MM as the current time")
	asJSON := fs.Bool("json", false, "print the raw result as JSON")
	_ = fs.Parse(args)

	date := engine.DateOf(time.Now())
	if *dateStr != "" {
		d, err := engine.ParseDate(*dateStr)
		if err != nil {
			return err
		}
		date = d
	}
	if *nowStr != "" {
		if _, err := engine.ParseClock(*nowStr); err != nil {
			return err
		}
	}

	pl, _, cleanup, err := app.OpenPlanner(cfgPath)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	res, err := pl.PlanFor(ctx, date, *nowStr)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	names, err := pl.TemplateNames(ctx)
	if err != nil {
		return err
	}
	fmt.Println(reminder.FormatDay(date, res, names))
	if !res.Success {
		os.Exit(1)
	}
	return nil
}

func runImport(cfgPath string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import needs exactly one template file")
	}
	pl, _, cleanup, err := app.OpenPlanner(cfgPath)
	if err != nil {
		return err
	}
	defer cleanup()

	n, err := pl.ImportTemplates(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Printf("imported %d templates from %s\n", n, args[0])
	return nil
}

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("validate needs exactly one template file")
	}
	templates, err := planner.LoadTemplateFile(args[0])
	if err != nil {
		return err
	}
	bad := 0
	for _, t := range templates {
		if err := planner.ValidateTemplate(t); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", t.ID, err)
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d of %d templates invalid", bad, len(templates))
	}
	fmt.Printf("%d templates ok\n", len(templates))
	return nil
}

func runServe(cfgPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(cfgPath)
	if err != nil {
		return err
	}
	if err := a.Start(ctx); err != nil {
		_ = a.Stop(context.Background())
		return err
	}
	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)

	<-ctx.Done()
	_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return a.Stop(stopCtx)
}
