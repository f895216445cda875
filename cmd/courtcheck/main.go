package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/five82/courtcheck/internal/app"
	"github.com/five82/courtcheck/internal/catalog"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	date := flag.String("date", "", "check this date (YYYY-MM-DD) and print results instead of starting the UI")
	until := flag.String("until", "", "last date of the range, inclusive (YYYY-MM-DD)")
	timeBucket := flag.String("time", "", "time of day: "+strings.Join(catalog.TimeBucketNames(), ", "))
	location := flag.String("location", "", "sport center name or code: "+strings.Join(catalog.LocationNames(), ", "))
	category := flag.String("category", "", "sport category (defaults to the configured category)")
	format := flag.String("format", "", "one-shot output format: table, json or yaml")
	once := flag.Bool("once", false, "print results for today (or -date) without starting the UI")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		Date:       *date,
		Until:      *until,
		TimeBucket: *timeBucket,
		Location:   *location,
		Category:   *category,
		Format:     *format,
	}

	runner := app.Run
	if *once || *date != "" || *format != "" {
		runner = app.RunOnce
	}
	if err := runner(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "courtcheck: %v\n", err)
		return 1
	}
	return 0
}
