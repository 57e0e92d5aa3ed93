package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
	"github.com/riskibarqy/usopen-scoreboard/internal/poller"
)

func main() {
	baseURL := flag.String("base", "http://localhost:3000", "scoreboard API base URL")
	genderFlag := flag.String("gender", string(match.GenderMen), "draw to watch: men or women")
	dateFlag := flag.String("date", "", "day to watch as YYYY-MM-DD (default: today in -tz)")
	tz := flag.String("tz", timeutil.DefaultZone, "tournament home timezone")
	interval := flag.Duration("interval", poller.DefaultInterval, "live poll interval")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger := logging.NewJSONWriter(os.Stderr, logging.ParseLevel(*logLevel))
	logging.SetDefault(logger)

	gender, ok := match.ParseGender(*genderFlag)
	if !ok {
		logger.Error("invalid gender", "gender", *genderFlag)
		os.Exit(2)
	}
	loc, err := timeutil.LoadZone(*tz)
	if err != nil {
		logger.Error("invalid timezone", "error", err)
		os.Exit(2)
	}
	date := strings.TrimSpace(*dateFlag)
	if date == "" {
		date = timeutil.CurrentDate(time.Now(), loc)
	}
	if !timeutil.IsCalendarDate(date) {
		logger.Error("invalid date", "date", date)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := poller.New(poller.NewClient(poller.ClientConfig{BaseURL: *baseURL}), poller.Config{
		Gender:   gender,
		Date:     date,
		Interval: *interval,
		Location: loc,
		Logger:   logger,
		OnUpdate: func(b poller.Board) { render(os.Stdout, b, loc) },
	})
	if err := p.Run(ctx); err != nil {
		logger.Error("load board", "error", err)
		os.Exit(1)
	}
}

func render(w io.Writer, b poller.Board, loc *time.Location) {
	// Clear the screen and home the cursor.
	fmt.Fprint(w, "\033[H\033[2J")
	fmt.Fprintf(w, "%s singles, %s (updated %s)\n", b.Gender, b.Date, b.LastUpdated)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	section(tw, "LIVE", b.Live, loc)
	section(tw, "UPCOMING", b.Upcoming, loc)
	section(tw, "COMPLETED", b.Completed, loc)
	_ = tw.Flush()
}

func section(w io.Writer, title string, matches []match.Match, loc *time.Location) {
	fmt.Fprintf(w, "\n%s (%d)\n", title, len(matches))
	for _, m := range matches {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			startLabel(m, loc),
			m.Round,
			m.Court,
			playerLabel(m.Players[0])+" vs "+playerLabel(m.Players[1]),
			setsLabel(m.Sets),
			gameLabel(m.CurrentGame),
		)
	}
}

func startLabel(m match.Match, loc *time.Location) string {
	if m.Status != match.StatusUpcoming {
		return string(m.Status)
	}
	start, ok := timeutil.ParseUpstream(m.StartTime)
	if !ok {
		return "TBD"
	}
	return timeutil.FormatTime(start, loc)
}

func playerLabel(p match.Player) string {
	label := p.Name
	if p.Seed != nil {
		label += " (" + strconv.Itoa(*p.Seed) + ")"
	}
	if p.FlagEmoji != "" {
		label = p.FlagEmoji + " " + label
	}
	return label
}

func setsLabel(sets []match.SetScore) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, " ")
}

func gameLabel(g *match.CurrentGame) string {
	if g == nil {
		return ""
	}
	return pointLabel(g.PointsA) + "-" + pointLabel(g.PointsB)
}

func pointLabel(points int) string {
	if points == 50 {
		return "AD"
	}
	return strconv.Itoa(points)
}
