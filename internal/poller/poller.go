package poller

import (
	"context"
	"time"

	"github.com/riskibarqy/usopen-scoreboard/internal/domain/match"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/logging"
	"github.com/riskibarqy/usopen-scoreboard/internal/platform/timeutil"
)

const DefaultInterval = 5 * time.Second

type BoardFetcher interface {
	FetchBoard(ctx context.Context, gender match.Gender, date string) (Board, error)
}

type Config struct {
	Gender   match.Gender
	Date     string
	Interval time.Duration
	Location *time.Location
	Logger   *logging.Logger
	// OnUpdate receives every board after the merge. It runs on the poll goroutine.
	OnUpdate func(Board)
}

// Poller loads a board once and keeps its live scores fresh while the date
// is today in the home timezone.
type Poller struct {
	fetcher  BoardFetcher
	gender   match.Gender
	date     string
	interval time.Duration
	loc      *time.Location
	logger   *logging.Logger
	onUpdate func(Board)
	now      func() time.Time

	current *Board
}

func New(fetcher BoardFetcher, cfg Config) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	onUpdate := cfg.OnUpdate
	if onUpdate == nil {
		onUpdate = func(Board) {}
	}
	return &Poller{
		fetcher:  fetcher,
		gender:   cfg.Gender,
		date:     cfg.Date,
		interval: interval,
		loc:      loc,
		logger:   logger,
		onUpdate: onUpdate,
		now:      time.Now,
	}
}

// Run performs the initial load, returning its error, then polls until ctx
// is done or the date stops being today. Poll failures are logged and skipped.
func (p *Poller) Run(ctx context.Context) error {
	board, err := p.fetcher.FetchBoard(ctx, p.gender, p.date)
	if err != nil {
		return err
	}
	p.current = &board
	p.onUpdate(board)

	if !p.isToday() {
		p.logger.Debug("board is not today, live polling off", "date", p.date)
		return nil
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !p.isToday() {
				p.logger.Info("date rolled over, live polling stopped", "date", p.date)
				return nil
			}
			p.poll(ctx)
		}
	}
}

// Current returns the board on display, or nil before the first load.
func (p *Poller) Current() *Board {
	return p.current
}

func (p *Poller) poll(ctx context.Context) {
	next, err := p.fetcher.FetchBoard(ctx, p.gender, p.date)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("poll failed", "gender", p.gender, "date", p.date, "error", err)
		}
		return
	}
	merged := MergeLive(p.current, next)
	p.current = &merged
	p.onUpdate(merged)
}

func (p *Poller) isToday() bool {
	return timeutil.IsToday(p.date, p.now(), p.loc)
}
