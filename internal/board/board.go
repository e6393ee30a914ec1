// Package board schedules per-line refresh cycles and the shared countdown,
// and holds the published results that presenters read.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/feed"
	"leaveby.app/internal/logging"
)

// Options configures a Board. Zero durations fall back to the defaults below.
type Options struct {
	RefreshInterval   time.Duration
	CountdownInterval time.Duration
	FetchTimeout      time.Duration

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Registerer receives the board metrics. Defaults to a private registry.
	Registerer prometheus.Registerer
}

const (
	DefaultRefreshInterval   = 15 * time.Second
	DefaultCountdownInterval = time.Second
	DefaultFetchTimeout      = 10 * time.Second
)

func (o Options) withDefaults() Options {
	if o.RefreshInterval <= 0 {
		o.RefreshInterval = DefaultRefreshInterval
	}
	if o.CountdownInterval <= 0 {
		o.CountdownInterval = DefaultCountdownInterval
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Registerer == nil {
		o.Registerer = prometheus.NewRegistry()
	}
	return o
}

// Frame is one countdown rendering of every tracked line, in config order.
// Frames are shared between goroutines and must not be modified.
type Frame struct {
	At    time.Time
	Lines []arrivals.LineView
}

// Presenter receives every frame the board produces.
type Presenter interface {
	Present(Frame)
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(Frame)

func (f PresenterFunc) Present(frame Frame) { f(frame) }

// Board owns the tracked lines, refreshes each on its own schedule and
// republishes countdown frames on a faster one.
type Board struct {
	lines    []arrivals.TrackedLine
	decoders map[string]feed.Decoder
	fetcher  feed.Fetcher
	opts     Options
	logger   *slog.Logger
	metrics  *Metrics

	resultsMutex sync.RWMutex
	results      map[string]*arrivals.LineResult

	frame atomic.Pointer[Frame]

	presentersMutex sync.RWMutex
	presenters      []Presenter

	ctx          context.Context
	cancel       context.CancelFunc
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	startOnce    sync.Once
	shutdownOnce sync.Once
}

// New creates a Board for lines. Every line starts out Pending. Background
// work begins with Start.
func New(lines []arrivals.TrackedLine, fetcher feed.Fetcher, opts Options) (*Board, error) {
	opts = opts.withDefaults()

	board := &Board{
		lines:        append([]arrivals.TrackedLine(nil), lines...),
		decoders:     make(map[string]feed.Decoder, len(lines)),
		fetcher:      fetcher,
		opts:         opts,
		logger:       opts.Logger,
		metrics:      NewMetrics(opts.Registerer),
		results:      make(map[string]*arrivals.LineResult, len(lines)),
		shutdownChan: make(chan struct{}),
	}
	board.ctx, board.cancel = context.WithCancel(context.Background())

	for _, line := range lines {
		if _, dup := board.results[line.ID]; dup {
			return nil, fmt.Errorf("duplicate line id %q", line.ID)
		}

		decoder, err := feed.DecoderFor(line.Format)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", line.ID, err)
		}

		board.decoders[line.ID] = decoder
		board.results[line.ID] = arrivals.Pending(line)
	}

	board.Tick()
	return board, nil
}

// AddPresenter registers p to receive every subsequent frame.
func (board *Board) AddPresenter(p Presenter) {
	board.presentersMutex.Lock()
	defer board.presentersMutex.Unlock()
	board.presenters = append(board.presenters, p)
}

// Start launches one refresh goroutine per line and the countdown goroutine.
// Calling Start more than once has no further effect.
func (board *Board) Start() {
	board.startOnce.Do(func() {
		for _, line := range board.lines {
			board.wg.Add(1)
			go board.refreshPeriodically(line)
		}

		board.wg.Add(1)
		go board.countdownPeriodically()
	})
}

// Shutdown stops every background goroutine and waits for them to exit.
func (board *Board) Shutdown() {
	board.shutdownOnce.Do(func() {
		close(board.shutdownChan)
		board.cancel()
		board.wg.Wait()
	})
}

// Lines returns the tracked lines in config order.
func (board *Board) Lines() []arrivals.TrackedLine {
	return append([]arrivals.TrackedLine(nil), board.lines...)
}

// Line returns the tracked line with the given id.
func (board *Board) Line(id string) (arrivals.TrackedLine, bool) {
	for _, line := range board.lines {
		if line.ID == id {
			return line, true
		}
	}
	return arrivals.TrackedLine{}, false
}

// Result returns the latest published result for a line.
func (board *Board) Result(id string) (*arrivals.LineResult, bool) {
	board.resultsMutex.RLock()
	defer board.resultsMutex.RUnlock()
	result, ok := board.results[id]
	return result, ok
}

// Results returns the latest published results in config order.
func (board *Board) Results() []*arrivals.LineResult {
	board.resultsMutex.RLock()
	defer board.resultsMutex.RUnlock()

	results := make([]*arrivals.LineResult, len(board.lines))
	for i, line := range board.lines {
		results[i] = board.results[line.ID]
	}
	return results
}

// Ready reports whether every line has completed at least one refresh cycle.
func (board *Board) Ready() bool {
	for _, result := range board.Results() {
		if result.Status == arrivals.StatusPending {
			return false
		}
	}
	return true
}

// Frame returns the most recent countdown frame.
func (board *Board) Frame() Frame {
	return *board.frame.Load()
}

// Tick derives a countdown frame from the published results at the current
// time, stores it as the latest frame and hands it to every presenter.
func (board *Board) Tick() Frame {
	now := board.opts.Now()
	results := board.Results()

	frame := Frame{At: now, Lines: make([]arrivals.LineView, len(results))}
	for i, result := range results {
		frame.Lines[i] = arrivals.Countdown(result, now)
	}

	board.frame.Store(&frame)
	board.metrics.CountdownTicksTotal.Inc()

	board.presentersMutex.RLock()
	presenters := append([]Presenter(nil), board.presenters...)
	board.presentersMutex.RUnlock()

	for _, p := range presenters {
		p.Present(frame)
	}

	return frame
}

// RefreshAll runs one refresh cycle for every line concurrently and waits
// for all of them. Failed lines publish an error marker and do not affect
// the others.
func (board *Board) RefreshAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, line := range board.lines {
		wg.Add(1)
		go func(line arrivals.TrackedLine) {
			defer wg.Done()
			_, _ = board.RefreshLine(ctx, line)
		}(line)
	}
	wg.Wait()
}

// RefreshLine fetches, decodes and evaluates the snapshot for line and
// publishes the outcome. A fetch or decode failure publishes an error marker
// in place of the previous result and is returned. Nothing is published when
// ctx is cancelled before the cycle completes.
func (board *Board) RefreshLine(ctx context.Context, line arrivals.TrackedLine) (*arrivals.LineResult, error) {
	logger := board.logger.With(
		slog.String("component", "line_refresher"),
		slog.String("line", line.ID),
	)

	decoder, ok := board.decoders[line.ID]
	if !ok {
		return nil, fmt.Errorf("unknown line %q", line.ID)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, board.opts.FetchTimeout)
	defer cancel()
	fetchCtx = logging.WithLogger(fetchCtx, logger)

	started := time.Now()
	raw, err := board.fetcher.Fetch(fetchCtx, line.Source)
	board.metrics.FetchDurationSeconds.WithLabelValues(line.ID).Observe(time.Since(started).Seconds())

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		return board.fail(logger, line, outcomeTransportError, err), err
	}

	snapshot, err := decoder.Decode(raw)
	if err != nil {
		return board.fail(logger, line, outcomeDecodeError, err), err
	}

	result := arrivals.Evaluate(snapshot, line, board.opts.Now())
	board.publish(result)
	board.metrics.RefreshTotal.WithLabelValues(line.ID, outcomeOK).Inc()

	logging.LogOperation(logger, "line_refreshed",
		slog.Int("inbound", len(result.Inbound)),
		slog.Int("outbound", len(result.Outbound)),
		slog.Int("updates", len(snapshot.Updates)),
		slog.Uint64("generation", result.Generation))

	return result, nil
}

func (board *Board) fail(logger *slog.Logger, line arrivals.TrackedLine, outcome string, err error) *arrivals.LineResult {
	var transportErr *feed.TransportError
	attrs := []slog.Attr{slog.String("source", line.Source)}
	if errors.As(err, &transportErr) && transportErr.StatusCode != 0 {
		attrs = append(attrs, slog.Int("status_code", transportErr.StatusCode))
	}
	logging.LogError(logger, "line_refresh_failed", err, attrs...)

	result := arrivals.Failed(line, err, board.opts.Now())
	board.publish(result)
	board.metrics.RefreshTotal.WithLabelValues(line.ID, outcome).Inc()
	return result
}

// publish replaces the line's result. result must not be visible to any
// other goroutine yet.
func (board *Board) publish(result *arrivals.LineResult) {
	board.resultsMutex.Lock()
	if previous, ok := board.results[result.Line.ID]; ok {
		result.Generation = previous.Generation + 1
	}
	board.results[result.Line.ID] = result
	board.resultsMutex.Unlock()

	board.metrics.observePublished(result)
}

func (board *Board) refreshPeriodically(line arrivals.TrackedLine) {
	defer board.wg.Done()

	logger := board.logger.With(
		slog.String("component", "line_refresher"),
		slog.String("line", line.ID),
	)

	_, _ = board.RefreshLine(board.ctx, line)

	ticker := time.NewTicker(board.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = board.RefreshLine(board.ctx, line)
		case <-board.shutdownChan:
			logging.LogOperation(logger, "shutting_down_line_refresh")
			return
		}
	}
}

func (board *Board) countdownPeriodically() {
	defer board.wg.Done()

	logger := board.logger.With(slog.String("component", "countdown"))

	ticker := time.NewTicker(board.opts.CountdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			board.Tick()
		case <-board.shutdownChan:
			logging.LogOperation(logger, "shutting_down_countdown")
			return
		}
	}
}
