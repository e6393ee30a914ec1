package board

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/feed"
	"leaveby.app/internal/feed/feedtest"
)

var now = time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC)

func clock() time.Time { return now }

type fetcherFunc func(ctx context.Context, source string) ([]byte, error)

func (f fetcherFunc) Fetch(ctx context.Context, source string) ([]byte, error) {
	return f(ctx, source)
}

func walk(d time.Duration) *time.Duration { return &d }

func g14Line(id, source string) arrivals.TrackedLine {
	return arrivals.TrackedLine{
		ID:            id,
		Name:          id + " train",
		Source:        source,
		Station:       "G14",
		HideThreshold: 14 * time.Minute,
		WalkTime:      walk(16 * time.Minute),
	}
}

func g14Feed(t *testing.T) []byte {
	return feedtest.Bytes(t, now,
		feedtest.Trip{EntityID: "1", TripID: "R-1", RouteID: "R", Stops: []feedtest.Stop{
			{ID: "G14S", Arrival: now.Unix() + 900},
			{ID: "G14N", Arrival: now.Unix() + 1500},
		}},
		feedtest.Trip{EntityID: "2", TripID: "R-2", RouteID: "R", Stops: []feedtest.Stop{
			{ID: "G14S", Arrival: now.Unix() + 1800},
		}},
	)
}

// newFeedServer serves a good feed at /good, garbage at /malformed and a 503
// at /down.
func newFeedServer(t *testing.T) *httptest.Server {
	good := g14Feed(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/good", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(good)
	})
	mux.HandleFunc("/malformed", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(feedtest.Malformed())
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNewStartsPending(t *testing.T) {
	board, err := New([]arrivals.TrackedLine{g14Line("r", "x"), g14Line("e", "y")}, nil, Options{Now: clock})
	require.NoError(t, err)

	results := board.Results()
	require.Len(t, results, 2)
	assert.Equal(t, "r", results[0].Line.ID)
	assert.Equal(t, "e", results[1].Line.ID)
	for _, result := range results {
		assert.Equal(t, arrivals.StatusPending, result.Status)
	}
	assert.False(t, board.Ready())

	frame := board.Frame()
	assert.Equal(t, now, frame.At)
	assert.Len(t, frame.Lines, 2)
}

func TestNewRejectsInvalidLines(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		_, err := New([]arrivals.TrackedLine{g14Line("r", "x"), g14Line("r", "y")}, nil, Options{})
		assert.Error(t, err)
	})

	t.Run("unknown format", func(t *testing.T) {
		line := g14Line("r", "x")
		line.Format = "xml"
		_, err := New([]arrivals.TrackedLine{line}, nil, Options{})
		assert.Error(t, err)
	})
}

func TestRefreshAllIsolatesFailingLines(t *testing.T) {
	server := newFeedServer(t)
	registry := prometheus.NewRegistry()

	lines := []arrivals.TrackedLine{
		g14Line("good", server.URL+"/good"),
		g14Line("malformed", server.URL+"/malformed"),
		g14Line("down", server.URL+"/down"),
	}
	board, err := New(lines, feed.NewHTTPFetcher(server.Client(), nil), Options{Now: clock, Registerer: registry})
	require.NoError(t, err)

	board.RefreshAll(context.Background())

	good, ok := board.Result("good")
	require.True(t, ok)
	assert.Equal(t, arrivals.StatusOK, good.Status)
	require.Len(t, good.Inbound, 2)
	assert.Equal(t, "R-1", good.Inbound[0].TripID)
	require.Len(t, good.Outbound, 1)
	require.NotNil(t, good.Advice)
	assert.Equal(t, arrivals.TooLate, good.Advice.Kind)

	malformed, _ := board.Result("malformed")
	assert.Equal(t, arrivals.StatusFailed, malformed.Status)
	var decodeErr *feed.DecodeError
	assert.ErrorAs(t, malformed.Err, &decodeErr)
	assert.Empty(t, malformed.Inbound)
	assert.Empty(t, malformed.Outbound)

	down, _ := board.Result("down")
	assert.Equal(t, arrivals.StatusFailed, down.Status)
	var transportErr *feed.TransportError
	require.ErrorAs(t, down.Err, &transportErr)
	assert.Equal(t, http.StatusServiceUnavailable, transportErr.StatusCode)

	assert.True(t, board.Ready())

	assert.Equal(t, 1.0, testutil.ToFloat64(board.metrics.RefreshTotal.WithLabelValues("good", outcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(board.metrics.RefreshTotal.WithLabelValues("malformed", outcomeDecodeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(board.metrics.RefreshTotal.WithLabelValues("down", outcomeTransportError)))
	assert.Equal(t, 2.0, testutil.ToFloat64(board.metrics.PublishedArrivals.WithLabelValues("good", "Inbound")))
}

func TestFailureReplacesPreviousResult(t *testing.T) {
	good := g14Feed(t)
	var fail atomic.Bool
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) {
		if fail.Load() {
			return nil, &feed.TransportError{Source: source, Err: errors.New("connection refused")}
		}
		return good, nil
	})

	line := g14Line("r", "feed")
	board, err := New([]arrivals.TrackedLine{line}, fetcher, Options{Now: clock})
	require.NoError(t, err)

	first, err := board.RefreshLine(context.Background(), line)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Generation)
	assert.Len(t, first.Inbound, 2)

	fail.Store(true)
	second, err := board.RefreshLine(context.Background(), line)
	require.Error(t, err)
	assert.Equal(t, arrivals.StatusFailed, second.Status)
	assert.Equal(t, uint64(2), second.Generation)

	published, _ := board.Result("r")
	assert.Same(t, second, published)
	assert.Empty(t, published.Inbound)

	// The next cycle retries and recovers.
	fail.Store(false)
	third, err := board.RefreshLine(context.Background(), line)
	require.NoError(t, err)
	assert.Equal(t, arrivals.StatusOK, third.Status)
	assert.Equal(t, uint64(3), third.Generation)

	// Published results are never modified in place.
	assert.Len(t, first.Inbound, 2)
	assert.Equal(t, arrivals.StatusFailed, second.Status)
}

func TestRefreshLineCancelledPublishesNothing(t *testing.T) {
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) {
		<-ctx.Done()
		return nil, &feed.TransportError{Source: source, Err: ctx.Err()}
	})

	line := g14Line("r", "feed")
	board, err := New([]arrivals.TrackedLine{line}, fetcher, Options{Now: clock})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := board.RefreshLine(ctx, line)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)

	published, _ := board.Result("r")
	assert.Equal(t, arrivals.StatusPending, published.Status)
}

func TestRefreshLineTimeoutPublishesFailure(t *testing.T) {
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) {
		<-ctx.Done()
		return nil, &feed.TransportError{Source: source, Err: ctx.Err()}
	})

	line := g14Line("slow", "feed")
	board, err := New([]arrivals.TrackedLine{line}, fetcher, Options{Now: clock, FetchTimeout: 20 * time.Millisecond})
	require.NoError(t, err)

	result, err := board.RefreshLine(context.Background(), line)
	require.Error(t, err)
	assert.Equal(t, arrivals.StatusFailed, result.Status)
}

func TestSlowLineDoesNotBlockOthers(t *testing.T) {
	good := g14Feed(t)
	release := make(chan struct{})
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) {
		if source == "slow" {
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return good, nil
	})

	lines := []arrivals.TrackedLine{g14Line("slow", "slow"), g14Line("fast", "fast")}
	board, err := New(lines, fetcher, Options{Now: clock, RefreshInterval: time.Hour, CountdownInterval: time.Hour})
	require.NoError(t, err)

	board.Start()
	defer board.Shutdown()

	require.Eventually(t, func() bool {
		result, _ := board.Result("fast")
		return result.Status == arrivals.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	slow, _ := board.Result("slow")
	assert.Equal(t, arrivals.StatusPending, slow.Status)

	close(release)
	require.Eventually(t, board.Ready, 2*time.Second, 10*time.Millisecond)
}

func TestTickPresentsFrames(t *testing.T) {
	current := now
	var mu sync.Mutex
	tickClock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}

	good := g14Feed(t)
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) { return good, nil })

	line := g14Line("r", "feed")
	line.HideThreshold = 0
	board, err := New([]arrivals.TrackedLine{line}, fetcher, Options{Now: tickClock})
	require.NoError(t, err)

	var frames []Frame
	board.AddPresenter(PresenterFunc(func(frame Frame) { frames = append(frames, frame) }))

	board.RefreshAll(context.Background())

	first := board.Tick()
	mu.Lock()
	current = now.Add(time.Minute)
	mu.Unlock()
	second := board.Tick()

	require.Len(t, frames, 2)
	assert.Equal(t, first, frames[0])
	assert.Equal(t, second, board.Frame())

	before := first.Lines[0].Inbound[0].Remaining
	after := second.Lines[0].Inbound[0].Remaining
	assert.Equal(t, 15*time.Minute, before)
	assert.Equal(t, 14*time.Minute, after)
	assert.Same(t, first.Lines[0].Result, second.Lines[0].Result)
}

func TestStartRefreshesAndCountsDown(t *testing.T) {
	server := newFeedServer(t)
	registry := prometheus.NewRegistry()

	lines := []arrivals.TrackedLine{g14Line("good", server.URL+"/good")}
	board, err := New(lines, feed.NewHTTPFetcher(server.Client(), nil), Options{
		Now:               clock,
		RefreshInterval:   50 * time.Millisecond,
		CountdownInterval: 10 * time.Millisecond,
		Registerer:        registry,
	})
	require.NoError(t, err)

	var presented atomic.Int64
	board.AddPresenter(PresenterFunc(func(Frame) { presented.Add(1) }))

	board.Start()
	board.Start()

	require.Eventually(t, func() bool {
		result, _ := board.Result("good")
		return result.Generation >= 2
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool { return presented.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		board.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown took too long")
	}

	board.Shutdown()
}

func TestShutdownWithoutStart(t *testing.T) {
	board, err := New([]arrivals.TrackedLine{g14Line("r", "x")}, nil, Options{})
	require.NoError(t, err)

	board.Shutdown()
	board.Shutdown()
}

func TestConcurrentReadersDuringRefresh(t *testing.T) {
	good := g14Feed(t)
	fetcher := fetcherFunc(func(ctx context.Context, source string) ([]byte, error) { return good, nil })

	lines := []arrivals.TrackedLine{g14Line("r", "a"), g14Line("e", "b"), g14Line("f", "c")}
	board, err := New(lines, fetcher, Options{Now: clock})
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, result := range board.Results() {
					assert.LessOrEqual(t, len(result.Inbound), arrivals.MaxPerDirection)
				}
				frame := board.Tick()
				assert.Len(t, frame.Lines, 3)
			}
		}()
	}

	for i := 0; i < 20; i++ {
		board.RefreshAll(context.Background())
	}
	close(stop)
	wg.Wait()

	for _, result := range board.Results() {
		assert.Equal(t, uint64(20), result.Generation)
	}
}
