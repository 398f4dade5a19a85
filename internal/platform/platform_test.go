package platform

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singleboostr/boostr/internal/appid"
	"github.com/singleboostr/boostr/internal/logging"
)

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "Unknown(Identifier_730)", Placeholder(730))
}

func TestStaticResolver(t *testing.T) {
	r := StaticResolver{730: "Counter-Strike 2", 440: "  "}

	assert.Equal(t, "Counter-Strike 2", r.Resolve(context.Background(), 730))
	assert.Equal(t, Placeholder(440), r.Resolve(context.Background(), 440))
	assert.Equal(t, Placeholder(1), r.Resolve(context.Background(), 1))
}

func TestStoreResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("appids") {
		case "730":
			_, _ = w.Write([]byte(`{"730":{"success":true,"data":{"name":"Counter-Strike 2"}}}`))
		case "1":
			_, _ = w.Write([]byte(`{"1":{"success":false}}`))
		case "2":
			_, _ = w.Write([]byte(`{"2":{"success":true,"data":{"name":""}}}`))
		case "3":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()

	r := NewStoreResolver(srv.URL, time.Second, logging.Discard())

	tests := []struct {
		name string
		id   appid.ID
		want string
	}{
		{name: "known app", id: 730, want: "Counter-Strike 2"},
		{name: "unsuccessful lookup", id: 1, want: Placeholder(1)},
		{name: "empty name", id: 2, want: Placeholder(2)},
		{name: "malformed body", id: 3, want: Placeholder(3)},
		{name: "http error", id: 4, want: Placeholder(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(context.Background(), tt.id))
		})
	}
}

func TestStoreResolver_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewStoreResolver(url, 200*time.Millisecond, nil)
	assert.Equal(t, Placeholder(730), r.Resolve(context.Background(), 730))
}

type countingResolver struct {
	mu    sync.Mutex
	calls map[appid.ID]int
	names map[appid.ID]string
}

func (c *countingResolver) Resolve(_ context.Context, id appid.ID) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[id]++
	return c.names[id]
}

func TestNameCache(t *testing.T) {
	res := &countingResolver{
		calls: map[appid.ID]int{},
		names: map[appid.ID]string{730: "Counter-Strike 2"},
	}
	c := NewNameCache(res)
	ctx := context.Background()

	_, ok := c.Lookup(730)
	assert.False(t, ok)

	assert.Equal(t, "Counter-Strike 2", c.Name(ctx, 730))
	assert.Equal(t, "Counter-Strike 2", c.Name(ctx, 730))
	assert.Equal(t, 1, res.calls[730])

	// Empty results are never cached as empty.
	assert.Equal(t, Placeholder(9), c.Name(ctx, 9))
	name, ok := c.Lookup(9)
	require.True(t, ok)
	assert.Equal(t, Placeholder(9), name)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, Placeholder(5), c.Label(5))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Lookup(730)
	assert.False(t, ok)
}

type slowResolver struct {
	calls atomic.Int32
}

func (s *slowResolver) Resolve(_ context.Context, id appid.ID) string {
	s.calls.Add(1)
	time.Sleep(20 * time.Millisecond)
	return "slow"
}

func TestNameCache_ConcurrentFirstUse(t *testing.T) {
	res := &slowResolver{}
	c := NewNameCache(res)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "slow", c.Name(context.Background(), 730))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), res.calls.Load())
}

// ctxResolver gives up when its context is already done.
type ctxResolver struct{}

func (ctxResolver) Resolve(ctx context.Context, id appid.ID) string {
	if ctx.Err() != nil {
		return Placeholder(id)
	}
	return "Counter-Strike 2"
}

func TestNameCache_CancelledCaller(t *testing.T) {
	c := NewNameCache(ctxResolver{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "Counter-Strike 2", c.Name(ctx, 730))
	name, ok := c.Lookup(730)
	require.True(t, ok)
	assert.Equal(t, "Counter-Strike 2", name)
}

func TestSteamClient_Connect(t *testing.T) {
	env := map[string]string{}
	c := &SteamClient{
		Probe:    func() error { return nil },
		Resolver: StaticResolver{730: "Counter-Strike 2"},
		Setenv: func(k, v string) error {
			env[k] = v
			return nil
		},
	}

	name, err := c.Connect(context.Background(), 730)
	require.NoError(t, err)
	assert.Equal(t, "Counter-Strike 2", name)
	assert.Equal(t, "730", env["SteamAppId"])
	assert.Equal(t, "730", env["SteamGameId"])
}

func TestSteamClient_ProbeFailure(t *testing.T) {
	c := &SteamClient{
		Probe:  func() error { return errors.New("steam not installed") },
		Setenv: func(string, string) error { return nil },
	}

	_, err := c.Connect(context.Background(), 730)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHandshake)
}

func TestSteamClient_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &SteamClient{Setenv: func(string, string) error { return nil }}
	_, err := c.Connect(ctx, 730)
	assert.ErrorIs(t, err, ErrHandshake)
}
