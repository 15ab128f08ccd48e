package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shhac/courier/internal/auth"
	"github.com/shhac/courier/internal/domain"
	apperrors "github.com/shhac/courier/internal/errors"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/reconcile"
	"github.com/shhac/courier/internal/request"
	"github.com/shhac/courier/internal/testserver"
	"github.com/shhac/courier/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedTransport blocks each Fetch until the gate registered for its URL is
// released, then answers with the URL as body.
type gatedTransport struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls atomic.Int32
	seen  []*request.WireRequest
}

func newGatedTransport() *gatedTransport {
	return &gatedTransport{gates: make(map[string]chan struct{})}
}

func (g *gatedTransport) gate(url string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[url]
	if !ok {
		ch = make(chan struct{})
		g.gates[url] = ch
	}
	return ch
}

func (g *gatedTransport) Fetch(ctx context.Context, req *request.WireRequest) (reconcile.RawResponse, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.seen = append(g.seen, req.Clone())
	g.mu.Unlock()
	select {
	case <-g.gate(req.URL):
	case <-ctx.Done():
		return reconcile.RawResponse{}, errors.Join(apperrors.ErrUserCancelled, ctx.Err())
	}
	return reconcile.RawResponse{Status: 200, Body: []byte(req.URL)}, nil
}

func newDispatcher(tr transport.Transport, opts Options) (*Dispatcher, *Pool) {
	logger := logging.NewNopLogger()
	pool := NewPool(4, logger)
	return New(tr, auth.NewApplier(auth.NewSigner(time.Now), logger), pool, logger, opts), pool
}

func bodyOf(t *testing.T, cell *domain.ResponseCell) string {
	t.Helper()
	resp, ok := cell.Load()
	require.True(t, ok, "no response stored")
	return resp.BodyRaw
}

func TestSend_ReturnsBeforeNetwork(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/a"

	require.NoError(t, d.Send(draft))
	assert.Equal(t, 1, draft.Response().InFlight())
	_, ok := draft.Response().Load()
	assert.False(t, ok)

	close(tr.gate("http://example.test/a"))
	pool.Wait()
	assert.Equal(t, 0, draft.Response().InFlight())
	assert.Equal(t, "http://example.test/a", bodyOf(t, draft.Response()))
}

func TestSend_LastCompletionWins(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/first"
	require.NoError(t, d.Send(draft))
	draft.URL = "http://example.test/second"
	require.NoError(t, d.Send(draft))
	assert.Equal(t, 2, draft.Response().InFlight())

	close(tr.gate("http://example.test/second"))
	require.Eventually(t, func() bool { return draft.Response().Generation() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "http://example.test/second", bodyOf(t, draft.Response()))

	close(tr.gate("http://example.test/first"))
	pool.Wait()
	assert.Equal(t, uint64(2), draft.Response().Generation())
	assert.Equal(t, "http://example.test/first", bodyOf(t, draft.Response()))
}

func TestSend_CancelInFlight(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{CancelInFlight: true})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/first"
	require.NoError(t, d.Send(draft))
	draft.URL = "http://example.test/second"
	require.NoError(t, d.Send(draft))

	close(tr.gate("http://example.test/second"))
	pool.Wait()

	assert.Equal(t, uint64(1), draft.Response().Generation())
	assert.Equal(t, "http://example.test/second", bodyOf(t, draft.Response()))
}

func TestSend_SnapshotTakenAtSendTime(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/snap"
	draft.Headers = domain.Params{domain.NewParam("X-Version", "1")}
	require.NoError(t, d.Send(draft))
	draft.Headers[0].Value = "2"

	close(tr.gate("http://example.test/snap"))
	pool.Wait()

	require.Len(t, tr.seen, 1)
	v, ok := tr.seen[0].Get("X-Version")
	require.True(t, ok)
	assert.Equal(t, "1", v)
}

func TestSend_AssemblyErrorIsSynchronous(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "not a url"

	err := d.Send(draft)
	var asmErr *request.AssemblyError
	require.ErrorAs(t, err, &asmErr)
	assert.ErrorIs(t, err, apperrors.ErrInvalidURL)

	pool.Wait()
	assert.Equal(t, int32(0), tr.calls.Load())
	assert.Equal(t, 0, draft.Response().InFlight())
	assert.Equal(t, uint64(0), draft.Response().Generation())
}

func TestSend_SigningFailsClosed(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/signed"
	draft.Auth = domain.AWSSigV4Auth{Region: "us-east-1", Service: "s3"}

	require.NoError(t, d.Send(draft))
	pool.Wait()

	resp, ok := draft.Response().Load()
	require.True(t, ok)
	assert.Equal(t, domain.KindAuthFailure, resp.Kind)
	assert.False(t, resp.OK)
	assert.Contains(t, resp.BodyRaw, "request not sent")
	assert.Equal(t, int32(0), tr.calls.Load())
}

func TestSend_SigningFailOpen(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{SigningFailOpen: true})
	defer pool.Close()

	draft := domain.NewDraft(1)
	draft.URL = "http://example.test/unsigned"
	draft.Auth = domain.AWSSigV4Auth{Region: "us-east-1", Service: "s3"}

	close(tr.gate("http://example.test/unsigned"))
	require.NoError(t, d.Send(draft))
	pool.Wait()

	resp, ok := draft.Response().Load()
	require.True(t, ok)
	assert.Equal(t, domain.KindCompleted, resp.Kind)
	require.Len(t, tr.seen, 1)
	_, signed := tr.seen[0].Get("Authorization")
	assert.False(t, signed)
}

func TestSend_AgainstServer(t *testing.T) {
	srv := testserver.New()
	defer srv.Close()

	logger := logging.NewNopLogger()
	pool := NewPool(4, logger)
	defer pool.Close()
	d := New(transport.NewHTTPTransport(transport.Options{}, logger),
		auth.NewApplier(auth.NewSigner(time.Now), logger), pool, logger, Options{})

	t.Run("delayed first send completes last", func(t *testing.T) {
		draft := domain.NewDraft(1)
		draft.URL = srv.URL + "/slow"
		draft.Query = domain.Params{domain.NewParam("delay", "300ms"), domain.NewParam("tag", "first")}
		require.NoError(t, d.Send(draft))

		draft.Query = domain.Params{domain.NewParam("delay", "0s"), domain.NewParam("tag", "second")}
		require.NoError(t, d.Send(draft))
		pool.Wait()

		assert.Equal(t, uint64(2), draft.Response().Generation())
		assert.Equal(t, "slow:first", bodyOf(t, draft.Response()))
	})

	t.Run("json body is pretty printed", func(t *testing.T) {
		draft := domain.NewDraft(2)
		draft.URL = srv.URL + "/echo"
		require.NoError(t, d.Send(draft))
		pool.Wait()

		resp, ok := draft.Response().Load()
		require.True(t, ok)
		assert.True(t, resp.OK)
		assert.Equal(t, 200, resp.Status)
		assert.True(t, resp.HasPretty())
		assert.Contains(t, resp.BodyPretty, "\n  ")
	})

	t.Run("text body has no pretty form", func(t *testing.T) {
		draft := domain.NewDraft(3)
		draft.URL = srv.URL + "/text"
		require.NoError(t, d.Send(draft))
		pool.Wait()

		resp, ok := draft.Response().Load()
		require.True(t, ok)
		assert.False(t, resp.HasPretty())
		assert.Equal(t, "hello, plain world", resp.BodyRaw)
	})

	t.Run("error status is not ok", func(t *testing.T) {
		draft := domain.NewDraft(4)
		draft.URL = srv.URL + "/status/404"
		require.NoError(t, d.Send(draft))
		pool.Wait()

		resp, ok := draft.Response().Load()
		require.True(t, ok)
		assert.Equal(t, domain.KindCompleted, resp.Kind)
		assert.False(t, resp.OK)
		assert.Equal(t, "404 Not Found", resp.StatusLine())
	})
}

func TestSend_TransportFailure(t *testing.T) {
	srv := testserver.New()
	url := srv.URL
	srv.Close()

	logger := logging.NewNopLogger()
	pool := NewPool(1, logger)
	defer pool.Close()
	d := New(transport.NewHTTPTransport(transport.Options{}, logger),
		auth.NewApplier(auth.NewSigner(time.Now), logger), pool, logger, Options{})

	draft := domain.NewDraft(1)
	draft.URL = url + "/text"
	require.NoError(t, d.Send(draft))
	pool.Wait()

	resp, ok := draft.Response().Load()
	require.True(t, ok)
	assert.Equal(t, domain.KindTransportFailure, resp.Kind)
	assert.False(t, resp.OK)
	assert.Contains(t, resp.BodyRaw, "error sending request")
	assert.Empty(t, resp.BodyPretty)
}

func TestExecute_ReturnsSignedRequest(t *testing.T) {
	tr := newGatedTransport()
	d, pool := newDispatcher(tr, Options{})
	defer pool.Close()

	wire, err := request.Assemble("http://example.test/exec", domain.MethodGet, nil, nil, "")
	require.NoError(t, err)
	close(tr.gate(wire.URL))

	ex := d.Execute(context.Background(), domain.BearerAuth{Token: "t0k"}, wire)
	v, ok := ex.Request.Get("Authorization")
	require.True(t, ok)
	assert.Equal(t, "Bearer t0k", v)
	_, ok = wire.Get("Authorization")
	assert.False(t, ok, "input request must not be modified")
	assert.Equal(t, domain.KindCompleted, ex.Response.Kind)
	assert.False(t, ex.Started.IsZero())
}
