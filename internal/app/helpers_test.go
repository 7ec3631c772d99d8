package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/finchtui/finch/internal/api"
	"github.com/finchtui/finch/internal/api/apitest"
	"github.com/finchtui/finch/internal/logging"
	"github.com/stretchr/testify/require"
)

// setup starts a fixture backend and the TUI against it. The returned server
// can be seeded with fixtures before signing in.
func setup(t *testing.T) (*apitest.Server, *teatest.TestModel) {
	t.Helper()

	srv := apitest.NewServer(t)

	// Cancel context once test finishes.
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, m, err := newApp(config{
		Address:      srv.URL,
		PollInterval: time.Minute,
		loggingOptions: logging.Options{
			Level: "debug",
			AdditionalWriters: []io.Writer{
				&testLogger{t},
			},
		},
	})
	require.NoError(t, err)

	tm := teatest.NewTestModel(
		t,
		m,
		teatest.WithInitialTermSize(100, 50),
	)
	wait := app.start(ctx, tm)
	t.Cleanup(func() {
		cancel()
		wait()
	})
	return srv, tm
}

// signIn types the stock fixture credentials into the sign-in form and waits
// for the browser to appear.
func signIn(t *testing.T, tm *teatest.TestModel) {
	t.Helper()

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "Sign in")
	})

	tm.Type("bob@example.com")
	tm.Send(tea.KeyMsg{Type: tea.KeyTab})
	tm.Type("hunter2")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})

	waitFor(t, tm, func(s string) bool {
		return strings.Contains(s, "signed in as bob@example.com")
	})
}

// testLogger relays finch log records to the go test logger
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Write(b []byte) (int, error) {
	l.t.Helper()

	l.t.Log(string(b))
	return len(b), nil
}

// consumed retains output already drained from each test model's output
// stream, because teatest.WaitFor consumes the stream: without this a
// second waitFor call would never see frames rendered before the first
// call returned.
var consumed sync.Map // *teatest.TestModel -> *bytes.Buffer

// replayReader first replays output retained from earlier waitFor calls,
// then reads from the live stream, retaining whatever it reads. Unlike
// io.MultiReader an EOF from the live stream is not sticky, which matters
// because teatest.WaitFor polls the reader until new output appears.
type replayReader struct {
	seen *bytes.Buffer
	pos  int
	src  io.Reader
}

func (r *replayReader) Read(p []byte) (int, error) {
	if r.pos < r.seen.Len() {
		n := copy(p, r.seen.Bytes()[r.pos:])
		r.pos += n
		return n, nil
	}
	n, err := r.src.Read(p)
	if n > 0 {
		r.seen.Write(p[:n])
		r.pos = r.seen.Len()
	}
	return n, err
}

func waitFor(t *testing.T, tm *teatest.TestModel, cond func(s string) bool) {
	t.Helper()

	buf, _ := consumed.LoadOrStore(tm, &bytes.Buffer{})

	teatest.WaitFor(
		t,
		&replayReader{seen: buf.(*bytes.Buffer), src: tm.Output()},
		func(b []byte) bool {
			return cond(string(b))
		},
		teatest.WithCheckInterval(time.Millisecond*100),
		teatest.WithDuration(time.Second*10),
	)
}

func addCompany(srv *apitest.Server, id int, name string) api.CompanyDetails {
	return srv.AddCompany(api.CompanyDetails{
		Company: api.Company{ID: id, Name: name},
	})
}
