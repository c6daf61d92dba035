package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/app"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/jobs"
)

type fakeQueue struct {
	cities []string
	reason string
	health jobs.QueueHealth
	err    error
	closed bool
}

func (f *fakeQueue) EnqueueWeatherWarmup(_ context.Context, cities []string) error {
	f.cities = cities
	return f.err
}

func (f *fakeQueue) EnqueueCacheBump(_ context.Context, reason string) error {
	f.reason = reason
	return f.err
}

func (f *fakeQueue) Health() (jobs.QueueHealth, error) { return f.health, f.err }

func (f *fakeQueue) Close() error {
	f.closed = true
	return nil
}

type fakeAdmins struct {
	email, name, password, role string
	err                         error
}

func (f *fakeAdmins) CreateAdmin(_ context.Context, email, name, password, role string) (int64, error) {
	f.email, f.name, f.password, f.role = email, name, password, role
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

func testDeps(q *fakeQueue, a *fakeAdmins) deps {
	return deps{
		config:  func() (*app.Config, error) { return &app.Config{}, nil },
		queue:   func(*app.Config) (queue, error) { return q, nil },
		migrate: func(*app.Config, *slog.Logger) error { return nil },
		admins: func(context.Context, *app.Config) (adminCreator, func(), error) {
			return a, func() {}, nil
		},
	}
}

func run(t *testing.T, d deps, stdin string, args ...string) (string, error) {
	t.Helper()
	c := newCLI(d)
	var out bytes.Buffer
	c.cmd.SetOut(&out)
	c.cmd.SetErr(&out)
	c.cmd.SetIn(strings.NewReader(stdin))
	c.cmd.SetArgs(args)
	err := c.cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "convert", "length", "1", "km", "m")
	require.NoError(t, err)
	assert.Equal(t, "1 km = 1000 m\n", out)

	out, err = run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "convert", "length", "1", "km", "m", "--table")
	require.NoError(t, err)
	assert.Contains(t, out, "1000")
	assert.Greater(t, strings.Count(out, "\n"), 2)

	_, err = run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "convert", "length", "abc", "km", "m")
	assert.Error(t, err)

	_, err = run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "convert", "length", "1")
	assert.Error(t, err, "four arguments are required")
}

func TestConvertList(t *testing.T) {
	out, err := run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "convert", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "length")
	assert.Contains(t, out, "temperature")
}

func TestJobsCommands(t *testing.T) {
	q := &fakeQueue{health: jobs.QueueHealth{Queue: "default", Pending: 3}}

	out, err := run(t, testDeps(q, &fakeAdmins{}), "", "jobs", "warmup", "Delhi", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, []string{"Delhi", "Mumbai"}, q.cities)
	assert.Contains(t, out, "Delhi, Mumbai")
	assert.True(t, q.closed)

	out, err = run(t, testDeps(q, &fakeAdmins{}), "", "jobs", "bump", "--reason", "deploy")
	require.NoError(t, err)
	assert.Equal(t, "deploy", q.reason)
	assert.Contains(t, out, "cache bump enqueued")

	out, err = run(t, testDeps(q, &fakeAdmins{}), "", "jobs", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "queue=default pending=3")

	q.err = errors.New("redis down")
	_, err = run(t, testDeps(q, &fakeAdmins{}), "", "jobs", "bump")
	assert.ErrorContains(t, err, "redis down")
}

func TestAdminCreateReadsPasswordFromStdin(t *testing.T) {
	a := &fakeAdmins{}
	out, err := run(t, testDeps(&fakeQueue{}, a), "correct-horse\n", "admin", "create", "--email", " Ops@Example.com ", "--name", "Ops", "--role", "admin")
	require.NoError(t, err)
	assert.Equal(t, "correct-horse", a.password)
	assert.Equal(t, "admin", a.role)
	assert.Contains(t, out, "created admin admin ops@example.com (id 42)")
}

func TestAdminCreateErrors(t *testing.T) {
	_, err := run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "admin", "create", "--email", "ops@example.com")
	assert.ErrorContains(t, err, "no password")

	_, err = run(t, testDeps(&fakeQueue{}, &fakeAdmins{err: httpx.ErrDuplicate}), "", "admin", "create", "--email", "ops@example.com", "--password", "long-enough")
	assert.ErrorContains(t, err, "already exists")

	_, err = run(t, testDeps(&fakeQueue{}, &fakeAdmins{}), "", "admin", "create", "--password", "long-enough")
	assert.Error(t, err, "email is required")
}

func TestMigrateCommand(t *testing.T) {
	d := testDeps(&fakeQueue{}, &fakeAdmins{})
	called := false
	d.migrate = func(*app.Config, *slog.Logger) error {
		called = true
		return nil
	}
	_, err := run(t, d, "", "migrate")
	require.NoError(t, err)
	assert.True(t, called)
}
