package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverURL(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"postgres://u:p@host:5432/db", "pgx5://u:p@host:5432/db"},
		{"postgresql://u:p@host/db?sslmode=disable", "pgx5://u:p@host/db?sslmode=disable"},
		{"pgx5://u:p@host/db", "pgx5://u:p@host/db"},
	}

	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.want, driverURL(tt.dsn))
		})
	}
}

func TestMigrationsPaired(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations, "migrations/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

type fakeMigrator struct {
	calls   []string
	err     error
	version uint
}

func (f *fakeMigrator) Up() error   { f.calls = append(f.calls, "up"); return f.err }
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return f.err }

func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, fmt.Sprintf("steps %d", n))
	return f.err
}

func (f *fakeMigrator) Version() (uint, bool, error) {
	f.calls = append(f.calls, "version")
	return f.version, false, f.err
}

func (f *fakeMigrator) Force(v int) error {
	f.calls = append(f.calls, fmt.Sprintf("force %d", v))
	return f.err
}

func TestParseCommand(t *testing.T) {
	t.Setenv(envDSN, "")

	tests := []struct {
		name   string
		args   []string
		action action
		n      int
	}{
		{"up", []string{"-up"}, actionUp, 0},
		{"down", []string{"-down"}, actionDown, 0},
		{"steps", []string{"-steps", "-2"}, actionSteps, -2},
		{"version", []string{"-version"}, actionVersion, 0},
		{"force zero", []string{"-force", "0"}, actionForce, 0},
		{"force wins", []string{"-up", "-force", "3"}, actionForce, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := parseCommand(tt.args, io.Discard)
			require.NoError(t, err)
			assert.Equal(t, tt.action, cmd.action)
			assert.Equal(t, tt.n, cmd.n)
			assert.Equal(t, defaultDSN, cmd.dsn)
		})
	}

	_, err := parseCommand(nil, io.Discard)
	assert.ErrorIs(t, err, errUsage)
}

func TestParseCommandDSN(t *testing.T) {
	t.Setenv(envDSN, "postgres://env/db")

	cmd, err := parseCommand([]string{"-up"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", cmd.dsn)

	cmd, err = parseCommand([]string{"-up", "-dsn", "postgres://flag/db"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "postgres://flag/db", cmd.dsn)
}

func TestRun(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	tests := []struct {
		name    string
		cmd     command
		err     error
		want    string
		wantErr bool
	}{
		{"up", command{action: actionUp}, nil, "up", false},
		{"up no change", command{action: actionUp}, migrate.ErrNoChange, "up", false},
		{"down failure", command{action: actionDown}, errors.New("boom"), "down", true},
		{"steps", command{action: actionSteps, n: 2}, nil, "steps 2", false},
		{"force", command{action: actionForce, n: 1}, nil, "force 1", false},
		{"version none", command{action: actionVersion}, migrate.ErrNilVersion, "version", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMigrator{err: tt.err}
			err := run(tt.cmd, m, logger)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, []string{tt.want}, m.calls)
		})
	}
}
