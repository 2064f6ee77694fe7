package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentdesk/studentdesk/config"
	"github.com/studentdesk/studentdesk/internal/application/query"
	"github.com/studentdesk/studentdesk/internal/domain/shared"
	"github.com/studentdesk/studentdesk/pkg/logger"
)

func testConfig(seed bool) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "studentdesk", Environment: config.EnvDevelopment, Timezone: "UTC", Location: time.UTC},
		Storage: config.StorageConfig{
			Backend:   config.BackendMemory,
			KeyPrefix: "sms",
		},
		Seed:          config.SeedConfig{OnStart: seed},
		Observability: config.ObservabilityConfig{LogLevel: "off"},
	}
}

// run executes one command line and releases its storage, as main does.
func run(cfg *config.Config, args ...string) (string, error) {
	var out bytes.Buffer
	root, closeApp := newRootCmd(cfg)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	if closeErr := closeApp(); err == nil {
		err = closeErr
	}
	return out.String(), err
}

func execute(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()

	out, err := run(cfg, args...)
	require.NoError(t, err)
	return out
}

func TestStats_SeedsOnStart(t *testing.T) {
	out := execute(t, testConfig(true), "stats", "--json")

	var stats query.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 5, stats.TotalStudents)
	assert.Equal(t, 4, stats.TotalCourses)
	assert.Greater(t, stats.TotalRevenue, 0.0)
}

func TestStats_NoSeed(t *testing.T) {
	out := execute(t, testConfig(true), "--no-seed", "stats")
	assert.Contains(t, out, "Students")
	assert.Contains(t, out, "0 (0 active)")
}

func TestSeedCommand(t *testing.T) {
	out := execute(t, testConfig(false), "seed")
	assert.Contains(t, out, "seeded 4 courses, 5 students, 15 payments")
}

func TestStudentsAndCourses(t *testing.T) {
	out := execute(t, testConfig(true), "students", "--limit", "2")
	assert.Contains(t, out, "NAME")

	out = execute(t, testConfig(true), "courses")
	assert.Contains(t, out, "Web Development")
	assert.Contains(t, out, "Mobile App Development")
}

func TestPaymentsUpcoming(t *testing.T) {
	out := execute(t, testConfig(true), "payments", "upcoming", "--limit", "0")
	assert.Contains(t, out, "total pending")
	// Sample installments are due in 2024, so they are all overdue now.
	assert.Contains(t, out, "OVERDUE")
}

func TestAttendanceMonth_UnknownStudent(t *testing.T) {
	out := execute(t, testConfig(false), "attendance", "month", "--student", "nobody", "--month", "2025-09")
	assert.Contains(t, out, "2025-09")
	assert.Contains(t, out, "attended 0 of 22 working days (0%)")
}

func TestAttendanceMark(t *testing.T) {
	out := execute(t, testConfig(false), "attendance", "mark", "--student", "s1", "--date", "2025-09-01", "--status", "late")
	assert.Contains(t, out, "2025-09-01 s1: late")
}

func TestAttendanceMark_InvalidStatus(t *testing.T) {
	_, err := run(testConfig(false), "attendance", "mark", "--student", "s1", "--status", "holiday")
	assert.ErrorIs(t, err, shared.ErrInvalidStatus)
}

func TestFailingCommandReleasesStorage(t *testing.T) {
	cfg := testConfig(false)
	cfg.Storage.Backend = config.BackendLocal
	cfg.Storage.LocalDir = t.TempDir()

	// The local store locks its directory; a second open only succeeds when
	// the failed command closed it.
	for i := 0; i < 2; i++ {
		_, err := run(cfg, "attendance", "mark", "--student", "s1", "--status", "holiday")
		require.ErrorIs(t, err, shared.ErrInvalidStatus)
	}

	_, err := run(cfg, "attendance", "mark")
	require.Error(t, err)

	out := execute(t, cfg, "stats")
	assert.Contains(t, out, "Students")
}

func TestUnknownBackendFlag(t *testing.T) {
	_, err := run(testConfig(false), "--backend", "mongodb", "stats")
	assert.Error(t, err)
}

func TestOpenBackend_InvalidRedisURLIsNotRetried(t *testing.T) {
	cfg := testConfig(false)
	cfg.Storage.Backend = config.BackendRedis
	cfg.Storage.ConnectAttempts = 5
	cfg.Redis.URL = "mysql://nope"

	_, err := openBackend(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestSQLiteBackend_SeedSurvivesRestart(t *testing.T) {
	cfg := testConfig(true)
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "desk.db")

	execute(t, cfg, "stats")

	cfg.Seed.OnStart = false
	out := execute(t, cfg, "courses")
	assert.Contains(t, out, "Data Science")
}

func TestNewLogger_DebugLowersLevel(t *testing.T) {
	cfg := testConfig(false)
	cfg.Observability.LogLevel = "warn"
	assert.False(t, newLogger(cfg).Enabled(logger.LevelDebug))

	cfg.App.Debug = true
	assert.True(t, newLogger(cfg).Enabled(logger.LevelDebug))

	cfg.Observability.LogLevel = "off"
	assert.False(t, newLogger(cfg).Enabled(logger.LevelError))
}
