package chrono

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ticketbooker/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestStandardTime(t *testing.T) {
	now := StandardTime{}.Now()
	require.Equal(t, "Asia/Bangkok", now.Location().String())
	_, offset := now.Zone()
	require.Equal(t, 7*60*60, offset)
}

func TestCronRejectsBadSchedule(t *testing.T) {
	c := NewStandardCron(telemetry.NewRecorder())
	defer c.Stop()
	require.Error(t, c.Cron("not a cron schedule", func() {}))
}

func TestCronRuns(t *testing.T) {
	c := NewStandardCron(telemetry.NewRecorder())

	var runs atomic.Int32
	require.NoError(t, c.Cron("@every 1s", func() { runs.Add(1) }))
	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	c.Stop()
}

func TestCronLogger(t *testing.T) {
	rec := telemetry.NewRecorder()
	logger := cronLogger{tel: rec}

	logger.Info("schedule", "entry", 1)
	logger.Error(errors.New("boom"), "panic", "entry", 1)

	debug := rec.Reports(telemetry.LevelDebug)
	require.Len(t, debug, 1)
	require.Equal(t, "cron: schedule", debug[0].ID)
	require.Equal(t, []any{"entry", 1}, debug[0].Params)

	require.True(t, rec.Has(telemetry.LevelBroken, "cron"))
	broken := rec.Reports(telemetry.LevelBroken)
	require.ErrorContains(t, broken[0].Params[0].(error), "panic: boom")
}
