package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cleo-11/OceanX/internal/config"
	"github.com/Cleo-11/OceanX/internal/domain"
	"github.com/Cleo-11/OceanX/internal/event"
	"github.com/Cleo-11/OceanX/internal/scheduler"
	"github.com/Cleo-11/OceanX/internal/sse"
	"github.com/Cleo-11/OceanX/internal/worker"
)

type recordingSeeder struct {
	sessions map[string][]domain.ResourceNode
	err      error
}

func (s *recordingSeeder) SeedSession(_ context.Context, nodes []domain.ResourceNode) error {
	if s.err != nil {
		return s.err
	}
	if s.sessions == nil {
		s.sessions = make(map[string][]domain.ResourceNode)
	}
	s.sessions[nodes[0].SessionID] = nodes
	return nil
}

func writeLayout(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

const reefLayout = `{"sessionId": "reef-1", "nodes": [
	{"nodeId": "n1", "resourceType": "nickel", "amount": 12, "position": {"x": 1, "y": 2, "z": 3}},
	{"nodeId": "n2", "resourceType": "cobalt", "amount": 4, "position": {"x": 0, "y": 0, "z": 9}, "respawnDelaySeconds": 60}
]}`

func TestSeedLayouts(t *testing.T) {
	t.Run("no directory is a no-op", func(t *testing.T) {
		seeder := &recordingSeeder{}
		n, err := SeedLayouts(context.Background(), "", seeder)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, seeder.sessions)
	})

	t.Run("seeds every layout", func(t *testing.T) {
		dir := t.TempDir()
		writeLayout(t, dir, "reef.json", reefLayout)
		writeLayout(t, dir, "trench.json", `{"sessionId": "trench-2", "nodes": [
			{"nodeId": "t1", "resourceType": "manganese", "amount": 7, "position": {"x": 5, "y": 5, "z": 5}}]}`)
		writeLayout(t, dir, "notes.txt", "ignored")

		seeder := &recordingSeeder{}
		n, err := SeedLayouts(context.Background(), dir, seeder)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		require.Len(t, seeder.sessions["reef-1"], 2)
		assert.Equal(t, domain.NodeAvailable, seeder.sessions["reef-1"][0].Status)
		assert.Equal(t, 60, seeder.sessions["reef-1"][1].RespawnDelaySeconds)
		require.Len(t, seeder.sessions["trench-2"], 1)
	})

	t.Run("one invalid file blocks the whole seed", func(t *testing.T) {
		dir := t.TempDir()
		writeLayout(t, dir, "a.json", reefLayout)
		writeLayout(t, dir, "b.json", `{"sessionId": "bad", "nodes": [
			{"nodeId": "x", "resourceType": "gold", "amount": 1, "position": {"x": 0, "y": 0, "z": 0}}]}`)

		seeder := &recordingSeeder{}
		_, err := SeedLayouts(context.Background(), dir, seeder)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgFailedLoadLayouts)
		assert.Empty(t, seeder.sessions)
	})

	t.Run("store failure names the session", func(t *testing.T) {
		dir := t.TempDir()
		writeLayout(t, dir, "reef.json", reefLayout)

		_, err := SeedLayouts(context.Background(), dir, &recordingSeeder{err: errors.New("db down")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reef-1")
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestCleanupLogs(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"session_2025-01-01_00-00-01.log",
		"session_2025-01-01_00-00-02.log",
		"session_2025-01-01_00-00-03.log",
		"session_2025-01-01_00-00-04.log",
	}
	for _, n := range names {
		writeLayout(t, dir, n, "x")
	}
	writeLayout(t, dir, "keep.txt", "x")

	cleanupLogs(dir, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{names[2], names[3], "keep.txt"}, left)
}

func TestSetupLogger_WritesSessionFile(t *testing.T) {
	dir := t.TempDir()
	f, err := SetupLogger(&config.Config{LogDir: dir, LogLevel: "info", LogFormat: "json", Environment: "test"})
	require.NoError(t, err)
	require.NotNil(t, f)
	defer f.Close()

	info, err := os.Stat(f.Name())
	require.NoError(t, err)
	assert.Positive(t, info.Size(), "startup lines are written to the session file")
}

func TestInitializeEventSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deadletter.jsonl")
	bus, publisher, err := InitializeEventSystem(&config.Config{DeadLetterPath: path})
	require.NoError(t, err)
	require.NotNil(t, bus)
	defer publisher.Shutdown(context.Background())

	_, err = os.Stat(filepath.Dir(path))
	assert.NoError(t, err, "dead-letter directory is created")
}

func TestRegisterEventHandlers_BridgesToHub(t *testing.T) {
	bus := event.NewMemoryBus()
	hub := sse.NewHub()
	hub.Start()
	defer hub.Stop()

	require.NoError(t, RegisterEventHandlers(EventHandlerDependencies{EventBus: bus, Hub: hub}))

	client := hub.Register(nil, "")
	require.NoError(t, bus.Publish(context.Background(), event.NewNodesRespawnedEvent(2)))

	select {
	case evt := <-client.EventChannel:
		assert.Equal(t, sse.EventTypeNodesRespawned, evt.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("respawn event was not forwarded to the hub")
	}
}

type countingJob struct{ runs chan struct{} }

func (j *countingJob) Process(context.Context) error {
	select {
	case j.runs <- struct{}{}:
	default:
	}
	return nil
}

func TestGracefulShutdown(t *testing.T) {
	t.Run("nil components are skipped", func(t *testing.T) {
		assert.NotPanics(t, func() { GracefulShutdown(context.Background(), ShutdownComponents{}) })
	})

	t.Run("stops background work", func(t *testing.T) {
		pool := worker.NewPool(1, 4)
		pool.Start()
		sched := scheduler.New(pool)
		job := &countingJob{runs: make(chan struct{}, 1)}
		sched.Schedule("tick", 10*time.Millisecond, job)

		select {
		case <-job.runs:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduled job never ran")
		}

		hub := sse.NewHub()
		hub.Start()
		client := hub.Register(nil, "")

		_, publisher, err := InitializeEventSystem(&config.Config{DeadLetterPath: filepath.Join(t.TempDir(), "dl.jsonl")})
		require.NoError(t, err)

		GracefulShutdown(context.Background(), ShutdownComponents{
			Scheduler:          sched,
			Workers:            pool,
			Hub:                hub,
			ResilientPublisher: publisher,
		})

		_, open := <-client.EventChannel
		assert.False(t, open, "hub closes client channels")
	})
}
