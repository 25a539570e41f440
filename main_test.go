package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/chronophylos/locfinder/cmd"
	"github.com/chronophylos/locfinder/config"
	"github.com/chronophylos/locfinder/history"
	"github.com/chronophylos/locfinder/location"
	"github.com/chronophylos/locfinder/search"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCensor(t *testing.T) {
	assert := assert.New(t)

	hidden := false
	showSecrets = &hidden
	defer func() { showSecrets = nil }()

	assert.Equal("[REDACTED]", censor("hunter2"))
	assert.Equal("", censor(""))
	assert.Equal("mongodb://admin:REDACTED@db:27017/locfinder", censorURI("mongodb://admin:hunter2@db:27017/locfinder"))
	assert.Equal("mongodb://localhost:27017", censorURI("mongodb://localhost:27017"))

	shown := true
	showSecrets = &shown

	assert.Equal("hunter2", censor("hunter2"))
	assert.Equal("mongodb://admin:hunter2@db", censorURI("mongodb://admin:hunter2@db"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Münch", truncate("München", 5))
	assert.Equal(t, "Köln", truncate("Köln", 5))
}

func TestTrackSelections(t *testing.T) {
	var buf bytes.Buffer
	track := trackSelections(zerolog.New(&buf))

	eiffel := location.Location{PlaceID: 12345, Lat: "48.8584", Lon: "2.2945", DisplayName: "Tour Eiffel", Type: "Tourism"}

	track(search.State{}, search.State{Query: "Eif", IsLoading: true})
	assert.Empty(t, buf.String())

	track(search.State{}, search.State{Selected: &eiffel, Selection: 1, History: history.List{eiffel}})
	track(search.State{Selected: &eiffel, Selection: 1}, search.State{Selected: &eiffel, Selection: 2})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &event))
	assert.Equal(t, "select", event["event"])
	assert.Equal(t, float64(12345), event["place_id"])
	assert.Equal(t, "Tourism", event["type"])
	assert.Equal(t, "48.8584", event["lat"])
	assert.Equal(t, float64(1), event["history"])
}

func TestOpenBackend(t *testing.T) {
	dir := t.TempDir()
	server := miniredis.RunT(t)

	tests := []struct {
		name string
		conf config.History
	}{
		{"memory", config.History{Backend: config.BackendMemory}},
		{"file", config.History{Backend: config.BackendFile, File: filepath.Join(dir, "history.json")}},
		{"sqlite", config.History{Backend: config.BackendSQLite, SQLite: filepath.Join(dir, "history.db")}},
		{"redis", config.History{Backend: config.BackendRedis, Redis: config.Redis{Addr: server.Addr(), Prefix: "test:"}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := context.Background()

			backend, err := openBackend(ctx, test.conf)
			require.NoError(t, err)
			defer backend.Close()

			require.NoError(t, backend.Put(ctx, "searchHistory", []byte("[]")))

			value, err := backend.Get(ctx, "searchHistory")
			require.NoError(t, err)
			assert.Equal(t, "[]", string(value))
		})
	}
}

func TestOpenBackendFailure(t *testing.T) {
	_, err := openBackend(context.Background(), config.History{Backend: "etcd"})
	assert.Error(t, err)

	_, err = openBackend(context.Background(), config.History{
		Backend: config.BackendRedis,
		Redis:   config.Redis{Addr: "127.0.0.1:1"},
	})
	assert.Error(t, err)
}

func TestRunConsole(t *testing.T) {
	s := search.New(context.Background(), nil, history.NewStore(history.NewMemoryBackend(), "", zerolog.Nop()), search.Options{
		Log: zerolog.Nop(),
	})
	defer s.Close()

	var out bytes.Buffer
	manager := cmd.NewManager(zerolog.Nop(), &out, s, nil)

	runConsole(context.Background(), strings.NewReader("B\n~history\n~quit\n~version\n"), manager)

	assert.Equal(t, "B", s.State().Query)
	assert.Equal(t, "No recent searches\n", out.String())
}

func TestRunConsoleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	manager := cmd.NewManager(zerolog.Nop(), &out, nil, nil)

	// a reader that never ends
	r, w := io.Pipe()
	defer w.Close()

	runConsole(ctx, r, manager)

	assert.Empty(t, out.String())
}
