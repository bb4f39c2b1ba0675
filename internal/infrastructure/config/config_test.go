package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, DriverFile, cfg.Storage.Driver)
	require.Equal(t, int64(5*1024*1024), cfg.Storage.QuotaBytes)
	require.Equal(t, DefaultWorkMinutes, cfg.Timer.WorkMinutes)
	require.Equal(t, DefaultBreakMinutes, cfg.Timer.BreakMinutes)
	require.Equal(t, time.Second, cfg.Timer.TickInterval)
	require.Equal(t, 2*time.Second, cfg.Dashboard.RefreshInterval)
	require.Equal(t, 7*24*time.Hour, cfg.Dashboard.DueSoonWindow)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	content := "storage:\n  driver: memory\ntimer:\n  work_minutes: 50\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PLANNER_BREAK_MINUTES", "10")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DriverMemory, cfg.Storage.Driver)
	require.Equal(t, 50, cfg.Timer.WorkMinutes)
	require.Equal(t, 10, cfg.Timer.BreakMinutes)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown driver", env: map[string]string{"PLANNER_STORAGE_DRIVER": "redis"}},
		{name: "sqlite without dsn", env: map[string]string{"PLANNER_STORAGE_DRIVER": "sqlite"}},
		{name: "zero work minutes", env: map[string]string{"PLANNER_WORK_MINUTES": "0"}},
		{name: "negative quota", env: map[string]string{"PLANNER_STORAGE_QUOTA_BYTES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "StudyFlow", cfg.App.Name)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
