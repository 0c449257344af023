package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// cobra conserva los valores de flags entre ejecuciones del mismo rootCmd
	weekStart, saveReport = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommands_ImportReportExportRemind(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "med.db"))
	t.Setenv("REPORT_DIR", filepath.Join(dir, "reports"))
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("REMINDER_WEBHOOK_URL", "")

	legacy := filepath.Join(dir, "legacy")
	require.NoError(t, os.MkdirAll(legacy, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "Rosa_meds.txt"), []byte("Aspirin,1 pill,Morning,28,30\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(legacy, "Rosa_logs.txt"), []byte("2024-01-01,Aspirin,1\n"), 0o600))

	out, err := execute(t, "import", "--patient", "Rosa", "--dir", legacy)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 medications and 1 dose logs for Rosa (0 lines skipped)")

	out, err = execute(t, "report", "--patient", "Rosa", "--week-start", "2024-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Daily Record: Mon [X] Tue [ ]")
	assert.Contains(t, out, "Remaining: 28 of 30 doses")

	out, err = execute(t, "report", "--patient", "Rosa", "--week-start", "2024-01-01", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "reports", "Rosa_weekly_report_2024-01-01.txt"))

	exported := filepath.Join(dir, "exported")
	out, err = execute(t, "export", "--patient", "Rosa", "--dir", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 medications")
	data, err := os.ReadFile(filepath.Join(exported, "Rosa_meds.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Aspirin,1 pill,Morning,28,30\n", string(data))

	out, err = execute(t, "remind", "--slot", "morning")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent 1 Morning reminders")
}

func TestCommands_Errors(t *testing.T) {
	t.Setenv("STORAGE", "memory")

	_, err := execute(t, "report", "--patient", "Nobody", "--week-start", "")
	assert.Error(t, err)

	_, err = execute(t, "remind", "--slot", "whenever")
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "")
	_, err = execute(t, "token", "--user", "u-1")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("STORAGE", "memory")
	t.Setenv("JWT_SECRET", "s3cret")

	out, err := execute(t, "token", "--user", "caregiver-1")
	require.NoError(t, err)
	assert.Regexp(t, `^[\w-]+\.[\w-]+\.[\w-]+\n$`, out)
}
