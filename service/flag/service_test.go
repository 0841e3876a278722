package flag

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/elC0mpa/cloud-doctor/model"
)

func parse(t *testing.T, args ...string) (model.Flags, error) {
	t.Helper()
	for _, key := range []string{"GCP_PROJECT_ID", "CLOUD_DOCTOR_MODE", "CLOUD_DOCTOR_SEED", "CLOUD_DOCTOR_INDUSTRY", "GOOGLE_APPLICATION_CREDENTIALS", "GCP_BILLING_ACCOUNT"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	svc := NewService()
	var (
		flags model.Flags
		err   error
	)
	app := &cli.App{
		Name:  "test",
		Flags: svc.RunFlags(),
		Action: func(c *cli.Context) error {
			flags, err = svc.GetParsedFlags(c)
			return nil
		},
	}
	require.NoError(t, app.Run(append([]string{"test"}, args...)))
	return flags, err
}

func TestDefaultsToSimulated(t *testing.T) {
	flags, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, string(model.InventorySimulated), flags.Mode)
	assert.Equal(t, "simulated-project", flags.Project)
	assert.Equal(t, defaultIntent, flags.Intent)
	assert.False(t, flags.ApproveAll)
}

func TestLiveRequiresProject(t *testing.T) {
	_, err := parse(t, "--mode", "LIVE")
	require.Error(t, err)

	flags, err := parse(t, "--mode", "live", "--project", "proj-1", "--approve-all", "--script", "out.sh")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", flags.Project)
	assert.True(t, flags.ApproveAll)
	assert.Equal(t, "out.sh", flags.ScriptPath)
}

func TestFileRequiresPath(t *testing.T) {
	_, err := parse(t, "--mode", "file")
	require.Error(t, err)

	flags, err := parse(t, "-m", "file", "-f", "inventory.yaml", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, "inventory.yaml", flags.File)
	assert.Equal(t, int64(7), flags.Seed)
}

func TestUnknownMode(t *testing.T) {
	_, err := parse(t, "--mode", "aws")
	assert.Error(t, err)
}
