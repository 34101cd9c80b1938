package utils

import (
	"os"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Cleanup(func() {
		os.Unsetenv("MIGRATO_TEST_DSN")
		os.Unsetenv("MIGRATO_TEST_TABLE")
	})

	require.NoError(t, os.WriteFile(".env", []byte("MIGRATO_TEST_DSN=from-env\nMIGRATO_TEST_TABLE=phinxlog\n"), 0644))
	require.NoError(t, os.WriteFile(".env.local", []byte("MIGRATO_TEST_DSN=from-local\n"), 0644))

	LoadEnv(afero.NewOsFs(), hclog.NewNullLogger())

	assert.Equal(t, "from-local", os.Getenv("MIGRATO_TEST_DSN"))
	assert.Equal(t, "phinxlog", os.Getenv("MIGRATO_TEST_TABLE"))
}

func TestLoadEnvWithoutFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NotPanics(t, func() {
		LoadEnv(afero.NewOsFs(), hclog.NewNullLogger())
	})
}
