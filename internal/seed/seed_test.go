package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeedHex = "000102030405060708090a0b0c0d0e0f"

func TestEnvProvider_GetSeed_Success(t *testing.T) {
	t.Setenv(EnvVar, testSeedHex)

	provider := &EnvProvider{}
	s, err := provider.GetSeed()

	require.NoError(t, err)
	assert.Len(t, s, 16)
	assert.Equal(t, byte(0x0f), s[15])
	assert.Equal(t, "env:NANOUI_SEED", provider.Name())
}

func TestEnvProvider_GetSeed_Missing(t *testing.T) {
	t.Setenv(EnvVar, "")

	provider := &EnvProvider{}
	s, err := provider.GetSeed()

	assert.ErrorIs(t, err, ErrNotSet)
	assert.Empty(t, s)
	assert.Contains(t, err.Error(), EnvVar)
}

func TestEnvProvider_CustomVar(t *testing.T) {
	t.Setenv("OTHER_SEED", " "+testSeedHex+"\n")

	s, err := (&EnvProvider{Var: "OTHER_SEED"}).GetSeed()
	require.NoError(t, err)
	assert.Len(t, s, 16)
}

func TestEnvProvider_InvalidHex(t *testing.T) {
	t.Setenv(EnvVar, "not hex")

	_, err := (&EnvProvider{}).GetSeed()
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestFileProvider_GetSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.hex")
	require.NoError(t, os.WriteFile(path, []byte(testSeedHex+"\n"), 0o600))

	s, err := (&FileProvider{Path: path}).GetSeed()
	require.NoError(t, err)
	assert.Len(t, s, 16)

	t.Run("missing file", func(t *testing.T) {
		_, err := (&FileProvider{Path: filepath.Join(t.TempDir(), "nope")}).GetSeed()
		assert.ErrorIs(t, err, ErrNotSet)
	})

	t.Run("no path", func(t *testing.T) {
		_, err := (&FileProvider{}).GetSeed()
		assert.ErrorIs(t, err, ErrNotSet)
	})
}

func TestResolve_FallsBackToDemo(t *testing.T) {
	t.Setenv(EnvVar, "")

	s, name, err := Resolve(Default("")...)
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	demo, _ := DemoProvider{}.GetSeed()
	assert.Equal(t, demo, s)
}

func TestResolve_PrefersEnv(t *testing.T) {
	t.Setenv(EnvVar, testSeedHex)
	path := filepath.Join(t.TempDir(), "seed.hex")
	require.NoError(t, os.WriteFile(path, []byte("ff"), 0o600))

	_, name, err := Resolve(Default(path)...)
	require.NoError(t, err)
	assert.Equal(t, "env:NANOUI_SEED", name)
}

func TestResolve_InvalidSeedStopsChain(t *testing.T) {
	t.Setenv(EnvVar, "zz")

	_, _, err := Resolve(Default("")...)
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestResolve_AllUnset(t *testing.T) {
	t.Setenv(EnvVar, "")

	_, _, err := Resolve(&EnvProvider{}, &FileProvider{})
	assert.ErrorIs(t, err, ErrNoSeed)
	assert.ErrorIs(t, err, ErrNotSet)
}

func TestProvider_Interface(t *testing.T) {
	var _ Provider = &EnvProvider{}
	var _ Provider = &FileProvider{}
	var _ Provider = DemoProvider{}
}
