package setup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), BinaryName)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
	return path
}

func TestLoadConfig_Missing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, config.MCPServers)
	assert.NotNil(t, config.MCPServers)
}

func TestLoadConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestInstall_PreservesOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client", "config.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`{
  "theme": "dark",
  "mcpServers": {"other": {"command": "/usr/bin/other"}}
}`), 0644))

	binary := fakeBinary(t)
	written, err := Install(Options{
		ConfigPath:    path,
		BinaryPath:    binary,
		CataloguePath: "/etc/dss/catalogue.yaml",
		LogLevel:      "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw struct {
		Theme      string                 `json:"theme"`
		MCPServers map[string]ServerEntry `json:"mcpServers"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "dark", raw.Theme)
	assert.Equal(t, "/usr/bin/other", raw.MCPServers["other"].Command)

	entry := raw.MCPServers[DefaultServerKey]
	assert.Equal(t, binary, entry.Command)
	assert.Equal(t, "/etc/dss/catalogue.yaml", entry.Env["DSS_CATALOGUE_PATH"])
	assert.Equal(t, "debug", entry.Env["DSS_LOGGING_LEVEL"])
}

func TestInstall_CreatesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	_, err := Install(Options{ConfigPath: path, ServerKey: "triage", BinaryPath: fakeBinary(t)})
	require.NoError(t, err)

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Contains(t, config.MCPServers, "triage")
	assert.Nil(t, config.MCPServers["triage"].Env)
}

func TestGetStatus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	status, err := GetStatus(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.False(t, status.Configured)
	assert.Equal(t, []string{"disease-support is not registered"}, status.Issues)

	binary := fakeBinary(t)
	_, err = Install(Options{ConfigPath: path, BinaryPath: binary})
	require.NoError(t, err)

	status, err = GetStatus(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.Equal(t, binary, status.Entry.Command)
	assert.Empty(t, status.Issues)

	_, err = Install(Options{ConfigPath: path, BinaryPath: filepath.Join(dir, "gone"), CataloguePath: filepath.Join(dir, "missing.yaml")})
	require.NoError(t, err)

	status, err = GetStatus(Options{ConfigPath: path})
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.Len(t, status.Issues, 2)
}

func TestGetStatus_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	dir := t.TempDir()
	binary := filepath.Join(dir, BinaryName)
	require.NoError(t, os.WriteFile(binary, []byte("data"), 0644))

	path := filepath.Join(dir, "config.json")
	_, err := Install(Options{ConfigPath: path, BinaryPath: binary})
	require.NoError(t, err)

	status, err := GetStatus(Options{ConfigPath: path})
	require.NoError(t, err)
	require.Len(t, status.Issues, 1)
	assert.Contains(t, status.Issues[0], "not executable")
}

func TestDesktopConfigPath_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup applies to linux only")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	path, err := DesktopConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/Claude/claude_desktop_config.json", path)
}

func TestFindBinary(t *testing.T) {
	dir := t.TempDir()
	binary := filepath.Join(dir, "dss-test-binary")
	require.NoError(t, os.WriteFile(binary, []byte("#!/bin/sh\n"), 0755))
	t.Setenv("PATH", dir)

	found, err := FindBinary("dss-test-binary")
	require.NoError(t, err)
	assert.Equal(t, binary, found)

	_, err = FindBinary("dss-no-such-binary")
	assert.Error(t, err)
}
