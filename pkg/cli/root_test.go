package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

// project creates a working directory whose dependency root holds alpha.json
func project(t *testing.T) string {
	t.Helper()
	workDir := filepath.Join(t.TempDir(), "project")
	deps := filepath.Join(workDir, "node_modules")
	require.NoError(t, os.MkdirAll(deps, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(deps, "alpha.json"),
		[]byte(`{"default": {"name": "alpha", "version": "1.0.0"}}`),
		0o644,
	))
	return workDir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand("test")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand("1.0.0")

	assert.Equal(t, "pluginctl", root.Use)
	assert.Equal(t, "1.0.0", root.Version)

	for _, name := range []string{"resolve", "strategies", "serve", "watch"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"config", "log-level", "log-format", "workdir", "dependency-dir"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "missing persistent flag %s", flag)
	}
}

func TestResolveJSON(t *testing.T) {
	workDir := project(t)

	stdout, _, err := execute(t, "resolve", "--json", "--workdir", workDir, "alpha")
	require.NoError(t, err)

	var reports []plugins.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Found)
	assert.Equal(t, plugins.StrategyLocalPath, reports[0].Strategy)
	assert.Equal(t, filepath.Join(workDir, "node_modules", "alpha"), reports[0].Path)
	assert.Equal(t, "alpha", reports[0].PluginName)
}

func TestResolveText(t *testing.T) {
	workDir := project(t)

	stdout, _, err := execute(t, "resolve", "-v", "--workdir", workDir, "alpha")
	require.NoError(t, err)

	assert.Contains(t, stdout, "alpha")
	assert.Contains(t, stdout, plugins.StrategyLocalPath)
	assert.Contains(t, stdout, plugins.StrategyDirect, "verbose lists attempts")
}

func TestResolveMissing(t *testing.T) {
	workDir := project(t)

	stdout, _, err := execute(t, "resolve", "--workdir", workDir, "alpha", "ghost")
	require.ErrorIs(t, err, ErrMissingPlugins)
	assert.Contains(t, stdout, "ghost")
	assert.Contains(t, stdout, plugins.StrategyRelativePath, "attempts are listed for missing plugins")

	_, _, err = execute(t, "resolve", "--allow-missing", "--workdir", workDir, "ghost")
	assert.NoError(t, err)
}

func TestResolveWarnsOnExhaustion(t *testing.T) {
	workDir := project(t)

	_, stderr, err := execute(t, "resolve", "--allow-missing", "--log-format", "json", "--workdir", workDir, "ghost")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Failed to load plugin ghost")
	assert.Contains(t, stderr, `"level":"warning"`)
}

func TestResolveUsesDependencyDirFlag(t *testing.T) {
	workDir := filepath.Join(t.TempDir(), "project")
	deps := filepath.Join(workDir, "vendor_plugins")
	require.NoError(t, os.MkdirAll(deps, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deps, "beta.yaml"), []byte("betaPlugin:\n  name: beta\n"), 0o644))

	stdout, _, err := execute(t, "resolve", "--json", "--workdir", workDir, "--dependency-dir", "vendor_plugins", "beta")
	require.NoError(t, err)

	var reports []plugins.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.True(t, reports[0].Found)
	assert.Equal(t, "beta", reports[0].PluginName)
}

func TestResolveNoIdentifiers(t *testing.T) {
	_, _, err := execute(t, "resolve", "--workdir", project(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plugin identifiers")
}

func TestResolveConfiguredPlugins(t *testing.T) {
	workDir := project(t)
	configPath := filepath.Join(t.TempDir(), "pluginctl.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"workdir = \""+filepath.ToSlash(workDir)+"\"\nplugins = [\"alpha\"]\n"), 0o644))

	stdout, _, err := execute(t, "resolve", "--json", "--config", configPath)
	require.NoError(t, err)

	var reports []plugins.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "alpha", reports[0].Identifier)
}

func TestInvalidConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[batch]\nconcurrency = 0\n"), 0o644))

	_, _, err := execute(t, "strategies", "--config", configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestStrategiesJSON(t *testing.T) {
	stdout, _, err := execute(t, "strategies", "--json")
	require.NoError(t, err)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &names))
	assert.Equal(t, plugins.StrategyNames(plugins.DefaultStrategies()), names)
}

func TestStrategiesText(t *testing.T) {
	stdout, _, err := execute(t, "strategies")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1. "+plugins.StrategyDirect)
	assert.Contains(t, stdout, "7. "+plugins.StrategyRelativePath)
}
