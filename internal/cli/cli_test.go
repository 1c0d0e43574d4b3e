package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"azimuth-installer/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"install", "catalog", "list"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestInstallCommandFlags(t *testing.T) {
	cmd := newInstallCommand()
	flags := []string{
		"backend", "bucket", "account", "gcs-endpoint", "source-dir", "temp",
		"project-dir", "references-dir", "index-file",
		"package", "version",
	}
	for _, name := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
	assert.NotNil(t, cmd.Flags().ShorthandLookup("b"))
	assert.NotNil(t, cmd.Flags().ShorthandLookup("a"))
	assert.NotNil(t, cmd.Flags().ShorthandLookup("t"))
	assert.Equal(t, types.DefaultBucket, cmd.Flags().Lookup("bucket").DefValue)
}

func TestCatalogCommandFlags(t *testing.T) {
	cmd := newCatalogCommand()
	assert.NotNil(t, cmd.Flags().Lookup("bucket"))
	assert.NotNil(t, cmd.Flags().Lookup("output"))
	assert.Nil(t, cmd.Flags().Lookup("project-dir"))
}

func TestListCommandFlags(t *testing.T) {
	cmd := newListCommand()
	assert.NotNil(t, cmd.Flags().Lookup("project-dir"))
	assert.Nil(t, cmd.Flags().Lookup("bucket"))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveStringPrefersChangedFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	var value string
	cmd.Flags().StringVar(&value, "myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "from-flag"))
	assert.Equal(t, "from-flag", resolveString(cmd, value, "azip_test_unset_key", "myflag"))
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")

	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Output tests ----------

func TestWriteCatalog(t *testing.T) {
	entries := []types.CatalogEntry{
		{Name: "azimuth-logger", Versions: []string{"2.1.0"}},
		{Name: "azimuth-secrets", Versions: []string{"1.0.3", "1.0.2"}},
	}
	tests := []struct {
		format   string
		expected string
	}{
		{
			format:   "text",
			expected: "azimuth-logger: 2.1.0\nazimuth-secrets: 1.0.3, 1.0.2\n",
		},
		{
			format:   "",
			expected: "azimuth-logger: 2.1.0\nazimuth-secrets: 1.0.3, 1.0.2\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeCatalog(&buf, tt.format, entries))
			if diff := cmp.Diff(tt.expected, buf.String()); diff != "" {
				t.Fatalf("unexpected catalog output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteCatalogYAML(t *testing.T) {
	entries := []types.CatalogEntry{
		{Name: "azimuth-secrets", Versions: []string{"1.0.3", "1.0.2"}},
	}
	var buf bytes.Buffer
	require.NoError(t, writeCatalog(&buf, "YAML", entries))
	assert.Contains(t, buf.String(), "name: azimuth-secrets")

	var decoded []types.CatalogEntry
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	if diff := cmp.Diff(entries, decoded); diff != "" {
		t.Fatalf("unexpected yaml catalog (-want +got):\n%s", diff)
	}
}

func TestWriteCatalogUnsupportedFormat(t *testing.T) {
	err := writeCatalog(&bytes.Buffer{}, "xml", nil)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "invalid argument",
			err:      errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad input"),
			expected: 2,
		},
		{
			name:     "already exists",
			err:      errbuilder.New().WithCode(errbuilder.CodeAlreadyExists).WithMsg("dup"),
			expected: 2,
		},
		{
			name:     "permission denied",
			err:      errbuilder.New().WithCode(errbuilder.CodePermissionDenied).WithMsg("no credentials"),
			expected: 3,
		},
		{
			name:     "selection cancelled",
			err:      errbuilder.New().WithCode(errbuilder.CodeFailedPrecondition).WithMsg("selection cancelled"),
			expected: 4,
		},
		{
			name:     "missing object",
			err:      errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("remote object not found"),
			expected: 5,
		},
		{
			name:     "internal",
			err:      errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("boom"),
			expected: 5,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCodeForError(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg("package x not found in catalog").
		WithCause(errors.New("lookup failed"))
	assert.Equal(t, "package x not found in catalog", errorMessage(err))
	assert.Equal(t, "plain", errorMessage(errors.New("plain")))
}

// ---------- Config tests ----------

func TestInitConfigDiscovery(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
		bucket  string
	}{
		{name: "no config file", bucket: ""},
		{name: "valid config file", content: "bucket: team-bucket\n", bucket: "team-bucket"},
		{name: "malformed config file", content: "bucket: [unterminated\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			dir := t.TempDir()
			t.Setenv("HOME", t.TempDir())
			t.Chdir(dir)
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "azip.yaml"), []byte(tt.content), 0o644))
			}

			err := initConfig("")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, viper.GetString("bucket"))
		})
	}
}

func TestInitConfigExplicitFileMissing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	err := initConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
