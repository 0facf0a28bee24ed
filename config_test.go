package tailgen

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv blanks the record variables; empty values are ignored by LoadConfig.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TAILGEN_CONTENT", "")
	t.Setenv("TAILGEN_PLUGINS", "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".tailgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestConfigHasFourFields(t *testing.T) {
	typ := reflect.TypeOf(Config{})
	require.Equal(t, 4, typ.NumField())

	var names []string
	for i := 0; i < typ.NumField(); i++ {
		names = append(names, typ.Field(i).Name)
	}
	assert.Equal(t, []string{"Content", "Theme", "Plugins", "Safelist"}, names)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"./{assets,views}/**/*.{html,js}"}, cfg.Content)
	assert.Empty(t, cfg.Theme.Extend)
	assert.Nil(t, cfg.Theme.Overrides)
	assert.Equal(t, []string{"tailwind-fontawesome"}, cfg.Plugins)
	assert.Equal(t, []SafelistRule{
		{Pattern: "icon-(person-running)"},
		{Pattern: "text-(green|rose)-500"},
	}, cfg.Safelist)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigYAML(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfig(t, `
content:
  - "./views/**/*.html"
  - "./assets/**/*.js"
theme:
  extend:
    colors:
      brand:
        DEFAULT: "#ff5a1f"
        light: "#ff8a65"
    spacing:
      "128": "32rem"
  screens:
    tablet: "640px"
plugins:
  - tailwind-fontawesome
  - "@tailwindcss/line-clamp"
safelist:
  - pattern: "text-(green|rose)-500"
    variants: [hover, md]
  - "icon-person-running"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"./views/**/*.html", "./assets/**/*.js"}, cfg.Content)
	assert.Equal(t, []string{"tailwind-fontawesome", "@tailwindcss/line-clamp"}, cfg.Plugins)

	require.Contains(t, cfg.Theme.Extend, "colors")
	require.Contains(t, cfg.Theme.Extend, "spacing")
	require.Contains(t, cfg.Theme.Overrides, "screens")

	require.Len(t, cfg.Safelist, 2)
	assert.Equal(t, SafelistRule{Pattern: "text-(green|rose)-500", Variants: []string{"hover", "md"}}, cfg.Safelist[0])
	assert.Equal(t, SafelistRule{Class: "icon-person-running"}, cfg.Safelist[1])

	require.NoError(t, cfg.Validate())
}

func TestLoadConfigPartialFileKeepsZeroValues(t *testing.T) {
	clearConfigEnv(t)

	path := writeConfig(t, "content: ./index.html\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./index.html"}, cfg.Content)
	assert.Empty(t, cfg.Plugins)
	assert.Empty(t, cfg.Safelist)
}

func TestLoadConfigJSON(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "tailgen.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "content": ["./views/**/*.html"],
  "theme": {"extend": {}},
  "plugins": [],
  "safelist": [{"pattern": "bg-red-500"}]
}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./views/**/*.html"}, cfg.Content)
	assert.Empty(t, cfg.Plugins)
	assert.Equal(t, []SafelistRule{{Pattern: "bg-red-500"}}, cfg.Safelist)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("TAILGEN_CONTENT", "./a/*.html, ./b/*.js,")
	t.Setenv("TAILGEN_PLUGINS", "line-clamp")
	t.Setenv("TAILGEN_LOG_LEVEL", "debug") // not part of the record

	path := writeConfig(t, "content: [./ignored.html]\nplugins: [tailwind-fontawesome]\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"./a/*.html", "./b/*.js"}, cfg.Content)
	assert.Equal(t, []string{"line-clamp"}, cfg.Plugins)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{
			name:    "unknown top-level field",
			content: "content: []\nprefix: tw-\n",
			wantErr: ErrUnknownField,
		},
		{
			name:    "content not a list of strings",
			content: "content: [1, 2]\n",
			wantErr: ErrInvalidField,
		},
		{
			name:    "safelist not a list",
			content: "safelist: text-red-500\n",
			wantErr: ErrInvalidField,
		},
		{
			name:    "safelist entry without pattern",
			content: "safelist:\n  - variants: [hover]\n",
			wantErr: ErrInvalidField,
		},
		{
			name:    "theme not a mapping",
			content: "theme: dark\n",
			wantErr: ErrInvalidField,
		},
		{
			name:    "theme.extend not a mapping",
			content: "theme:\n  extend: [a]\n",
			wantErr: ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	clearConfigEnv(t)
	_, err := LoadConfig(writeConfig(t, "content: [unclosed\n"))
	require.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Config{
		Plugins:  []string{"tailwind-typography"},
		Safelist: []SafelistRule{{Pattern: "text-(green"}},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.ErrorIs(t, err, ErrUnknownPlugin)
}

func TestStringList(t *testing.T) {
	got, err := stringList("one")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, got)

	got, err = stringList([]any{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = stringList(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = stringList(42)
	require.Error(t, err)
}
