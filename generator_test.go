package tailgen

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testInput = `@tailwind base;
@tailwind components;
.btn { @apply px-4 font-bold; }
@tailwind utilities;
`

func testProject(t *testing.T) (dir string, cfg Config) {
	t.Helper()
	dir = t.TempDir()
	writeFiles(t, dir, map[string]string{
		"views/index.html": `<div class="flex p-4 md:text-lg"><i class="icon-check"></i></div>`,
		"assets/app.js":    `document.body.classList.add("hidden")`,
		"styles/input.css": testInput,
	})

	cfg = DefaultConfig()
	cfg.Content = []string{
		filepath.Join(dir, "views/**/*.html"),
		filepath.Join(dir, "assets/**/*.js"),
	}
	return dir, cfg
}

func TestBuildEndToEnd(t *testing.T) {
	dir, cfg := testProject(t)
	output := filepath.Join(dir, "dist", "app.css")

	result, err := Build(context.Background(), BuildOptions{
		Config: cfg,
		Input:  filepath.Join(dir, "styles/input.css"),
		Output: output,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesScanned)
	assert.Equal(t, []string{
		"flex",
		"hidden",
		"icon-check",
		"icon-person-running",
		"md:text-lg",
		"p-4",
		"text-green-500",
		"text-rose-500",
	}, result.Classes)
	assert.Equal(t, 8, result.ClassesGenerated)
	assert.Equal(t, 3, result.Safelisted)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Categories)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	css := string(data)
	assert.Equal(t, len(css), result.BytesWritten)

	assert.Contains(t, css, "box-sizing: border-box;")
	assert.Contains(t, css, ".btn { padding-left: 1rem; padding-right: 1rem; font-weight: 700; }")
	assert.Contains(t, css, ".flex {\n  display: flex;\n}")
	assert.Contains(t, css, ".icon-person-running::before {\n  content: \"\\f70c\";")
	assert.Contains(t, css, ".text-green-500 {\n  color: #22c55e;\n}")
	assert.Contains(t, css, ".text-rose-500 {\n  color: #f43f5e;\n}")
	assert.Contains(t, css, "@media (min-width: 768px) {\n  .md\\:text-lg {")
	assert.NotContains(t, css, "text-blue-500")

	// utilities come after components
	assert.Less(t, strings.Index(css, ".btn {"), strings.Index(css, ".flex {"))
}

func TestBuildToStdoutMinified(t *testing.T) {
	_, cfg := testProject(t)
	cfg.Safelist = nil
	cfg.Plugins = nil

	var buf bytes.Buffer
	result, err := Build(context.Background(), BuildOptions{
		Config: cfg,
		Minify: true,
		Stdout: &buf,
	})
	require.NoError(t, err)

	assert.Equal(t, buf.Len(), result.BytesWritten)
	assert.Equal(t, 0, result.Safelisted)
	assert.Contains(t, buf.String(), ".flex{display:flex}")
	assert.Contains(t, buf.String(), ".hidden{display:none}")
	assert.NotContains(t, buf.String(), "icon-check")
	assert.NotContains(t, buf.String(), "\n  ")
}

func TestBuildWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"plain.css": "body { margin: 0; }\n"})

	cfg := Config{Content: []string{filepath.Join(dir, "*.html")}}

	var buf bytes.Buffer
	result, err := Build(context.Background(), BuildOptions{
		Config: cfg,
		Input:  filepath.Join(dir, "plain.css"),
		Stdout: &buf,
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "No content files matched")
	assert.Contains(t, result.Warnings[1], "no @tailwind directives")
	assert.Equal(t, "body { margin: 0; }\n", buf.String())
}

func TestBuildErrors(t *testing.T) {
	dir, cfg := testProject(t)

	t.Run("missing input", func(t *testing.T) {
		_, err := Build(context.Background(), BuildOptions{Config: cfg, Input: filepath.Join(dir, "nope.css"), Stdout: &bytes.Buffer{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read input")
	})

	t.Run("unknown plugin", func(t *testing.T) {
		bad := cfg
		bad.Plugins = []string{"tailwind-forms"}
		_, err := Build(context.Background(), BuildOptions{Config: bad, Stdout: &bytes.Buffer{}})
		require.ErrorIs(t, err, ErrUnknownPlugin)
	})

	t.Run("bad apply", func(t *testing.T) {
		input := filepath.Join(dir, "bad.css")
		require.NoError(t, os.WriteFile(input, []byte(".x { @apply hover:flex; }"), 0o644))
		_, err := Build(context.Background(), BuildOptions{Config: cfg, Input: input, Stdout: &bytes.Buffer{}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "process stylesheet")
	})
}

func TestWriteStylesheetReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.css")

	require.NoError(t, writeStylesheet(path, "a{}"))
	require.NoError(t, writeStylesheet(path, "b{}"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "b{}", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestIsWatched(t *testing.T) {
	opts := BuildOptions{
		Config: Config{Content: []string{"./views/**/*.html", "assets/*.js"}},
		Input:  "styles/input.css",
	}

	assert.True(t, isWatched("views/a/b.html", opts))
	assert.True(t, isWatched("assets/app.js", opts))
	assert.True(t, isWatched("styles/input.css", opts))
	assert.False(t, isWatched("assets/app.ts", opts))
	assert.False(t, isWatched("dist/app.css", opts))
}

func TestWatchDirs(t *testing.T) {
	dir, cfg := testProject(t)

	dirs, err := watchDirs(BuildOptions{Config: cfg, Input: filepath.Join(dir, "styles/input.css")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "assets"),
		filepath.Join(dir, "styles"),
		filepath.Join(dir, "views"),
	}, dirs)
}

func TestWatchDirsIncludesGlobBases(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"views/partials/nav.txt":      "",
		"views/node_modules/x/y.html": "",
		"pages/about.txt":             "",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	dirs, err := watchDirs(BuildOptions{Config: Config{Content: []string{
		filepath.Join(dir, "views/**/*.html"),
		filepath.Join(dir, "pages/*.html"),
		filepath.Join(dir, "empty/*.html"),
		filepath.Join(dir, "missing/**/*.html"),
	}}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "empty"),
		filepath.Join(dir, "pages"),
		filepath.Join(dir, "views"),
		filepath.Join(dir, "views/partials"),
	}, dirs)
}

func TestWatchRequiresOutput(t *testing.T) {
	err := Watch(context.Background(), BuildOptions{}, nil)
	require.Error(t, err)
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir, cfg := testProject(t)
	output := filepath.Join(dir, "dist", "app.css")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan *BuildResult, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, BuildOptions{Config: cfg, Output: output}, func(r *BuildResult, err error) {
			if err == nil {
				builds <- r
			}
		})
	}()

	select {
	case r := <-builds:
		assert.NotContains(t, r.Classes, "grid")
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "index.html"), []byte(`<div class="grid"></div>`), 0o644))

	select {
	case r := <-builds:
		assert.Contains(t, r.Classes, "grid")
	case <-time.After(5 * time.Second):
		t.Fatal("change did not trigger a rebuild")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchReloadsConfig(t *testing.T) {
	t.Setenv("TAILGEN_CONTENT", "")
	t.Setenv("TAILGEN_PLUGINS", "")
	dir, _ := testProject(t)
	configFile := filepath.Join(dir, "tailgen.yaml")
	record := "content:\n  - " + filepath.Join(dir, "views/**/*.html") + "\n"
	require.NoError(t, os.WriteFile(configFile, []byte(record), 0o644))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan *BuildResult, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, BuildOptions{
			Config:     cfg,
			Output:     filepath.Join(dir, "dist", "app.css"),
			ConfigFile: configFile,
		}, func(r *BuildResult, err error) {
			if err == nil {
				builds <- r
			}
		})
	}()

	select {
	case r := <-builds:
		assert.Equal(t, []string{"flex", "md:text-lg", "p-4"}, r.Classes)
	case <-time.After(5 * time.Second):
		t.Fatal("initial build did not run")
	}

	require.NoError(t, os.WriteFile(configFile, []byte(record+"safelist:\n  - grid\n"), 0o644))

	select {
	case r := <-builds:
		assert.Contains(t, r.Classes, "grid")
	case <-time.After(5 * time.Second):
		t.Fatal("config change did not trigger a rebuild")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestIsConfigFile(t *testing.T) {
	opts := BuildOptions{ConfigFile: ".tailgen.yaml"}
	assert.True(t, isConfigFile("./.tailgen.yaml", opts))
	assert.False(t, isConfigFile("views/index.html", opts))
	assert.False(t, isConfigFile(".tailgen.yaml", BuildOptions{}))
}

// startWatch runs Watch in the background and returns its build outcomes.
func startWatch(t *testing.T, opts BuildOptions) (results <-chan watchOutcome, stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	out := make(chan watchOutcome, 10)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, opts, func(r *BuildResult, err error) {
			out <- watchOutcome{result: r, err: err}
		})
	}()

	return out, func() {
		cancel()
		require.NoError(t, <-done)
	}
}

type watchOutcome struct {
	result *BuildResult
	err    error
}

func nextOutcome(t *testing.T, results <-chan watchOutcome, what string) watchOutcome {
	t.Helper()
	select {
	case o := <-results:
		return o
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not happen", what)
		return watchOutcome{}
	}
}

func TestWatchPicksUpNewDirectories(t *testing.T) {
	dir, cfg := testProject(t)

	results, stop := startWatch(t, BuildOptions{Config: cfg, Output: filepath.Join(dir, "dist", "app.css")})
	defer stop()

	initial := nextOutcome(t, results, "initial build")
	require.NoError(t, initial.err)
	assert.NotContains(t, initial.result.Classes, "grid")

	partials := filepath.Join(dir, "views", "partials")
	require.NoError(t, os.Mkdir(partials, 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(partials, "nav.html"), []byte(`<nav class="grid"></nav>`), 0o644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case o := <-results:
			require.NoError(t, o.err)
			if slices.Contains(o.result.Classes, "grid") {
				return
			}
		case <-deadline:
			t.Fatal("file in a new directory did not trigger a rebuild")
		}
	}
}

func TestWatchKeepsConfigWhenReloadFails(t *testing.T) {
	t.Setenv("TAILGEN_CONTENT", "")
	t.Setenv("TAILGEN_PLUGINS", "")
	dir, _ := testProject(t)
	configFile := filepath.Join(dir, "tailgen.yaml")
	record := "content:\n  - " + filepath.Join(dir, "views/**/*.html") + "\n"
	require.NoError(t, os.WriteFile(configFile, []byte(record+"safelist:\n  - grid\n"), 0o644))

	cfg, err := LoadConfig(configFile)
	require.NoError(t, err)

	results, stop := startWatch(t, BuildOptions{
		Config:     cfg,
		Output:     filepath.Join(dir, "dist", "app.css"),
		ConfigFile: configFile,
	})
	defer stop()

	initial := nextOutcome(t, results, "initial build")
	require.NoError(t, initial.err)
	assert.Contains(t, initial.result.Classes, "grid")

	broken := record + "safelist:\n  - pattern: \"text-(green\"\n"
	require.NoError(t, os.WriteFile(configFile, []byte(broken), 0o644))

	failed := nextOutcome(t, results, "config reload")
	require.Error(t, failed.err)
	assert.Nil(t, failed.result)
	assert.ErrorIs(t, failed.err, ErrInvalidPattern)
	assert.Contains(t, failed.err.Error(), "reload config")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "views", "index.html"), []byte(`<div class="block"></div>`), 0o644))

	rebuilt := nextOutcome(t, results, "rebuild after content change")
	require.NoError(t, rebuilt.err)
	assert.Equal(t, []string{"block", "grid"}, rebuilt.result.Classes)
}
