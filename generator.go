package tailgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/google/renameio/v2"

	"github.com/yacobolo/tailgen/internal/log"
	"github.com/yacobolo/tailgen/internal/stylesheet"
)

// BuildOptions controls a single build.
type BuildOptions struct {
	Config      Config
	Input       string    // Input stylesheet; empty uses stylesheet.DefaultInput
	Output      string    // Output path; empty writes to Stdout
	Minify      bool      // Emit compact CSS
	Stdout      io.Writer // Destination when Output is empty (default os.Stdout)
	Concurrency int       // Content files read in parallel (default GOMAXPROCS)

	// ConfigFile is watched by Watch; a change reloads Config through Reload
	// (default LoadConfig(ConfigFile)) before the next build.
	ConfigFile string
	Reload     func() (Config, error)
}

// BuildResult holds build statistics
type BuildResult struct {
	FilesScanned     int
	Candidates       int
	ClassesGenerated int
	Safelisted       int
	BytesWritten     int
	Classes          []string
	Categories       []CategoryCount
	Warnings         []string
}

// Build is the main entry point: scan content, select classes and write the stylesheet.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	logger := log.WithComponent("generator")

	// 1. Prepare theme, plugins and safelist
	engine, err := NewEngine(opts.Config)
	if err != nil {
		return nil, err
	}

	// 2. Read the input stylesheet
	input := stylesheet.DefaultInput
	if opts.Input != "" {
		// #nosec G304 - input path is chosen by the user
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		input = string(data)
	}

	// 3. Scan content files
	scan, err := ScanContent(ctx, opts.Config.Content, opts.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result := &BuildResult{
		FilesScanned: len(scan.Files),
		Candidates:   len(scan.Candidates),
		Warnings:     scan.Warnings,
	}
	if len(opts.Config.Content) > 0 && len(scan.Files) == 0 {
		result.Warnings = append(result.Warnings, "No content files matched: "+strings.Join(opts.Config.Content, ", "))
	}

	// 4. Select classes
	selection := engine.Select(scan.Candidates)
	result.Classes = selection.Classes
	result.ClassesGenerated = len(selection.Classes)
	result.Safelisted = selection.Safelisted
	result.Categories = countCategories(engine.Rules(selection.Classes))

	logger.Debug().
		Int("detected", selection.Detected).
		Int("safelisted", selection.Safelisted).
		Msg("classes selected")

	// 5. Expand directives
	processed, err := stylesheet.Process(input, engine.Layers(selection.Classes, opts.Minify), engine.Apply)
	if err != nil {
		return nil, fmt.Errorf("process stylesheet: %w", err)
	}
	if len(processed.Directives) == 0 {
		result.Warnings = append(result.Warnings, "Input has no @tailwind directives; no utilities were emitted")
	}

	// 6. Write
	if opts.Output == "" {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		n, err := io.WriteString(w, processed.CSS)
		if err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
		result.BytesWritten = n
	} else {
		if err := writeStylesheet(opts.Output, processed.CSS); err != nil {
			return nil, fmt.Errorf("write failed: %w", err)
		}
		result.BytesWritten = len(processed.CSS)
	}

	logger.Info().
		Int("files", result.FilesScanned).
		Int("classes", result.ClassesGenerated).
		Int("bytes", result.BytesWritten).
		Str("output", opts.Output).
		Msg("stylesheet built")

	return result, nil
}

// writeStylesheet atomically replaces path with css.
func writeStylesheet(path, css string) error {
	logger := log.WithComponent("generator")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending file")
		}
	}()

	if _, err := pendingFile.WriteString(css); err != nil {
		return fmt.Errorf("write stylesheet data: %w", err)
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace stylesheet: %w", err)
	}

	return nil
}

// watchDebounce collapses bursts of file events into one rebuild.
const watchDebounce = 500 * time.Millisecond

// Watch builds once, then rebuilds whenever a content file or the input changes,
// until ctx is cancelled. onBuild receives every build outcome; build errors do
// not stop the loop.
func Watch(ctx context.Context, opts BuildOptions, onBuild func(*BuildResult, error)) error {
	logger := log.WithComponent("watcher")

	if opts.Output == "" {
		return errors.New("watch requires an output file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	addDirs := func() (int, error) {
		dirs, err := watchDirs(opts)
		if err != nil {
			return 0, err
		}
		added := 0
		for _, dir := range dirs {
			if watched[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return added, fmt.Errorf("watch %s: %w", dir, err)
			}
			watched[dir] = true
			added++
		}
		return added, nil
	}
	if _, err := addDirs(); err != nil {
		return err
	}

	logger.Info().Int("dirs", len(watched)).Msg("watching for changes")

	rebuild := make(chan struct{}, 1)
	trigger := func() {
		select {
		case rebuild <- struct{}{}:
		default:
		}
	}
	trigger()

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	outputAbs, _ := filepath.Abs(opts.Output)
	reloadConfig := false

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watcher stopped")
			return nil

		case <-rebuild:
			if reloadConfig {
				reloadConfig = false
				cfg, err := reloadRecord(opts)
				if err != nil {
					if onBuild != nil {
						onBuild(nil, fmt.Errorf("reload config: %w", err))
					}
					continue
				}
				opts.Config = cfg
				if _, err := addDirs(); err != nil {
					logger.Warn().Err(err).Msg("watch new content directories")
				}
				logger.Info().Str("config", opts.ConfigFile).Msg("config reloaded")
			}

			result, err := Build(ctx, opts)
			if err != nil && ctx.Err() != nil {
				return nil
			}
			if onBuild != nil {
				onBuild(result, err)
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs == outputAbs {
				continue
			}

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// fsnotify drops the watch of a removed directory; forget it so a new one is added.
				delete(watched, filepath.Clean(event.Name))
			}

			switch {
			case isConfigFile(event.Name, opts):
				reloadConfig = true
			case event.Has(fsnotify.Create) && isDir(event.Name):
				added, err := addDirs()
				if err != nil {
					logger.Warn().Err(err).Str("dir", event.Name).Msg("watch new directory")
				}
				if added == 0 {
					continue
				}
				// Files written before the watch was added are found by the rebuild's rescan.
				logger.Debug().Str("dir", event.Name).Int("dirs", added).Msg("watching new directory")
			case !isWatched(event.Name, opts):
				continue
			}

			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("file changed")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, trigger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}

// reloadRecord loads the record again after the config file changed.
func reloadRecord(opts BuildOptions) (Config, error) {
	if opts.Reload != nil {
		return opts.Reload()
	}
	cfg, err := LoadConfig(opts.ConfigFile)
	if err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// isConfigFile reports whether name is the watched config file.
func isConfigFile(name string, opts BuildOptions) bool {
	return opts.ConfigFile != "" && filepath.Clean(name) == filepath.Clean(opts.ConfigFile)
}

// watchDirs returns the directories to watch: each content glob's static base, its
// subdirectories when the glob can match below the base, and the directories of the
// input and the config file. fsnotify watches directories so editors that replace
// files keep being tracked.
func watchDirs(opts BuildOptions) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}

	filter := newContentFilter()
	for _, pattern := range opts.Config.Content {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, pattern)
		}

		base, rest := doublestar.SplitPattern(pattern)
		base = filepath.FromSlash(base)
		if !isDir(base) {
			continue
		}
		if !strings.Contains(rest, "/") && !strings.Contains(rest, "**") {
			add(base)
			continue
		}

		err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return nil
			}
			if path != base && filter.skip(path) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if opts.Input != "" {
		add(filepath.Dir(opts.Input))
	}
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err == nil {
			add(filepath.Dir(opts.ConfigFile))
		}
	}

	sort.Strings(dirs)
	return dirs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// isWatched reports whether a changed file is the input or matches a content glob.
func isWatched(name string, opts BuildOptions) bool {
	clean := filepath.ToSlash(filepath.Clean(name))
	if opts.Input != "" && clean == filepath.ToSlash(filepath.Clean(opts.Input)) {
		return true
	}
	for _, pattern := range opts.Config.Content {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		if ok, _ := doublestar.Match(pattern, clean); ok {
			return true
		}
	}
	return false
}
