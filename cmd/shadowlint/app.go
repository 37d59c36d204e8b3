package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"

	"shadowlint/internal/config"
	"shadowlint/internal/history"
	"shadowlint/internal/output"
	"shadowlint/internal/parser"
	"shadowlint/internal/shadow"
	"shadowlint/internal/shared/observability"
	"shadowlint/internal/shared/util"
	"shadowlint/internal/watcher"
)

type App struct {
	Config   *config.Config
	Parser   *parser.Parser
	Analyzer *shadow.Analyzer

	teaProgram *tea.Program
	watcher    *watcher.Watcher
	history    *history.Store
	limiter    *util.Limiter
	obsServer  *observability.Server

	projectRoot string

	// Cached per-file results so watch mode only re-analyzes changed files.
	mu             sync.Mutex
	findingsByFile map[string][]shadow.Finding
	errorsByFile   map[string][]parser.StructuralError
	filesScanned   map[string]bool
	lastScan       time.Time
}

func NewApp(cfg *config.Config) (*App, error) {
	root, err := filepath.Abs(cfg.Paths[0])
	if err != nil {
		root = cfg.Paths[0]
	}

	a := &App{
		Config: cfg,
		Parser: parser.NewParser(),
		Analyzer: shadow.NewAnalyzer(shadow.Config{
			AllowImplicitItShadows: cfg.Rule.AllowImplicitItShadows,
		}),
		projectRoot:    root,
		findingsByFile: make(map[string][]shadow.Finding),
		errorsByFile:   make(map[string][]parser.StructuralError),
		filesScanned:   make(map[string]bool),
		limiter:        util.NewLimiter(cfg.Watch.MaxRescansPerSecond, 1),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("open history store: %w", err)
		}
		a.history = store
	}

	if cfg.Observability.Addr != "" {
		a.obsServer = observability.NewServer(cfg.Observability.Addr, a.healthStatus)
	}

	return a, nil
}

func (a *App) InitialScan(ctx context.Context) error {
	ctx, span := observability.Tracer.Start(ctx, "initial_scan")
	defer span.End()

	start := time.Now()
	roots := util.UniqueScanRoots(a.Config.Paths)

	files, err := a.ScanDirectories(roots, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to process file", "path", path, "error", err)
		}
	}

	a.mu.Lock()
	a.lastScan = time.Now()
	findingCount := 0
	for _, perFile := range a.findingsByFile {
		findingCount += len(perFile)
	}
	fileCount := len(a.filesScanned)
	a.mu.Unlock()

	observability.LastScanFiles.Set(float64(fileCount))
	observability.LastScanFindings.Set(float64(findingCount))
	span.SetAttributes(
		attribute.Int("scan.files", fileCount),
		attribute.Int("scan.findings", findingCount),
	)

	a.saveSnapshot(time.Since(start))
	return nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if !a.Parser.IsSupportedPath(path) {
				return nil
			}
			if !a.Config.Rule.IncludeTests && a.Parser.IsTestFile(path) {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func (a *App) ProcessFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if parser.IsGeneratedFile(content) {
		a.RemoveFile(path)
		return nil
	}

	ctx, span := observability.Tracer.Start(ctx, "process_file")
	defer span.End()
	span.SetAttributes(attribute.String("file.path", path))

	parseStart := time.Now()
	res, err := a.Parser.ParseFile(ctx, path, content)
	observability.ParsingDuration.Observe(time.Since(parseStart).Seconds())
	if err != nil {
		return err
	}
	defer res.Close()

	analyzeStart := time.Now()
	findings, structuralErrors := a.Analyzer.Analyze(res)
	observability.AnalysisDuration.Observe(time.Since(analyzeStart).Seconds())

	observability.FilesScannedTotal.Inc()
	observability.FindingsTotal.Add(float64(len(findings)))
	observability.StructuralErrorsTotal.Add(float64(len(structuralErrors)))

	a.mu.Lock()
	a.findingsByFile[path] = findings
	a.errorsByFile[path] = structuralErrors
	a.filesScanned[path] = true
	a.mu.Unlock()

	return nil
}

func (a *App) RemoveFile(path string) {
	a.mu.Lock()
	delete(a.findingsByFile, path)
	delete(a.errorsByFile, path)
	delete(a.filesScanned, path)
	a.mu.Unlock()
}

// Findings returns all cached findings ordered by file path, preserving the
// per-file analysis order within each file.
func (a *App) Findings() []shadow.Finding {
	a.mu.Lock()
	defer a.mu.Unlock()

	all := make([]shadow.Finding, 0)
	for _, path := range util.SortedStringKeys(a.findingsByFile) {
		all = append(all, a.findingsByFile[path]...)
	}
	return all
}

func (a *App) StructuralErrors() []parser.StructuralError {
	a.mu.Lock()
	defer a.mu.Unlock()

	all := make([]parser.StructuralError, 0)
	for _, path := range util.SortedStringKeys(a.errorsByFile) {
		all = append(all, a.errorsByFile[path]...)
	}
	return all
}

func (a *App) FileCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.filesScanned)
}

func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	ctx := context.Background()
	start := time.Now()

	if !a.limiter.Allow(1) {
		observability.RescansThrottledTotal.Inc()
		if err := a.limiter.Wait(ctx, 1); err != nil {
			return
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.RemoveFile(path)
			continue
		}
		if err := a.ProcessFile(ctx, path); err != nil {
			slog.Warn("failed to re-process file", "path", path, "error", err)
		}
	}

	a.mu.Lock()
	a.lastScan = time.Now()
	a.mu.Unlock()

	findings := a.Findings()
	structuralErrors := a.StructuralErrors()
	fileCount := a.FileCount()

	observability.LastScanFiles.Set(float64(fileCount))
	observability.LastScanFindings.Set(float64(len(findings)))

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}

	duration := time.Since(start)
	a.PrintSummary(len(paths), duration)

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{
			findings:         findings,
			structuralErrors: structuralErrors,
			fileCount:        fileCount,
		})
	}

	a.saveSnapshot(duration)
}

func (a *App) GenerateOutputs() error {
	findings := a.Findings()
	structuralErrors := a.StructuralErrors()

	if a.Config.Output.SARIF != "" {
		data, err := output.GenerateSARIF(a.projectRoot, VERSION, findings, structuralErrors)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(a.Config.Output.SARIF, data, 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.Markdown != "" {
		mdGen := output.NewMarkdownGenerator()
		md, err := mdGen.Generate(output.MarkdownReportData{
			FilesScanned:     a.FileCount(),
			Findings:         findings,
			StructuralErrors: structuralErrors,
		}, output.MarkdownReportOptions{
			ProjectName: filepath.Base(a.projectRoot),
			Version:     VERSION,
		})
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.Markdown, md, 0644); err != nil {
			return err
		}
	}

	if a.Config.Output.TSV != "" {
		tsvGen := output.NewTSVGenerator()
		findingsTSV, err := tsvGen.Generate(findings)
		if err != nil {
			return err
		}
		tsv := findingsTSV

		if len(structuralErrors) > 0 {
			errorsTSV, err := tsvGen.GenerateStructuralErrors(structuralErrors)
			if err != nil {
				return err
			}
			tsv = strings.TrimRight(findingsTSV, "\n") + "\n\n" + strings.TrimRight(errorsTSV, "\n") + "\n"
		}

		if err := util.WriteStringWithDirs(a.Config.Output.TSV, tsv, 0644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) PrintSummary(fileCount int, duration time.Duration) {
	findings := a.Findings()
	sortFindingsByLocation(findings)
	structuralErrors := a.StructuralErrors()

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Scan: %d files in %v\n", fileCount, duration.Round(time.Millisecond))

	if len(findings) > 0 {
		fmt.Printf("⚠️  FOUND %d SHADOWED NAMES:\n", len(findings))
		for _, f := range findings {
			fmt.Printf("   %s:%d:%d: %s (%s)\n", f.Location.File, f.Location.Line, f.Location.Column, f.Name, f.Kind)
		}
	} else {
		fmt.Println("✅ No shadowed names found.")
	}

	if len(structuralErrors) > 0 {
		fmt.Printf("❓ FOUND %d STRUCTURAL ERRORS:\n", len(structuralErrors))
		for _, e := range structuralErrors {
			fmt.Printf("   %s at %s:%d:%d\n", e.Kind, e.Location.File, e.Location.Line, e.Location.Column)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

// TrendReport loads the persisted snapshot history and formats per-window
// deltas since the given time.
func (a *App) TrendReport(since time.Time, window time.Duration) (string, error) {
	if a.history == nil {
		return "", fmt.Errorf("history is not configured; set history.path in the config file")
	}

	snapshots, err := a.history.LoadSnapshots(a.projectRoot, since)
	if err != nil {
		return "", err
	}
	report, err := history.BuildTrendReport(snapshots, window)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Finding Trends\n")
	b.WriteString("==============\n")
	b.WriteString(fmt.Sprintf("Scans: %d\n\n", report.ScanCount))
	for _, p := range report.Points {
		commit := p.CommitHash
		if commit == "" {
			commit = "-"
		}
		b.WriteString(fmt.Sprintf("%s  commit=%s files=%d findings=%d (%+d) avg=%.2f\n",
			p.Timestamp.Format(time.RFC3339), commit, p.FileCount, p.FindingCount, p.DeltaFindings, p.AvgFindings))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{
			findings:         a.Findings(),
			structuralErrors: a.StructuralErrors(),
			fileCount:        a.FileCount(),
		})
	}()

	_, err := p.Run()
	return err
}

func (a *App) StartWatcher() error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.Config.Rule.IncludeTests,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.watcher = w
	return w.Watch(util.UniqueScanRoots(a.Config.Paths))
}

func (a *App) StartObservability(ctx context.Context) error {
	if a.obsServer == nil {
		return nil
	}
	return a.obsServer.Start(ctx)
}

func (a *App) Close() error {
	var firstErr error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.obsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.obsServer.Stop(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) healthStatus(ctx context.Context) observability.HealthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()

	findingCount := 0
	for _, perFile := range a.findingsByFile {
		findingCount += len(perFile)
	}

	return observability.HealthStatus{
		Status:       "up",
		LastScan:     a.lastScan,
		FilesScanned: len(a.filesScanned),
		Findings:     findingCount,
	}
}

func (a *App) saveSnapshot(duration time.Duration) {
	if a.history == nil {
		return
	}

	commitHash, commitTime := history.ResolveGitMetadata(a.projectRoot)
	snapshot := history.Snapshot{
		SchemaVersion:        history.SchemaVersion,
		Timestamp:            time.Now().UTC(),
		CommitHash:           commitHash,
		CommitTimestamp:      commitTime,
		FileCount:            a.FileCount(),
		FindingCount:         len(a.Findings()),
		StructuralErrorCount: len(a.StructuralErrors()),
		DurationMS:           duration.Milliseconds(),
	}

	if err := a.history.SaveSnapshot(a.projectRoot, snapshot); err != nil {
		slog.Warn("failed to persist scan snapshot", "error", err)
	}
}

// sortFindingsByLocation orders findings for console output when results
// from several files are interleaved.
func sortFindingsByLocation(findings []shadow.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Location.File != findings[j].Location.File {
			return findings[i].Location.File < findings[j].Location.File
		}
		if findings[i].Location.Line != findings[j].Location.Line {
			return findings[i].Location.Line < findings[j].Location.Line
		}
		return findings[i].Location.Column < findings[j].Location.Column
	})
}
