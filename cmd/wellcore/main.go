// Package main implements the wellcore binary: it stages a LIS file,
// extracts the curves of every pass, and exports them as SQLite or CSV.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/wellcore/wellcore/internal/cache"
	"github.com/wellcore/wellcore/internal/config"
	"github.com/wellcore/wellcore/internal/curves"
	"github.com/wellcore/wellcore/internal/export"
	"github.com/wellcore/wellcore/internal/observability"
	"github.com/wellcore/wellcore/internal/record"
	"github.com/wellcore/wellcore/internal/storage"
	"github.com/wellcore/wellcore/pkg/types"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile  string
		dataDir     string
		source      string
		prefix      string
		pass        int
		lenient     bool
		skipFast    bool
		format      string
		noCache     bool
		showVersion bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for staged files, cache and exports")
	flag.StringVar(&source, "source", "", "LIS file to extract: local path or s3://bucket/key")
	flag.StringVar(&prefix, "prefix", "", "Extract every .lis object under this prefix in configured storage")
	flag.IntVar(&pass, "pass", -1, "Pass index to extract (-1 = all passes)")
	flag.BoolVar(&lenient, "lenient", false, "Disambiguate duplicate mnemonics instead of failing")
	flag.BoolVar(&skipFast, "skip-fast", false, "Drop fast channels instead of failing")
	flag.StringVar(&format, "format", "", "Export format: sqlite, csv")
	flag.BoolVar(&noCache, "no-cache", false, "Bypass the curve set cache")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wellcore - LIS well log curve extraction\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wellcore -source <uri> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wellcore -source /data/logs/run1.lis\n")
		fmt.Fprintf(os.Stderr, "  wellcore -source s3://well-logs/north-sea/run1.lis -skip-fast\n")
		fmt.Fprintf(os.Stderr, "  wellcore -source run1.lis -pass 0 -format csv\n")
		fmt.Fprintf(os.Stderr, "  wellcore -prefix north-sea/ -format sqlite\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  WELLCORE_DATA_DIR        Base directory for data files\n")
		fmt.Fprintf(os.Stderr, "  WELLCORE_STORAGE_TYPE    Storage type (local, s3)\n")
		fmt.Fprintf(os.Stderr, "  WELLCORE_S3_BUCKET       Bucket for s3 storage\n")
		fmt.Fprintf(os.Stderr, "  WELLCORE_EXPORT_FORMAT   Export format (sqlite, csv)\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("wellcore version %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}
	if source == "" && prefix == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(configFile, dataDir, format, lenient, skipFast)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	if prefix != "" {
		err = runBatch(ctx, cfg, prefix, pass, noCache)
	} else {
		err = run(ctx, cfg, source, pass, noCache)
	}
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
}

// loadConfig loads configuration: file, then environment, then flags.
func loadConfig(configFile, dataDir, format string, lenient, skipFast bool) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	config.LoadFromEnv(cfg)

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if format != "" {
		cfg.Export.Format = format
	}
	if lenient {
		cfg.Extraction.Strict = false
	}
	if skipFast {
		cfg.Extraction.SkipFast = true
	}

	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, source string, pass int, noCache bool) error {
	localPath, err := stageSource(ctx, cfg, source)
	if err != nil {
		return err
	}
	return extractFile(ctx, cfg, localPath, source, pass, noCache)
}

// extractFile extracts every requested pass of a staged LIS file.
func extractFile(ctx context.Context, cfg *config.Config, localPath, source string, pass int, noCache bool) error {
	f, err := openFile(localPath)
	if err != nil {
		return err
	}

	dfsrs := f.DFSRs()
	if len(dfsrs) == 0 {
		return record.ErrNoPasses
	}
	log.Printf("wellcore: %s has %d pass(es)", source, len(dfsrs))

	var curveCache *cache.CurveCache
	if cfg.Cache.Enabled && !noCache {
		curveCache, err = cache.NewCurveCache(cfg.Cache.Dir, cfg.Cache.MaxBytes)
		if err != nil {
			return err
		}
	}

	opts := curves.Options{
		Strict:   cfg.Extraction.Strict,
		SkipFast: cfg.Extraction.SkipFast,
	}
	stats := observability.NewExtractionStats(time.Hour)

	for i, dfsr := range dfsrs {
		if pass >= 0 && i != pass {
			continue
		}
		for _, spec := range dfsr.Specs {
			stats.RecordChannel(spec.Mnemonic)
		}
		if err := extractPass(ctx, cfg, curveCache, stats, f, dfsr, source, i, opts); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
	}

	passes, frames, meanDecode := stats.Summary()
	log.Printf("wellcore: done: %d pass(es), %d frames, mean decode %v", passes, frames, meanDecode)
	return nil
}

// runBatch extracts every LIS object under a storage prefix. Objects are
// staged in parallel, then extracted one at a time.
func runBatch(ctx context.Context, cfg *config.Config, prefix string, pass int, noCache bool) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}
	var sources []string
	for _, obj := range objects {
		if strings.EqualFold(filepath.Ext(obj), ".lis") {
			sources = append(sources, obj)
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("no .lis objects under prefix %q", prefix)
	}
	sort.Strings(sources)
	log.Printf("wellcore: staging %d file(s) under %q", len(sources), prefix)

	fetcher := storage.NewFetcher(store, cfg.Fetch.Concurrency, cfg.Fetch.StageDir)
	result, err := fetcher.Fetch(ctx, sources)
	if err != nil {
		return err
	}
	for _, obj := range sources {
		if stageErr, ok := result.Errors[obj]; ok {
			log.Printf("wellcore: skipping %s: %v", obj, stageErr)
		}
	}
	log.Printf("wellcore: staged %d file(s) (%d cached, %d downloaded)",
		len(result.LocalPaths), result.CacheHits, result.Downloads)

	failed := len(result.Errors)
	for _, obj := range sources {
		local, ok := result.LocalPaths[obj]
		if !ok {
			continue
		}
		if err := extractFile(ctx, cfg, local, obj, pass, noCache); err != nil {
			log.Printf("wellcore: %s: %v", obj, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(sources))
	}
	return nil
}

// openStore builds the object store named by the storage configuration.
func openStore(ctx context.Context, cfg *config.Config) (storage.ObjectStorage, error) {
	switch cfg.Storage.Type {
	case "s3":
		s3cfg := storage.DefaultS3Config()
		if cfg.Storage.S3.Region != "" {
			s3cfg.Region = cfg.Storage.S3.Region
		}
		s3cfg.Endpoint = cfg.Storage.S3.Endpoint
		return storage.NewS3Store(ctx, cfg.Storage.S3.Bucket, s3cfg)
	default:
		return storage.NewLocalStore(cfg.Storage.Path)
	}
}

func extractPass(ctx context.Context, cfg *config.Config, curveCache *cache.CurveCache, stats *observability.ExtractionStats, f *record.File, dfsr types.DFSR, source string, pass int, opts curves.Options) error {
	key := cache.Key(source, pass, opts)

	var cs *types.CurveSet
	hit := false
	if curveCache != nil {
		cs, hit = curveCache.Get(key)
	}
	if !hit {
		start := time.Now()
		var err error
		cs, err = curves.Extract(f, dfsr, opts)
		if err != nil {
			stats.RecordPass(0, 0, err)
			return err
		}
		stats.RecordPass(cs.Frames, time.Since(start), nil)
		if curveCache != nil {
			if err := curveCache.Put(key, cs); err != nil {
				log.Printf("wellcore: cache write failed for pass %d: %v", pass, err)
			}
		}
	} else {
		log.Printf("wellcore: pass %d served from cache", pass)
	}

	log.Printf("wellcore: pass %d decoded %d frames across %d channels",
		pass, cs.Frames, len(cs.Layout.Fields))

	meta := export.RunMeta{Source: source, Pass: pass}
	switch cfg.Export.Format {
	case "sqlite":
		exporter := export.NewSQLiteExporter(cfg.Export.OutputDir)
		info, err := exporter.Export(ctx, cs, meta)
		if err != nil {
			return err
		}
		log.Printf("wellcore: pass %d exported to %s (%d bytes)", pass, info.Path, info.SizeBytes)
	case "csv":
		path := filepath.Join(cfg.Export.OutputDir, fmt.Sprintf("curves-pass%d.csv", pass))
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := export.WriteCSV(out, cs); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		log.Printf("wellcore: pass %d exported to %s", pass, path)
	}
	return nil
}

// stageSource makes the source available as a local file.
func stageSource(ctx context.Context, cfg *config.Config, source string) (string, error) {
	loc := storage.ParseLocation(source)
	if !loc.IsS3() {
		return loc.Key, nil
	}

	s3cfg := storage.DefaultS3Config()
	if cfg.Storage.S3.Region != "" {
		s3cfg.Region = cfg.Storage.S3.Region
	}
	s3cfg.Endpoint = cfg.Storage.S3.Endpoint

	store, err := storage.NewS3Store(ctx, loc.Bucket, s3cfg)
	if err != nil {
		return "", err
	}
	log.Printf("wellcore: staging s3://%s/%s", loc.Bucket, loc.Key)
	return storage.Stage(ctx, store, loc.Key, cfg.Fetch.StageDir)
}

func openFile(path string) (*record.File, error) {
	src, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return record.ReadFile(src)
}
