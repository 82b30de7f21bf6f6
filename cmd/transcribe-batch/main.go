package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/weichenhs/transcribe-flow/internal/batch"
	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

const usage = `Usage: transcribe-batch [TARGET_DIRECTORY] [options]

Runs the single-file pipeline once per eligible media file in the target
directory (default: current directory). Failures in one file never stop the
batch; the exit status is non-zero if any file failed.

Options:
  --no-refine     Skip transcript refinement (faster)
  --summary       Generate conversation summaries
  --verbose       Show detailed progress
  --force         Overwrite existing output files
  --lang CODE     Transcription language (default: en)
  --workers N     Process up to N files concurrently (default: 1)
  --watch         Keep running and process files as they appear
  --config PATH   Config file (default: config.yaml if present)
  --help, -h      Show this help message
`

type batchOptions struct {
	dir        string
	forward    []string // flags forwarded to each child pipeline run
	workers    int
	watch      bool
	verbose    bool
	configPath string
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if opts.workers > 0 {
		cfg.Batch.Workers = opts.workers
	}

	level := cfg.Logging.Level
	if opts.verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Logging.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command, err := resolvePipelineCommand(cfg.Batch.PipelineCommand)
	if err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}

	runner := batch.NewProcessRunner(
		command,
		opts.forward,
		time.Duration(cfg.Batch.FileTimeout),
		executor.New(),
		opts.verbose,
	)

	driver, err := batch.NewDriver(runner, cfg.Batch.Extensions, cfg.Batch.Workers, cfg.Batch.LogFile, log)
	if err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}
	defer driver.Close()

	if opts.watch {
		if err := driver.Watch(ctx, opts.dir); err != nil && err != context.Canceled {
			log.Error(ctx, "Watch error: %v", err)
			os.Exit(1)
		}
		return
	}

	report, err := driver.Run(ctx, opts.dir)
	if err != nil {
		log.Error(ctx, "Batch error: %v", err)
		os.Exit(1)
	}
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseArgs(args []string) (batchOptions, error) {
	opts := batchOptions{dir: "."}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			fmt.Print(usage)
			os.Exit(0)
		case arg == "--no-refine", arg == "--summary", arg == "--force":
			opts.forward = append(opts.forward, arg)
		case arg == "--verbose":
			opts.verbose = true
			opts.forward = append(opts.forward, arg)
		case arg == "--watch":
			opts.watch = true
		case arg == "--lang":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--lang requires a value")
			}
			i++
			if !config.ValidLanguage(args[i]) {
				return opts, fmt.Errorf("invalid language %q (valid: %s)", args[i], config.ValidLanguages())
			}
			opts.forward = append(opts.forward, "--lang", args[i])
		case arg == "--workers":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--workers requires a value")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 1 {
				return opts, fmt.Errorf("invalid worker count %q", args[i])
			}
			opts.workers = n
		case arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--config requires a value")
			}
			i++
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "--"):
			return opts, fmt.Errorf("unknown option: %s", arg)
		default:
			opts.dir = arg
		}
	}

	if info, err := os.Stat(opts.dir); err != nil || !info.IsDir() {
		return opts, fmt.Errorf("target directory %q does not exist", opts.dir)
	}

	if opts.configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			opts.configPath = "config.yaml"
		}
	}

	return opts, nil
}

// resolvePipelineCommand prefers a pipeline binary sitting next to this one,
// falling back to PATH lookup.
func resolvePipelineCommand(command string) (string, error) {
	if strings.ContainsRune(command, os.PathSeparator) {
		return command, nil
	}
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), command)
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	if path, err := exec.LookPath(command); err == nil {
		return path, nil
	}
	return "", &config.ConfigurationError{
		Setting: "batch.pipeline_command",
		Reason:  fmt.Sprintf("%q not found next to this binary or on PATH", command),
	}
}
