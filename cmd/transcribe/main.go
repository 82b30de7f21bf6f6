package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/weichenhs/transcribe-flow/internal/asr"
	"github.com/weichenhs/transcribe-flow/internal/config"
	"github.com/weichenhs/transcribe-flow/internal/diarize"
	"github.com/weichenhs/transcribe-flow/internal/logger"
	"github.com/weichenhs/transcribe-flow/internal/media"
	"github.com/weichenhs/transcribe-flow/internal/pipeline"
	"github.com/weichenhs/transcribe-flow/internal/refine"
	"github.com/weichenhs/transcribe-flow/pkg/executor"
)

const usage = `Usage: transcribe <input_file> [options]

Turns a recording into a speaker-labeled transcript, a refined transcript,
an optional summary, and SRT subtitles.

Options:
  --rename [PREFIX]  Rename the recording and outputs from the summary;
                     PREFIX replaces the date-derived prefix (implies --summary)
  --force            Overwrite existing output files
  --verbose          Show detailed progress and tool output
  --no-refine        Skip transcript refinement (faster)
  --summary          Generate a conversation summary
  --docx             Also export the summary as a docx document
  --lang CODE        Transcription language (default: en)
  --config PATH      Config file (default: config.yaml if present)
  --help, -h         Show this help message
`

func main() {
	input, opts, configPath, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n\n%s", err, usage)
		os.Exit(1)
	}
	if input == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Logging.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.RequireHFToken(); err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}
	needsLLM := !opts.NoRefine || opts.Summary || opts.Rename
	if needsLLM {
		if err := cfg.RequireLLMKey(); err != nil {
			log.Error(ctx, "%v", err)
			os.Exit(1)
		}
	}

	exec := executor.New()

	transcriber, err := asr.New(cfg, exec, log)
	if err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}

	var refiner refine.Refiner
	if needsLLM {
		refiner, err = refine.New(cfg, opts.Lang, log)
		if err != nil {
			log.Error(ctx, "%v", err)
			os.Exit(1)
		}
	}

	p := pipeline.New(
		media.New(exec, log),
		transcriber,
		diarize.New(cfg.Diarizer, cfg.Credentials.HFToken, log),
		refiner,
		log,
	)

	if err := p.Process(ctx, input, opts); err != nil {
		log.Error(ctx, "Error during processing: %v", err)
		os.Exit(1)
	}
}

// parseArgs walks argv by hand because --rename takes an optional value,
// which the flag package cannot express.
func parseArgs(args []string) (string, pipeline.Options, string, error) {
	opts := pipeline.Options{Lang: "en"}
	var input, configPath string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--help" || arg == "-h":
			fmt.Print(usage)
			os.Exit(0)
		case arg == "--force":
			opts.Force = true
		case arg == "--verbose":
			opts.Verbose = true
		case arg == "--no-refine":
			opts.NoRefine = true
		case arg == "--summary":
			opts.Summary = true
		case arg == "--docx":
			opts.Docx = true
		case arg == "--rename":
			opts.Rename = true
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") && input != "" {
				i++
				opts.RenamePrefix = args[i]
			}
		case arg == "--lang":
			if i+1 >= len(args) {
				return "", opts, "", fmt.Errorf("--lang requires a value")
			}
			i++
			opts.Lang = args[i]
		case arg == "--config":
			if i+1 >= len(args) {
				return "", opts, "", fmt.Errorf("--config requires a value")
			}
			i++
			configPath = args[i]
		case strings.HasPrefix(arg, "--"):
			return "", opts, "", fmt.Errorf("unknown option: %s", arg)
		default:
			if input != "" {
				return "", opts, "", fmt.Errorf("unexpected argument: %s", arg)
			}
			input = arg
		}
	}

	if !config.ValidLanguage(opts.Lang) {
		return "", opts, "", fmt.Errorf("invalid language %q (valid: %s)", opts.Lang, config.ValidLanguages())
	}

	if configPath == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			configPath = "config.yaml"
		}
	}

	return input, opts, configPath, nil
}
