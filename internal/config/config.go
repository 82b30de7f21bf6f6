package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigurationError indicates a missing or invalid setting (bad config file
// value, absent credential, unknown language).
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Setting, e.Reason)
}

// Languages accepted by the pipeline.
var validLanguages = map[string]bool{
	"zh": true, "en": true, "ja": true, "ko": true, "fr": true,
	"de": true, "es": true, "it": true, "pt": true, "ru": true,
}

// ValidLanguage reports whether code is a supported language code.
func ValidLanguage(code string) bool {
	return validLanguages[code]
}

// ValidLanguages returns the supported language codes for error messages.
func ValidLanguages() string {
	return "zh, en, ja, ko, fr, de, es, it, pt, ru"
}

type Config struct {
	ASR      ASRConfig      `yaml:"asr"`
	Diarizer DiarizerConfig `yaml:"diarizer"`
	Refine   RefineConfig   `yaml:"refine"`
	Batch    BatchConfig    `yaml:"batch"`
	Logging  LoggingConfig  `yaml:"logging"`

	// Credentials come from the environment (or a .env file), never from
	// the YAML file, and are handed to adapters explicitly.
	Credentials Credentials `yaml:"-"`
}

type ASRConfig struct {
	Backend     string `yaml:"backend"`      // whispercpp | openai
	BinaryPath  string `yaml:"binary_path"`  // whisper.cpp CLI
	ModelPath   string `yaml:"model_path"`   // ggml model file
	Threads     int    `yaml:"threads"`
	OpenAIModel string `yaml:"openai_model"` // Whisper API model name
}

type DiarizerConfig struct {
	BaseURL     string   `yaml:"base_url"`
	Timeout     Duration `yaml:"timeout"`
	MinSpeakers int      `yaml:"min_speakers"`
	MaxSpeakers int      `yaml:"max_speakers"`
}

type RefineConfig struct {
	Provider      string `yaml:"provider"` // openai | gemini
	RefineModel   string `yaml:"refine_model"`
	SummaryModel  string `yaml:"summary_model"`
	FilenameModel string `yaml:"filename_model"`
	GeminiModel   string `yaml:"gemini_model"`
}

type BatchConfig struct {
	Extensions      []string `yaml:"extensions"`
	FileTimeout     Duration `yaml:"file_timeout"`
	Workers         int      `yaml:"workers"`
	PipelineCommand string   `yaml:"pipeline_command"`
	LogFile         string   `yaml:"log_file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Credentials struct {
	HFToken    string
	OpenAIKey  string
	GeminiKeys []string
}

// Duration is a time.Duration that unmarshals from YAML strings like "12h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads configuration from an optional YAML file and the environment.
// A .env file in the working directory is honored when present. path may be
// empty, in which case only defaults and environment values apply.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; explicit environment variables still apply.
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.Credentials = Credentials{
		HFToken:    os.Getenv("HF_TOKEN"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		GeminiKeys: splitKeys(os.Getenv("GEMINI_API_KEY")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitKeys(v string) []string {
	var keys []string
	for _, k := range strings.Split(v, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Validate applies defaults and rejects inconsistent settings.
func (c *Config) Validate() error {
	if c.ASR.Backend == "" {
		c.ASR.Backend = "whispercpp"
	}
	switch c.ASR.Backend {
	case "whispercpp":
		if c.ASR.BinaryPath == "" {
			c.ASR.BinaryPath = "whisper-cli"
		}
		if c.ASR.ModelPath == "" {
			c.ASR.ModelPath = "models/ggml-large-v3.bin"
		}
	case "openai":
		if c.ASR.OpenAIModel == "" {
			c.ASR.OpenAIModel = "whisper-1"
		}
	default:
		return &ConfigurationError{Setting: "asr.backend", Reason: fmt.Sprintf("unknown backend %q", c.ASR.Backend)}
	}
	if c.ASR.Threads <= 0 {
		c.ASR.Threads = 8
	}

	if c.Diarizer.BaseURL == "" {
		c.Diarizer.BaseURL = "http://localhost:8388"
	}
	if c.Diarizer.Timeout == 0 {
		c.Diarizer.Timeout = Duration(5 * time.Minute)
	}

	if c.Refine.Provider == "" {
		c.Refine.Provider = "openai"
	}
	switch c.Refine.Provider {
	case "openai", "gemini":
	default:
		return &ConfigurationError{Setting: "refine.provider", Reason: fmt.Sprintf("unknown provider %q", c.Refine.Provider)}
	}
	if c.Refine.RefineModel == "" {
		c.Refine.RefineModel = "gpt-4.1-mini"
	}
	if c.Refine.SummaryModel == "" {
		c.Refine.SummaryModel = "gpt-4o"
	}
	if c.Refine.FilenameModel == "" {
		c.Refine.FilenameModel = "gpt-4.1-mini"
	}
	if c.Refine.GeminiModel == "" {
		c.Refine.GeminiModel = "gemini-2.5-flash"
	}

	if len(c.Batch.Extensions) == 0 {
		c.Batch.Extensions = []string{".mov", ".mp4"}
	}
	for i, ext := range c.Batch.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Batch.Extensions[i] = "." + ext
		}
	}
	if c.Batch.FileTimeout == 0 {
		c.Batch.FileTimeout = Duration(12 * time.Hour)
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 1
	}
	if c.Batch.PipelineCommand == "" {
		c.Batch.PipelineCommand = "transcribe"
	}
	if c.Batch.LogFile == "" {
		c.Batch.LogFile = "batch_transcribe.log"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}

	return nil
}

// RequireHFToken fails unless the diarization credential is present.
func (c *Config) RequireHFToken() error {
	if c.Credentials.HFToken == "" {
		return &ConfigurationError{Setting: "HF_TOKEN", Reason: "not set; check your environment or .env file"}
	}
	return nil
}

// RequireLLMKey fails unless the configured refinement provider has a key.
func (c *Config) RequireLLMKey() error {
	switch c.Refine.Provider {
	case "gemini":
		if len(c.Credentials.GeminiKeys) == 0 {
			return &ConfigurationError{Setting: "GEMINI_API_KEY", Reason: "not set; check your environment or .env file"}
		}
	default:
		if c.Credentials.OpenAIKey == "" {
			return &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "not set; check your environment or .env file"}
		}
	}
	return nil
}
