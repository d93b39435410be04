package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/maastricht-university/transcript-segmenter/segmentation"
)

// Oracle providers.
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
)

type Service struct {
	URL            string `mapstructure:"url" yaml:"url"`
	Provider       string `mapstructure:"provider" yaml:"provider"`
	Model          string `mapstructure:"model" yaml:"model"`
	APIKey         string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Dimension      int    `mapstructure:"dimension" yaml:"dimension,omitempty"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

type Services struct {
	ASR       Service `mapstructure:"asr" yaml:"asr"`
	NLP       Service `mapstructure:"nlp" yaml:"nlp"`
	Embedding Service `mapstructure:"embedding" yaml:"embedding"`
}

type Spectral struct {
	Clusters    int   `mapstructure:"clusters" yaml:"clusters"`
	MinSize     int   `mapstructure:"min_size" yaml:"min_size"`
	MaxFeatures int   `mapstructure:"max_features" yaml:"max_features"`
	Seed        int64 `mapstructure:"seed" yaml:"seed"`
}

type Segmentation struct {
	Strategy         string   `mapstructure:"strategy" yaml:"strategy"`
	SimilarityMethod string   `mapstructure:"similarity_method" yaml:"similarity_method"`
	StdFactor        float64  `mapstructure:"std_factor" yaml:"std_factor"`
	MinSize          int      `mapstructure:"min_size" yaml:"min_size"`
	Percentile       float64  `mapstructure:"percentile" yaml:"percentile"`
	TopN             int      `mapstructure:"top_n" yaml:"top_n"`
	Spectral         Spectral `mapstructure:"spectral" yaml:"spectral"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name" yaml:"name"`
		Version string `mapstructure:"version" yaml:"version"`
		LogLvl  string `mapstructure:"log_level" yaml:"log_level"`
	} `mapstructure:"pipeline" yaml:"pipeline"`
	Services     Services     `mapstructure:"services" yaml:"services"`
	Segmentation Segmentation `mapstructure:"segmentation" yaml:"segmentation"`
	Paths        struct {
		Data    string `mapstructure:"data" yaml:"data"`
		Outputs string `mapstructure:"outputs" yaml:"outputs"`
	} `mapstructure:"paths" yaml:"paths"`
}

func setDefaults(v *viper.Viper) {
	d := segmentation.DefaultConfig()

	v.SetDefault("pipeline.name", "transcript-segmenter")
	v.SetDefault("pipeline.version", "0.1.0")
	v.SetDefault("pipeline.log_level", "info")

	v.SetDefault("services.asr.url", "")
	v.SetDefault("services.asr.provider", ProviderHTTP)
	v.SetDefault("services.asr.model", "small")
	v.SetDefault("services.asr.timeout_seconds", 600)
	v.SetDefault("services.nlp.url", "http://localhost:8001")
	v.SetDefault("services.nlp.provider", ProviderHTTP)
	v.SetDefault("services.nlp.model", "en_core_web_trf")
	v.SetDefault("services.nlp.api_key", "")
	v.SetDefault("services.nlp.timeout_seconds", 60)
	v.SetDefault("services.embedding.url", "http://localhost:8001")
	v.SetDefault("services.embedding.provider", ProviderHTTP)
	v.SetDefault("services.embedding.model", "sentence-transformers/all-MiniLM-L6-v2")
	v.SetDefault("services.embedding.api_key", "")
	v.SetDefault("services.embedding.dimension", 0)
	v.SetDefault("services.embedding.timeout_seconds", 60)

	v.SetDefault("segmentation.strategy", d.Strategy)
	v.SetDefault("segmentation.similarity_method", d.SimilarityMethod)
	v.SetDefault("segmentation.std_factor", d.StdFactor)
	v.SetDefault("segmentation.min_size", d.MinSize)
	v.SetDefault("segmentation.percentile", d.Percentile)
	v.SetDefault("segmentation.top_n", d.TopN)
	v.SetDefault("segmentation.spectral.clusters", d.Clusters)
	v.SetDefault("segmentation.spectral.min_size", d.SpectralMinSize)
	v.SetDefault("segmentation.spectral.max_features", d.MaxFeatures)
	v.SetDefault("segmentation.spectral.seed", d.Seed)

	v.SetDefault("paths.data", "data")
	v.SetDefault("paths.outputs", "outputs")
}

// Load reads configuration from path, or when path is empty from the first
// existing candidate under config/<CONFIG_ENV>/. Every key can be overridden
// through SEGMENTER_* environment variables, e.g. SEGMENTER_SEGMENTATION_STRATEGY.
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SEGMENTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = guess()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyEnvKeys()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func guess() string {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	for _, p := range []string{
		filepath.Join("config", env, "config.yaml"),
		"config.yaml",
	} {
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

func (c *Root) applyEnvKeys() {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return
	}
	for _, s := range []*Service{&c.Services.NLP, &c.Services.Embedding} {
		if s.Provider == ProviderOpenAI && s.APIKey == "" {
			s.APIKey = key
		}
	}
}

// Validate checks providers and segmentation options.
func (c *Root) Validate() error {
	for name, s := range map[string]Service{"nlp": c.Services.NLP, "embedding": c.Services.Embedding} {
		switch s.Provider {
		case ProviderHTTP:
			if s.URL == "" {
				return fmt.Errorf("services.%s.url is required for provider %q", name, s.Provider)
			}
		case ProviderOpenAI:
		default:
			return fmt.Errorf("services.%s.provider: unknown provider %q", name, s.Provider)
		}
	}
	return c.Segmentation.Engine().Validate()
}

// Engine maps the segmentation section onto engine options.
func (s Segmentation) Engine() segmentation.Config {
	return segmentation.Config{
		Strategy:         s.Strategy,
		SimilarityMethod: s.SimilarityMethod,
		StdFactor:        s.StdFactor,
		MinSize:          s.MinSize,
		Percentile:       s.Percentile,
		TopN:             s.TopN,
		Clusters:         s.Spectral.Clusters,
		SpectralMinSize:  s.Spectral.MinSize,
		MaxFeatures:      s.Spectral.MaxFeatures,
		Seed:             s.Spectral.Seed,
	}
}

// YAML renders the configuration with API keys masked.
func (c *Root) YAML() ([]byte, error) {
	masked := *c
	for _, s := range []*Service{&masked.Services.ASR, &masked.Services.NLP, &masked.Services.Embedding} {
		if s.APIKey != "" {
			s.APIKey = "****"
		}
	}
	return yaml.Marshal(&masked)
}

// Timeout returns the request timeout for s, zero meaning the client default.
func (s Service) Timeout() time.Duration { return DurSeconds(s.TimeoutSeconds) }

func DurSeconds(n int) time.Duration { return time.Duration(n) * time.Second }

// IsConfigError reports whether err comes from segmentation option validation.
func IsConfigError(err error) bool {
	return errors.Is(err, segmentation.ErrUnknownStrategy) ||
		errors.Is(err, segmentation.ErrUnknownMethod) ||
		errors.Is(err, segmentation.ErrInvalidConfig)
}
