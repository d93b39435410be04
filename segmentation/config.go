package segmentation

import "fmt"

// Strategy names.
const (
	StrategyAdaptive = "adaptive"
	StrategySpectral = "spectral"
)

// Similarity threshold methods for the adaptive strategy.
const (
	MethodStd        = "std"
	MethodPercentile = "percentile"
)

// Config controls boundary detection and labeling.
type Config struct {
	Strategy         string
	SimilarityMethod string
	StdFactor        float64
	MinSize          int
	Percentile       float64
	TopN             int

	// spectral strategy
	Clusters        int
	SpectralMinSize int
	MaxFeatures     int
	Seed            int64
}

func DefaultConfig() Config {
	return Config{
		Strategy:         StrategyAdaptive,
		SimilarityMethod: MethodStd,
		StdFactor:        1.0,
		MinSize:          2,
		Percentile:       20,
		TopN:             1,
		Clusters:         3,
		SpectralMinSize:  1,
		MaxFeatures:      5000,
		Seed:             42,
	}
}

// Validate reports configuration mistakes. They are never retried.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyAdaptive, StrategySpectral:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy)
	}
	switch c.SimilarityMethod {
	case MethodStd, MethodPercentile:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, c.SimilarityMethod)
	}
	if c.Percentile < 0 || c.Percentile > 100 {
		return fmt.Errorf("%w: percentile %v not in [0,100]", ErrInvalidConfig, c.Percentile)
	}
	if c.MinSize < 1 || c.SpectralMinSize < 1 {
		return fmt.Errorf("%w: min_size must be >= 1", ErrInvalidConfig)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top_n must be >= 1", ErrInvalidConfig)
	}
	if c.Clusters < 1 {
		return fmt.Errorf("%w: clusters must be >= 1", ErrInvalidConfig)
	}
	if c.MaxFeatures < 1 {
		return fmt.Errorf("%w: max_features must be >= 1", ErrInvalidConfig)
	}
	return nil
}
