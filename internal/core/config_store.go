package core

import (
	"fmt"
	"path/filepath"

	"github.com/EmundoT/git-assess/internal/plugin"
	"github.com/EmundoT/git-assess/internal/types"
)

// ConfigName is the configuration file written by `git-assess init`.
const ConfigName = "git-assess.yml"

// Indicator identifiers of the built-in configuration.
const (
	IndicatorIDLicense  = "https://w3id.org/everse/i/indicators/license"
	IndicatorIDCitation = "https://w3id.org/everse/i/indicators/citation"
	IndicatorIDMissing  = "missing"
)

// DefaultConfig returns the indicator list used when no configuration file is given.
func DefaultConfig() types.AssessmentConfig {
	return types.AssessmentConfig{Indicators: []types.IndicatorSpec{
		{Name: "has_license", Plugin: plugin.IDHowFairIs, ID: IndicatorIDLicense},
		{Name: "has_citation", Plugin: plugin.IDCFFConvert, ID: IndicatorIDCitation},
		{Name: "has_ci_tests", Plugin: plugin.IDOpenSSFScorecard, ID: IndicatorIDMissing},
		{Name: "human_code_review_requirement", Plugin: plugin.IDOpenSSFScorecard, ID: IndicatorIDMissing},
		{Name: "has_published_package", Plugin: plugin.IDOpenSSFScorecard, ID: IndicatorIDMissing},
		{Name: "has_no_security_leak", Plugin: plugin.IDGitleaks, ID: IndicatorIDMissing},
	}}
}

// ConfigStore handles assessment configuration I/O
type ConfigStore interface {
	Load() (types.AssessmentConfig, error)
	Save(config types.AssessmentConfig) error
	Path() string
}

// FileConfigStore implements ConfigStore for a .yml, .yaml or .json file
type FileConfigStore struct {
	store *YAMLStore[types.AssessmentConfig]
}

// NewFileConfigStore creates a store for the configuration file at path
func NewFileConfigStore(path string) *FileConfigStore {
	return &FileConfigStore{
		store: NewYAMLStore[types.AssessmentConfig](filepath.Dir(path), filepath.Base(path), false),
	}
}

// Path returns the config file path
func (s *FileConfigStore) Path() string {
	return s.store.Path()
}

// Load reads the configuration and rejects files without indicators
func (s *FileConfigStore) Load() (types.AssessmentConfig, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return types.AssessmentConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(cfg.Indicators) == 0 {
		return types.AssessmentConfig{}, fmt.Errorf("%w: %s lists no indicators", ErrInvalidConfig, s.Path())
	}
	return cfg, nil
}

// Save writes the configuration
func (s *FileConfigStore) Save(cfg types.AssessmentConfig) error {
	return s.store.Save(cfg)
}

// LoadConfig loads the configuration at path, or DefaultConfig when path is empty.
func LoadConfig(path string) (types.AssessmentConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	return NewFileConfigStore(path).Load()
}
