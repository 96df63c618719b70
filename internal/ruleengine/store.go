package ruleengine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/a1e5ya/smart-finance-planner/internal/logging"
	"github.com/a1e5ya/smart-finance-planner/internal/models"
)

// RuleStore loads and saves the YAML rule file that backs the engine.
type RuleStore struct {
	RulesFile string
	logger    logging.Logger
}

// ruleFile is the on-disk document shape.
type ruleFile struct {
	Rules []models.CategoryRule `yaml:"rules"`
}

// NewRuleStore creates a store for the given rules file path.
func NewRuleStore(rulesFile string, logger logging.Logger) *RuleStore {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &RuleStore{RulesFile: rulesFile, logger: logger}
}

// FindRulesFile resolves the configured path against the standard
// locations: the path as given, ./config/, and the user config
// directory.
func (s *RuleStore) FindRulesFile() (string, error) {
	if filepath.IsAbs(s.RulesFile) {
		if _, err := os.Stat(s.RulesFile); err == nil {
			return s.RulesFile, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		s.RulesFile,
		filepath.Join("config", s.RulesFile),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "smart-finance-planner", s.RulesFile))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules reads every rule from the rules file. A missing file is not
// an error; it returns an empty slice so imports run uncategorized.
func (s *RuleStore) LoadRules() ([]models.CategoryRule, error) {
	path, err := s.FindRulesFile()
	if err != nil {
		s.logger.WithField(logging.FieldFile, s.RulesFile).Info("No rules file found, categorization disabled for this run")
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", path, err)
	}

	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file '%s': %w", path, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Rules)},
	).Debug("Loaded categorization rules")
	return doc.Rules, nil
}

// candidateFile is the on-disk document shape for category candidates.
type candidateFile struct {
	Categories []models.CategoryCandidate `yaml:"categories"`
}

// LoadCandidates reads a flat category name-to-identifier list from a
// YAML file.
func LoadCandidates(path string, logger logging.Logger) ([]models.CategoryCandidate, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file '%s': %w", path, err)
	}

	var doc candidateFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse categories file '%s': %w", path, err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(doc.Categories)},
	).Debug("Loaded category candidates")
	return doc.Categories, nil
}

// SaveRules writes the full rule set back to the rules file, creating
// parent directories as needed.
func (s *RuleStore) SaveRules(rules []models.CategoryRule) error {
	data, err := yaml.Marshal(ruleFile{Rules: rules})
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	dir := filepath.Dir(s.RulesFile)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create rules directory '%s': %w", dir, err)
		}
	}

	if err := os.WriteFile(s.RulesFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write rules file '%s': %w", s.RulesFile, err)
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: s.RulesFile},
		logging.Field{Key: logging.FieldCount, Value: len(rules)},
	).Info("Saved categorization rules")
	return nil
}
