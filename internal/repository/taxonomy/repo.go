// Package taxonomy loads the facet configuration the synthesizer
// samples from. A missing or unparsable file falls back to the
// built-in defaults; the failure is informational, never fatal.
package taxonomy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/raglab/morgana/internal/domain"
)

// Load reads the taxonomy JSON at path. On any failure it returns the
// default taxonomy and, if the file did not exist, writes a template
// there so the operator has something to edit for the next run.
func Load(path string, logger *zap.Logger) domain.Taxonomy {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no taxonomy file, using defaults and writing template",
				zap.String("path", path))
			if werr := WriteTemplate(path); werr != nil {
				logger.Warn("failed to write taxonomy template", zap.Error(werr))
			}
		} else {
			logger.Info("taxonomy file unreadable, using defaults",
				zap.String("path", path), zap.Error(err))
		}
		return domain.DefaultTaxonomy()
	}

	var tax domain.Taxonomy
	if err := json.Unmarshal(data, &tax); err != nil {
		logger.Info("taxonomy file unparsable, using defaults",
			zap.String("path", path), zap.Error(err))
		return domain.DefaultTaxonomy()
	}

	if len(tax.UserCategorizations) == 0 && len(tax.QuestionCategorizations) == 0 {
		logger.Info("taxonomy file defines no facets, using defaults",
			zap.String("path", path))
		return domain.DefaultTaxonomy()
	}

	if len(tax.ReferenceTokens) == 0 {
		tax.ReferenceTokens = domain.DefaultReferenceTokens
	}

	logger.Info("taxonomy loaded",
		zap.String("path", path),
		zap.Int("user_facets", len(tax.UserCategorizations)),
		zap.Int("question_facets", len(tax.QuestionCategorizations)),
	)
	return tax
}

// WriteTemplate persists the default taxonomy as an editable template.
func WriteTemplate(path string) error {
	data, err := json.MarshalIndent(domain.DefaultTaxonomy(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode taxonomy template: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write taxonomy template %s: %w", path, err)
	}
	return nil
}
