package health

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Lislejoem/social-garden/pkg/types"
)

// thresholdsFile is the YAML shape of a cadence threshold table, e.g.:
//
//	often:     { due: 168h, overdue: 336h }
//	regularly: { due: 336h, overdue: 720h }
//	seldomly:  { due: 720h, overdue: 1440h }
//	rarely:    { due: 2160h, overdue: 4320h }
//
// Durations use Go duration syntax. Cadences omitted from the file keep
// their built-in defaults.
type thresholdsFile struct {
	Often     *Threshold `yaml:"often"`
	Regularly *Threshold `yaml:"regularly"`
	Seldomly  *Threshold `yaml:"seldomly"`
	Rarely    *Threshold `yaml:"rarely"`
}

// LoadThresholds reads a cadence threshold table from a YAML file, layering
// it over the defaults. An empty path returns the default table.
func LoadThresholds(path string) (map[types.Cadence]Threshold, error) {
	thresholds := DefaultThresholds()
	if path == "" {
		return thresholds, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("health: failed to read thresholds file: %w", err)
	}

	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("health: failed to parse thresholds file: %w", err)
	}

	overrides := map[types.Cadence]*Threshold{
		types.CadenceOften:     file.Often,
		types.CadenceRegularly: file.Regularly,
		types.CadenceSeldomly:  file.Seldomly,
		types.CadenceRarely:    file.Rarely,
	}
	for cadence, override := range overrides {
		if override == nil {
			continue
		}
		if override.Due <= 0 || override.Overdue <= override.Due {
			return nil, fmt.Errorf("health: cadence %s requires 0 < due < overdue, got due=%s overdue=%s",
				cadence, override.Due, override.Overdue)
		}
		thresholds[cadence] = *override
	}

	return thresholds, nil
}

// NewEvaluatorFromFile builds an evaluator from a YAML threshold file,
// falling back to defaults for an empty path.
func NewEvaluatorFromFile(path string) (*Evaluator, error) {
	thresholds, err := LoadThresholds(path)
	if err != nil {
		return nil, err
	}
	return NewEvaluatorWithThresholds(thresholds)
}
