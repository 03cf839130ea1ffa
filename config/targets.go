package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"starpets-hunter/models"
)

// targetsFile mirrors the on-disk JSON document:
//
//	{"alerts": [{"pet_name": "Shadow Dragon", "target_price": 5.0}, ...]}
//
// target_price is a pointer so that a missing field can be told apart
// from an explicit zero.
type targetsFile struct {
	Alerts []struct {
		PetName     string   `json:"pet_name"`
		TargetPrice *float64 `json:"target_price"`
	} `json:"alerts"`
}

// LoadTargets reads the hunt list from the given JSON file. Entries with a
// blank name (after trimming), a missing price, or a negative price are
// skipped. A missing file yields an empty list, not an error — the caller
// treats an empty hunt list as an informational no-op.
func LoadTargets(path string) ([]models.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("targets: read %q: %w", path, err)
	}

	var doc targetsFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("targets: parse %q: %w", path, err)
	}

	targets := make([]models.Target, 0, len(doc.Alerts))
	for _, a := range doc.Alerts {
		name := strings.TrimSpace(a.PetName)
		if name == "" {
			continue
		}
		if a.TargetPrice == nil || *a.TargetPrice < 0 {
			continue
		}
		targets = append(targets, models.Target{Name: name, MaxPrice: *a.TargetPrice})
	}
	return targets, nil
}
