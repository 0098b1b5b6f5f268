package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// One feed subscription from the seed file.
type FeedSeed struct {
	Url  string `yaml:"url"`
	Name string `yaml:"name"`
}

// Load the YAML list of feed subscriptions to upsert at startup.
func LoadFeedsFile(path string) ([]FeedSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadFeedsFile: %w", err)
	}
	seeds := make([]FeedSeed, 0)
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("LoadFeedsFile: %w", err)
	}
	for i, seed := range seeds {
		if seed.Url == "" {
			return nil, fmt.Errorf("LoadFeedsFile: entry %d has no url", i)
		}
	}
	return seeds, nil
}
