package gamification

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadTemplates reads the achievement table from a JSON file. The file is
// the source of truth for names, descriptions and point values; it is loaded
// once at startup and treated as constant afterwards.
func LoadTemplates(path string) ([]AchievementTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read achievements file: %w", err)
	}
	var templates []AchievementTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("parse achievements file: %w", err)
	}
	seen := make(map[string]bool, len(templates))
	for _, t := range templates {
		if t.Type == "" {
			return nil, fmt.Errorf("achievement template with empty type")
		}
		if seen[t.Type] {
			return nil, fmt.Errorf("duplicate achievement type %q", t.Type)
		}
		seen[t.Type] = true
	}
	return templates, nil
}
