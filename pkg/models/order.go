package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// orderDocument is the file form of a point order: order[old] = new.
type orderDocument struct {
	Order []int `yaml:"order,flow"`
}

// LoadPointOrder reads a point order file. The order is not validated
// against any mesh here.
func LoadPointOrder(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read point order: %w", err)
	}
	var doc orderDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse point order %s: %w", path, err)
	}
	if doc.Order == nil {
		return nil, fmt.Errorf("point order %s: missing order list", path)
	}
	return doc.Order, nil
}

// SavePointOrder writes a point order file.
func SavePointOrder(path string, order []int) error {
	data, err := yaml.Marshal(&orderDocument{Order: order})
	if err != nil {
		return fmt.Errorf("marshal point order: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write point order: %w", err)
	}
	return nil
}
