package utils

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutputJSON prints data to stdout as indented JSON
func OutputJSON(data interface{}) error {
	jsonData, err := MarshalJSON(data)
	if err != nil {
		return err
	}
	fmt.Println(string(jsonData))
	return nil
}

// OutputYAML prints data to stdout as YAML
func OutputYAML(data interface{}) error {
	yamlData, err := MarshalYAML(data)
	if err != nil {
		return err
	}
	fmt.Print(string(yamlData))
	return nil
}

// MarshalJSON renders data as two-space indented JSON
func MarshalJSON(data interface{}) ([]byte, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return jsonData, nil
}

// MarshalYAML renders data as YAML
func MarshalYAML(data interface{}) ([]byte, error) {
	yamlData, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return yamlData, nil
}
