package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalScene serializes a Scene to pretty-printed JSON bytes.
func MarshalScene(s Scene) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalScene deserializes JSON bytes into a Scene.
func UnmarshalScene(data []byte) (Scene, error) {
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("unmarshal scene: %w", err)
	}
	return s, nil
}

// ReadSceneFile reads a scene from a JSON or YAML file, chosen by extension.
// The scene is normalized (IDs generated, anchors sorted) before returning.
func ReadSceneFile(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("read %s: %w", path, err)
	}

	var s Scene
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Scene{}, fmt.Errorf("parse yaml scene %s: %w", path, err)
		}
	default:
		s, err = UnmarshalScene(data)
		if err != nil {
			return Scene{}, fmt.Errorf("parse json scene %s: %w", path, err)
		}
	}

	s.Normalize()
	return s, nil
}

// WriteSceneFile writes a Scene to a JSON file.
func WriteSceneFile(s Scene, path string) error {
	data, err := MarshalScene(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
