package menu

import (
	"encoding/json"
	"fmt"
	"os"
)

// Definition is the persisted shape of the tree.
type Definition struct {
	RootNodeID string  `json:"root_node_id"`
	Nodes      []*Node `json:"nodes"`
}

// Store abstracts where the menu definition lives.
type Store interface {
	Load() (*Definition, error)
	Save(def *Definition) error
}

// FileStore keeps the definition in a JSON file next to the process.
type FileStore struct {
	Path string
}

var _ Store = &FileStore{}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (*Definition, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}

	var def Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	return &def, nil
}

func (s *FileStore) Save(def *Definition) error {
	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal menu: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write menu file: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace menu file: %w", err)
	}
	return nil
}
