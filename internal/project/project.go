// Package project provides project file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pcb-editor/internal/board"
)

// FormatVersion is the current project file format.
const FormatVersion = 1

// Extension is the file extension of project files.
const Extension = ".pcbproj"

// File represents a PCB editor project file (.pcbproj).
type File struct {
	Version     int          `json:"version"`
	Name        string       `json:"name"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
	Description string       `json:"description,omitempty"`
	Board       *board.Board `json:"board"`
}

// New creates a new project holding an empty board.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  FormatVersion,
		Name:     name,
		Created:  now,
		Modified: now,
		Board:    board.New(name),
	}
}

// Load loads a project from a .pcbproj file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if proj.Version > FormatVersion {
		return nil, fmt.Errorf("%s: unsupported project version %d", path, proj.Version)
	}
	if proj.Board == nil {
		proj.Board = board.New(proj.Name)
	}
	proj.Board.Init()
	proj.Board.Library.Sort()

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
