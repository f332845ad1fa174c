package storage

import (
	"context"
	"os"
)

type FileMenuState struct {
	FilePath string
}

func NewFileMenuState(filePath string) *FileMenuState {
	return &FileMenuState{FilePath: filePath}
}

func (f *FileMenuState) Load(ctx context.Context) ([]byte, error) {
	return os.ReadFile(f.FilePath)
}
