package storage

import (
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"dbimpact/internal/errors"
	"dbimpact/internal/graph"
)

// RowsFile is the YAML layout for a dependency rows file, used for CI and
// offline runs where no metadata store exists.
type RowsFile struct {
	Rows []graph.DependencyRow `yaml:"rows"`
}

// FileRepository serves dependency rows from a YAML file. The file is read
// on every fetch so edits between runs are picked up.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository over the given YAML rows file.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// DependencyRows implements impact.MetadataRepository.
func (f *FileRepository) DependencyRows(ctx context.Context) ([]graph.DependencyRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadRowsFile(f.path)
}

// LoadRowsFile parses a YAML dependency rows file.
func LoadRowsFile(path string) ([]graph.DependencyRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.RepoUnavailable, "reading rows file", err)
	}

	var file RowsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.StoreCorrupt, "parsing rows file", err)
	}
	return file.Rows, nil
}
