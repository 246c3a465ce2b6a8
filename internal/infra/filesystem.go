package infra

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// EnsureDir expands ~ in path and creates the directory tree.
func EnsureDir(path ...string) (string, error) {
	dir, err := homedir.Expand(filepath.Join(path...))
	if err != nil {
		return "", errors.Wrap(err, "expand path")
	}
	if err = os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "create dir")
	}
	return dir, nil
}

func GetResourcesDir(path ...string) string {
	return filepath.ToSlash(filepath.Join(path...))
}
