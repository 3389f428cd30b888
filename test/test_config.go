//nolint:gochecknoinits,dogsled
package test

import (
	"os"
	"path"
	"runtime"
)

// ProjectRootPath - absolute path of the module root, derived from this file location.
func ProjectRootPath() string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Join(path.Dir(filename), "..")
}

// ConfigTestRootPath - go test runs with the package folder as working directory.
// This moves it to the module root so fixtures can be referenced from there.
func ConfigTestRootPath() {
	if err := os.Chdir(ProjectRootPath()); err != nil {
		panic(err)
	}
}
