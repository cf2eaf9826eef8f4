package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/fixture"
	"github.com/abdul-hamid-achik/inttest/packages/output"
)

// collectFiles expands args into fixture files. Directories are walked and
// contribute the files that sit directly in a directory named fixturesDir;
// file arguments are taken as given.
func collectFiles(args []string, fixturesDir string) ([]string, error) {
	var files []string
	dirName := filepath.Base(fixturesDir)

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			if fixture.IsFixtureFile(arg) {
				files = append(files, arg)
			}
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() || filepath.Base(path) != dirName {
				return nil
			}
			found, err := fixture.Files(path)
			if err != nil {
				return err
			}
			files = append(files, found...)
			return filepath.SkipDir
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// loadFiles loads each fixture and reports one result per file.
func loadFiles(files []string) ([]output.Result, time.Duration) {
	start := time.Now()
	results := make([]output.Result, 0, len(files))
	for _, file := range files {
		f, err := fixture.LoadFile(file)
		if err != nil {
			results = append(results, output.Result{File: file, Err: err})
			continue
		}
		results = append(results, output.Result{
			File:   file,
			Name:   f.Name,
			Type:   f.Type(),
			Output: f.Output,
		})
	}
	return results, time.Since(start)
}
