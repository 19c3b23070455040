package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cheerioskun/explainer/internal/filter"
	"github.com/cheerioskun/explainer/internal/ignore"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/scanner"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// filterOptions builds matcher options from configuration
func filterOptions() ignore.Options {
	return ignore.Options{
		Mode:       ignore.ParseMode(viper.GetString("filter.mode")),
		EscapeMeta: viper.GetBool("filter.escape_meta"),
	}
}

// resolveRoot turns the folder argument into an absolute directory path
func resolveRoot(fs afero.Fs, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	isDir, err := afero.IsDir(fs, absPath)
	if err != nil {
		return "", fmt.Errorf("path does not exist: %s", absPath)
	}
	if !isDir {
		return "", fmt.Errorf("path %s is not a directory", absPath)
	}
	return absPath, nil
}

// runPass scans root and filters it with the configured options
func runPass(ctx context.Context, fs afero.Fs, root string) (*models.Selection, *models.FilterResult, error) {
	ss := scanner.NewSelectionScanner(fs)
	ss.SetMaxDepth(viper.GetInt("scan.max_depth"))

	sel, err := ss.ScanSelection(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}

	result, err := filter.NewFileSetFilter(filterOptions()).FilterSelection(ctx, sel)
	if err != nil {
		return nil, nil, err
	}
	return sel, result, nil
}

// passFunc binds runPass to a folder for repeated use
func passFunc(fs afero.Fs, root string) func(ctx context.Context) (*models.Selection, *models.FilterResult, error) {
	return func(ctx context.Context) (*models.Selection, *models.FilterResult, error) {
		return runPass(ctx, fs, root)
	}
}
