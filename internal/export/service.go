package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/afero"
)

// Service copies retained files with directory structure preservation
type Service struct {
	fs afero.Fs
}

// NewService creates a new export service writing to fs
func NewService(fs afero.Fs) *Service {
	return &Service{
		fs: fs,
	}
}

// ExportOptions contains configuration for export operations
type ExportOptions struct {
	DestinationPath string
	Overwrite       bool
}

// ExportSummary contains information about the export operation
type ExportSummary struct {
	FileCount       int
	TotalSize       int64
	SourcePath      string
	DestinationPath string
}

// GetExportSummary calculates what would be exported without actually exporting
func (s *Service) GetExportSummary(sel *models.Selection, result *models.FilterResult, destPath string) (*ExportSummary, error) {
	if sel == nil || result == nil {
		return nil, fmt.Errorf("invalid selection")
	}

	return &ExportSummary{
		FileCount:       len(result.Retained),
		TotalSize:       sel.SizeOf(result.Retained),
		SourcePath:      sel.Path,
		DestinationPath: destPath,
	}, nil
}

// Export copies every retained file of the selection to the destination
func (s *Service) Export(sel *models.Selection, result *models.FilterResult, opts ExportOptions) (*ExportSummary, error) {
	summary, err := s.GetExportSummary(sel, result, opts.DestinationPath)
	if err != nil {
		return nil, err
	}

	// Create destination directory if it doesn't exist
	if err := s.fs.MkdirAll(opts.DestinationPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory: %w", err)
	}

	for _, rel := range result.Retained {
		if err := s.exportFile(sel, rel, opts); err != nil {
			return nil, fmt.Errorf("failed to export file %s: %w", rel, err)
		}
	}

	return summary, nil
}

// exportFile copies a single file preserving directory structure
func (s *Service) exportFile(sel *models.Selection, rel string, opts ExportOptions) error {
	destPath := filepath.Join(opts.DestinationPath, filepath.FromSlash(rel))

	// Create destination directory
	destDir := filepath.Dir(destPath)
	if err := s.fs.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	// Check if destination exists and handle overwrite
	if !opts.Overwrite {
		if exists, err := afero.Exists(s.fs, destPath); err != nil {
			return fmt.Errorf("failed to check if destination exists: %w", err)
		} else if exists {
			return fmt.Errorf("destination file exists and overwrite is disabled: %s", destPath)
		}
	}

	if err := s.copyFile(sel, rel, destPath); err != nil {
		return fmt.Errorf("failed to copy file: %w", err)
	}

	return nil
}

// copyFile copies a file from the selection to destination, preserving attributes
func (s *Service) copyFile(sel *models.Selection, rel, destPath string) error {
	srcFile, err := sel.Open(rel)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer srcFile.Close()

	// Get source file info for permissions and timestamps
	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to get source file info: %w", err)
	}

	destFile, err := s.fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := s.fs.Chmod(destPath, srcInfo.Mode()); err != nil {
		utils.Warning("Could not preserve permissions on %s: %v", destPath, err)
	}

	if err := s.fs.Chtimes(destPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		utils.Warning("Could not preserve timestamps on %s: %v", destPath, err)
	}

	return nil
}

// GetDefaultExportPath generates a default export path based on current working directory
func GetDefaultExportPath(selectionPath string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	baseName := filepath.Base(selectionPath)

	// Handle case where the selection is the filesystem root
	if baseName == "/" || baseName == "." {
		baseName = "selection"
	}

	return filepath.Join(cwd, baseName+"_filtered"), nil
}

// ValidateExportPath performs basic validation on the export path
func ValidateExportPath(fs afero.Fs, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		path = absPath
	}

	parentDir := filepath.Dir(path)
	if exists, err := afero.DirExists(fs, parentDir); err != nil || !exists {
		return fmt.Errorf("parent directory does not exist: %s", parentDir)
	}

	return nil
}
