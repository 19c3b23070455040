package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/afero"
)

// selfReferences are paths that identify the explainer project itself
var selfReferences = []string{"explainer/app.py"}

// SelectionScanner enumerates every file beneath a chosen root folder
type SelectionScanner struct {
	fs       afero.Fs
	maxDepth int
}

// NewSelectionScanner creates a new SelectionScanner with the given filesystem
func NewSelectionScanner(fs afero.Fs) *SelectionScanner {
	return &SelectionScanner{
		fs:       fs,
		maxDepth: 10, // Default max depth
	}
}

// SetMaxDepth sets the maximum scanning depth
func (ss *SelectionScanner) SetMaxDepth(depth int) {
	ss.maxDepth = depth
}

// ScanSelection scans a directory and returns a Selection with all discovered files
func (ss *SelectionScanner) ScanSelection(root string) (*models.Selection, error) {
	// Verify path exists and is a directory
	info, err := ss.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access path %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", root)
	}

	sel := models.NewSelection(root, ss.fs)

	// Recursively scan the directory
	err = ss.scanDirectory(root, "", 0, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to scan selection: %w", err)
	}

	sel.Metadata.ScanDepth = ss.maxDepth
	return sel, nil
}

// scanDirectory recursively scans a directory and adds files to the selection
func (ss *SelectionScanner) scanDirectory(root, relativePath string, depth int, sel *models.Selection) error {
	if depth > ss.maxDepth {
		return nil // Skip if max depth exceeded
	}

	currentPath := filepath.Join(root, filepath.FromSlash(relativePath))

	entries, err := afero.ReadDir(ss.fs, currentPath)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", currentPath, err)
	}

	for _, entry := range entries {
		entryRelPath := path.Join(relativePath, entry.Name())

		if entry.IsDir() {
			// Log warning but continue scanning
			if err := ss.scanDirectory(root, entryRelPath, depth+1, sel); err != nil {
				utils.Warning("Failed to scan directory %s: %v", entryRelPath, err)
			}
			continue
		}

		if isSelfReference(entryRelPath) {
			utils.Debug("Skipping self-reference %s", entryRelPath)
			sel.Metadata.SkippedCount++
			continue
		}

		sel.AddFile(newFileEntry(entryRelPath, entry))
	}

	return nil
}

// newFileEntry builds the FileEntry for a regular file
func newFileEntry(relativePath string, info os.FileInfo) models.FileEntry {
	return models.FileEntry{
		Path:          relativePath,
		Size:          info.Size(),
		IsPatternFile: models.IsPatternFile(relativePath),
		LastModified:  info.ModTime(),
	}
}

// NormalizePath converts a picker-supplied path into a RelativePath
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.TrimLeft(p, "/")
}

func isSelfReference(rel string) bool {
	rel = NormalizePath(rel)
	for _, ref := range selfReferences {
		if strings.Contains(rel, ref) {
			return true
		}
	}
	return false
}

// QuickScan counts the files directly under root without descending
func (ss *SelectionScanner) QuickScan(root string) (*models.SelectionMetadata, error) {
	info, err := ss.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access path %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", root)
	}

	metadata := &models.SelectionMetadata{
		ScanDepth: 1, // Quick scan only goes 1 level deep
	}

	entries, err := afero.ReadDir(ss.fs, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			metadata.TotalFileCount++
			if entry.Name() == models.PatternFileName {
				metadata.PatternFileCount++
			}
		}
	}

	return metadata, nil
}
