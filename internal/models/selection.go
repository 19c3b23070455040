package models

import (
	"path"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// PatternFileName is the name of files whose contents feed the ignore patterns
const PatternFileName = ".gitignore"

// Selection represents a user-chosen folder with every file beneath it
type Selection struct {
	Path      string            `json:"path"`       // Root directory path
	Files     []FileEntry       `json:"files"`      // All files, in discovery order
	TotalSize int64             `json:"total_size"` // Total size in bytes
	Metadata  SelectionMetadata `json:"metadata"`   // Additional metadata
	ScanTime  time.Time         `json:"scan_time"`  // When the folder was scanned
	fs        afero.Fs          // Filesystem interface for content access
}

// FileEntry contains information about a single file in the selection
type FileEntry struct {
	Path          string    `json:"path"`            // Relative path from the root, '/' separated
	Size          int64     `json:"size"`            // File size in bytes
	IsPatternFile bool      `json:"is_pattern_file"` // Named .gitignore
	LastModified  time.Time `json:"last_modified"`   // File modification time
}

// SelectionMetadata contains aggregate information about the selection
type SelectionMetadata struct {
	PatternFileCount int `json:"pattern_file_count"` // Number of .gitignore files
	TotalFileCount   int `json:"total_file_count"`   // Total number of files
	SkippedCount     int `json:"skipped_count"`      // Files dropped while scanning
	ScanDepth        int `json:"scan_depth"`         // Directory depth scanned
}

// NewSelection creates a new Selection backed by the given filesystem
func NewSelection(root string, fs afero.Fs) *Selection {
	return &Selection{
		Path:     root,
		Files:    make([]FileEntry, 0),
		ScanTime: time.Now(),
		fs:       fs,
	}
}

// IsPatternFile reports whether a relative path names an ignore pattern file
func IsPatternFile(rel string) bool {
	return path.Base(rel) == PatternFileName
}

// AddFile adds a file to the selection and updates metadata
func (s *Selection) AddFile(file FileEntry) {
	s.Files = append(s.Files, file)
	s.TotalSize += file.Size
	s.Metadata.TotalFileCount++
	if file.IsPatternFile {
		s.Metadata.PatternFileCount++
	}
}

// Paths returns the relative paths of all files in discovery order
func (s *Selection) Paths() []string {
	paths := make([]string, 0, len(s.Files))
	for _, file := range s.Files {
		paths = append(paths, file.Path)
	}
	return paths
}

// PatternFiles returns the pattern files in discovery order
func (s *Selection) PatternFiles() []FileEntry {
	var files []FileEntry
	for _, file := range s.Files {
		if file.IsPatternFile {
			files = append(files, file)
		}
	}
	return files
}

// IsEmpty returns true when nothing was selected
func (s *Selection) IsEmpty() bool {
	return len(s.Files) == 0
}

// GetFileByPath returns a file by its path, or nil if not found
func (s *Selection) GetFileByPath(rel string) *FileEntry {
	for i := range s.Files {
		if s.Files[i].Path == rel {
			return &s.Files[i]
		}
	}
	return nil
}

// SizeOf returns the total size of the given relative paths
func (s *Selection) SizeOf(paths []string) int64 {
	sizes := make(map[string]int64, len(s.Files))
	for _, file := range s.Files {
		sizes[file.Path] = file.Size
	}

	var total int64
	for _, p := range paths {
		total += sizes[p]
	}
	return total
}

// Open returns the content of a file in the selection
func (s *Selection) Open(rel string) (afero.File, error) {
	return s.fs.Open(s.GetAbsolutePath(rel))
}

// GetFilesystem returns the filesystem interface
func (s *Selection) GetFilesystem() afero.Fs {
	return s.fs
}

// GetAbsolutePath returns the absolute path for a relative file path
func (s *Selection) GetAbsolutePath(rel string) string {
	return filepath.Join(s.Path, filepath.FromSlash(rel))
}
