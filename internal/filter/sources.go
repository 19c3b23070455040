package filter

import (
	"context"
	"fmt"
	"strings"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentReads bounds the number of pattern files read at once
const maxConcurrentReads = 8

// LoadPatternSources reads every pattern file in the selection concurrently
// and returns their contents in discovery order. It returns only after all
// reads have finished. An unreadable file contributes an empty block.
func LoadPatternSources(ctx context.Context, sel *models.Selection) ([]string, error) {
	files := sel.PatternFiles()
	sources := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			content, err := afero.ReadFile(sel.GetFilesystem(), sel.GetAbsolutePath(file.Path))
			if err != nil {
				utils.Warning("Skipping unreadable pattern file %s: %v", file.Path, err)
				return nil
			}

			sources[i] = strings.ToValidUTF8(string(content), "")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load pattern files: %w", err)
	}

	return sources, nil
}

// FilterSelection loads the selection's pattern files and filters its paths
func (f *FileSetFilter) FilterSelection(ctx context.Context, sel *models.Selection) (*models.FilterResult, error) {
	if sel == nil {
		return nil, fmt.Errorf("invalid selection")
	}

	sources, err := LoadPatternSources(ctx, sel)
	if err != nil {
		return nil, err
	}

	result := f.Filter(sel.Paths(), sources)
	utils.Debug("Filtered %s: %d patterns, %d/%d retained",
		sel.Path, len(result.Patterns), len(result.Retained), result.Total)

	return result, nil
}
