package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/fuchigta/mdsticker/internal/note"
)

// Index wraps a Bleve search index over live note content
type Index struct {
	index bleve.Index
}

// IndexedNote represents a note in the search index
type IndexedNote struct {
	ID      string
	Title   string
	Content string
	Color   string
}

// Result represents a search hit
type Result struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Color     string              `json:"color"`
	Score     float64             `json:"score"`
	Fragments map[string][]string `json:"fragments,omitempty"` // Highlighted snippets
}

// Lister supplies the notes to rebuild the index from
type Lister interface {
	ListLive(ctx context.Context) ([]note.Note, error)
}

// Open opens or creates a Bleve index
func Open(path string) (*Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}

	return &Index{index: idx}, nil
}

// OpenInMemory creates an index that is never written to disk
func OpenInMemory() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping indexes title and content as English text and keeps the
// color as a stored keyword for display
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "en"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("Title", textFieldMapping)
	docMapping.AddFieldMappingsAt("Content", textFieldMapping)
	docMapping.AddFieldMappingsAt("Color", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	// Unqualified queries search _all, which must be analyzed like the fields.
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

// Close closes the index
func (i *Index) Close() error {
	return i.index.Close()
}

func toIndexed(n note.Note) *IndexedNote {
	return &IndexedNote{
		ID:      n.ID,
		Title:   n.Title(),
		Content: n.Content,
		Color:   n.Color,
	}
}

// IndexNote adds or updates a note in the index
func (i *Index) IndexNote(n note.Note) error {
	return i.index.Index(n.ID, toIndexed(n))
}

// Delete removes a note from the index
func (i *Index) Delete(id string) error {
	return i.index.Delete(id)
}

// Search performs a query string search (quotes, +/-, fuzzy ~) with
// highlighted content fragments
func (i *Index) Search(queryStr string, limit int) ([]*Result, error) {
	query := bleve.NewQueryStringQuery(queryStr)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("Content")
	req.Fields = []string{"Title", "Color"}

	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]*Result, 0, len(results.Hits))
	for _, hit := range results.Hits {
		result := &Result{
			ID:        hit.ID,
			Score:     hit.Score,
			Fragments: hit.Fragments,
		}
		if title, ok := hit.Fields["Title"].(string); ok {
			result.Title = title
		}
		if color, ok := hit.Fields["Color"].(string); ok {
			result.Color = color
		}
		hits = append(hits, result)
	}

	return hits, nil
}

// Rebuild replaces the index content with every live note from the lister.
// progressFn, if not nil, is called after each note is batched.
func (i *Index) Rebuild(ctx context.Context, lister Lister, progressFn func(current, total int)) error {
	notes, err := lister.ListLive(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	live := make(map[string]bool, len(notes))
	batch := i.index.NewBatch()
	for n, nt := range notes {
		live[nt.ID] = true
		if err := batch.Index(nt.ID, toIndexed(nt)); err != nil {
			return fmt.Errorf("batch index %s: %w", nt.ID, err)
		}
		if progressFn != nil {
			progressFn(n+1, len(notes))
		}
	}

	// Drop entries for notes that were archived or erased while the index
	// was not being updated.
	stale, err := i.staleIDs(live)
	if err != nil {
		return err
	}
	for _, id := range stale {
		batch.Delete(id)
	}

	if err := i.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	return nil
}

func (i *Index) staleIDs(live map[string]bool) ([]string, error) {
	count, err := i.index.DocCount()
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), int(count), 0, false)
	results, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("list indexed documents: %w", err)
	}

	var stale []string
	for _, hit := range results.Hits {
		if !live[hit.ID] {
			stale = append(stale, hit.ID)
		}
	}
	return stale, nil
}

// Count returns the number of notes in the index
func (i *Index) Count() (uint64, error) {
	return i.index.DocCount()
}
