package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/vidrank/internal/catalog"
)

type bleveEngine struct {
	idx bleve.Index

	mu     sync.RWMutex
	videos map[string]catalog.Video
}

// NewBleveEngine creates or opens a Bleve index at indexPath. Pass an
// empty path for a memory-only index that lives as long as the
// process.
func NewBleveEngine(indexPath string) (Searcher, error) {
	var idx bleve.Index
	var err error

	if indexPath == "" {
		idx, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, err
		}
	} else {
		if mkErr := os.MkdirAll(filepath.Dir(indexPath), 0o755); mkErr != nil {
			// continue; Open/Create below will still error and be returned
			_ = mkErr
		}

		// Try open first
		idx, err = bleve.Open(indexPath)
		if err != nil {
			idx, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, err
			}
		}
	}

	return &bleveEngine{idx: idx, videos: map[string]catalog.Video{}}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	title := bleve.NewTextFieldMapping()
	title.Analyzer = standard.Name
	title.Store = true
	title.IncludeTermVectors = true
	title.DocValues = true

	videoID := bleve.NewTextFieldMapping()
	videoID.Analyzer = standard.Name
	videoID.Store = true

	kind := bleve.NewTextFieldMapping()
	kind.Analyzer = standard.Name
	kind.Store = true

	dm.AddFieldMappingsAt("title", title)
	dm.AddFieldMappingsAt("video_id", videoID)
	dm.AddFieldMappingsAt("kind", kind)

	im.DefaultMapping = dm
	return im
}

// IndexCatalog replaces the indexed catalog: videos that fell out of
// the feed since the previous refresh are deleted, the rest is
// reindexed in one batch.
func (b *bleveEngine) IndexCatalog(videos []catalog.Video) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := make(map[string]catalog.Video, len(videos))
	batch := b.idx.NewBatch()

	for _, v := range videos {
		current[v.ID] = v
		kind := "video"
		if v.IsShort {
			kind = "short"
		}
		if err := batch.Index(docIDForVideo(v.ID), map[string]any{
			"title":    v.Title,
			"video_id": v.ID,
			"kind":     kind,
		}); err != nil {
			return fmt.Errorf("indexing %s: %w", v.ID, err)
		}
	}
	for id := range b.videos {
		if _, ok := current[id]; !ok {
			batch.Delete(docIDForVideo(id))
		}
	}

	if err := b.idx.Batch(batch); err != nil {
		return err
	}
	b.videos = current
	return nil
}

func (b *bleveEngine) Search(query string, limit int) ([]*Result, error) {
	if len(strings.TrimSpace(query)) < 2 {
		return []*Result{}, nil
	}
	// Tokenize input and build an OR of per-term matches with boosts
	tokens := tokenize(query)
	var qs []bleveQuery.Query
	for _, tok := range tokens {
		// title^4
		qt := bleve.NewMatchQuery(tok)
		qt.SetField("title")
		qt.SetBoost(4.0)
		qs = append(qs, qt)
		qtp := bleve.NewPrefixQuery(strings.ToLower(tok))
		qtp.SetField("title")
		qtp.SetBoost(3.5)
		qs = append(qs, qtp)
		// kind^1 lets "short"/"video" narrow results
		qk := bleve.NewMatchQuery(tok)
		qk.SetField("kind")
		qk.SetBoost(1.0)
		qs = append(qs, qk)
	}
	if len(qs) == 0 {
		return []*Result{}, nil
	}
	q := bleve.NewDisjunctionQuery(qs...)
	srch := bleve.NewSearchRequestOptions(q, limit, 0, false)
	srch.Fields = []string{"video_id"}
	res, err := b.idx.Search(srch)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*Result, 0, len(res.Hits))
	for _, h := range res.Hits {
		id := strings.TrimPrefix(h.ID, "video:")
		v, ok := b.videos[id]
		if !ok {
			continue
		}
		out = append(out, &Result{Video: v, Score: h.Score})
	}
	return out, nil
}

// DocCount reports total documents in the index.
func (b *bleveEngine) DocCount() (int, error) {
	q := bleve.NewMatchAllQuery()
	req := bleve.NewSearchRequestOptions(q, 0, 0, false)
	res, err := b.idx.Search(req)
	if err != nil {
		return 0, err
	}
	return int(res.Total), nil
}

func docIDForVideo(id string) string { return "video:" + id }
