package service

import (
	"context"
	"studyplan_backend/internal/model"
	"studyplan_backend/internal/util"
)

// idBatchSize is the hard cap the backing store places on ID-set lookups.
// Larger requests must be chunked; exceeding the cap would drop results.
const idBatchSize = 30

// ContentStore is the read-only view of the content collections. Implemented
// by repository.ContentRepository; faked in tests.
type ContentStore interface {
	AllBooks(ctx context.Context) ([]model.Book, error)
	BooksByIDs(ctx context.Context, ids []string) ([]model.Book, error)
	ChaptersByBook(ctx context.Context, bookID string) ([]model.Chapter, error)
	ChaptersByIDs(ctx context.Context, ids []string) ([]model.Chapter, error)
	SubchaptersByChapter(ctx context.Context, chapterID string) ([]model.Subchapter, error)
	SubchaptersByIDs(ctx context.Context, ids []string) ([]model.Subchapter, error)
}

type ContentService struct {
	Content ContentStore
}

func NewContentService(content ContentStore) *ContentService {
	return &ContentService{Content: content}
}

// fetchChunked splits an ID-set lookup into batches of at most idBatchSize,
// merges the results keyed by ID, and drops duplicates. IDs that do not
// exist are silently omitted.
func fetchChunked[T any](ids []string, fetch func([]string) ([]T, error), keyOf func(T) string) ([]T, error) {
	seen := make(map[string]bool, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	var out []T
	got := make(map[string]bool, len(unique))
	for start := 0; start < len(unique); start += idBatchSize {
		end := start + idBatchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch, err := fetch(unique[start:end])
		if err != nil {
			return nil, err
		}
		for _, item := range batch {
			if key := keyOf(item); !got[key] {
				got[key] = true
				out = append(out, item)
			}
		}
	}
	return out, nil
}

// FetchTree loads books, chapters and subchapters into an ordered tree. At
// each level an explicit ID set restricts the fetch to exactly those IDs;
// otherwise all children of the parent are loaded. Every level is sorted by
// numeric section name.
func (s *ContentService) FetchTree(ctx context.Context, bookIDs, chapterIDs, subChapterIDs []string) ([]model.BookNode, error) {
	var books []model.Book
	var err error
	if len(bookIDs) > 0 {
		books, err = fetchChunked(bookIDs,
			func(ids []string) ([]model.Book, error) { return s.Content.BooksByIDs(ctx, ids) },
			func(b model.Book) string { return b.ID })
	} else {
		books, err = s.Content.AllBooks(ctx)
	}
	if err != nil {
		return nil, err
	}

	util.SortBySectionName(books, func(b model.Book) string { return b.Name })

	bookSet := make(map[string]bool, len(books))
	for _, b := range books {
		bookSet[b.ID] = true
	}

	chaptersByBook := make(map[string][]model.Chapter)
	if len(chapterIDs) > 0 {
		chapters, err := fetchChunked(chapterIDs,
			func(ids []string) ([]model.Chapter, error) { return s.Content.ChaptersByIDs(ctx, ids) },
			func(c model.Chapter) string { return c.ID })
		if err != nil {
			return nil, err
		}
		for _, ch := range chapters {
			if bookSet[ch.BookID] {
				chaptersByBook[ch.BookID] = append(chaptersByBook[ch.BookID], ch)
			}
		}
	} else {
		for _, b := range books {
			chapters, err := s.Content.ChaptersByBook(ctx, b.ID)
			if err != nil {
				return nil, err
			}
			chaptersByBook[b.ID] = chapters
		}
	}

	chapterSet := make(map[string]bool)
	for _, chapters := range chaptersByBook {
		for _, ch := range chapters {
			chapterSet[ch.ID] = true
		}
	}

	subsByChapter := make(map[string][]model.Subchapter)
	if len(subChapterIDs) > 0 {
		subs, err := fetchChunked(subChapterIDs,
			func(ids []string) ([]model.Subchapter, error) { return s.Content.SubchaptersByIDs(ctx, ids) },
			func(sc model.Subchapter) string { return sc.ID })
		if err != nil {
			return nil, err
		}
		for _, sc := range subs {
			if chapterSet[sc.ChapterID] {
				subsByChapter[sc.ChapterID] = append(subsByChapter[sc.ChapterID], sc)
			}
		}
	} else {
		for chID := range chapterSet {
			subs, err := s.Content.SubchaptersByChapter(ctx, chID)
			if err != nil {
				return nil, err
			}
			subsByChapter[chID] = subs
		}
	}

	tree := make([]model.BookNode, 0, len(books))
	for _, b := range books {
		chapters := chaptersByBook[b.ID]
		util.SortBySectionName(chapters, func(c model.Chapter) string { return c.Name })

		chapterNodes := make([]model.ChapterNode, 0, len(chapters))
		for _, ch := range chapters {
			subs := subsByChapter[ch.ID]
			util.SortBySectionName(subs, func(sc model.Subchapter) string { return sc.Name })
			chapterNodes = append(chapterNodes, model.ChapterNode{
				Chapter:     ch,
				Subchapters: subs,
			})
		}
		tree = append(tree, model.BookNode{
			Book:     b,
			Chapters: chapterNodes,
		})
	}
	return tree, nil
}

// ListBooks returns all books sorted by section name.
func (s *ContentService) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := s.Content.AllBooks(ctx)
	if err != nil {
		return nil, err
	}
	util.SortBySectionName(books, func(b model.Book) string { return b.Name })
	return books, nil
}
