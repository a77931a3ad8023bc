package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"EntryFeed/internal/domain/models"
	"EntryFeed/internal/domain/repository"
	"EntryFeed/pkg/fsatomic"
)

type feedStore struct {
	feedPath string
	topPath  string
}

// NewFeedStore persists feed artifacts as JSON, replacing each file
// atomically so readers never see a partial document.
func NewFeedStore(feedPath, topPath string) repository.FeedStore {
	return &feedStore{feedPath: feedPath, topPath: topPath}
}

func (s *feedStore) WriteFeed(state *models.FeedState) error {
	return fsatomic.WriteJSON(s.feedPath, state)
}

func (s *feedStore) WriteTop(view *models.TopKView) error {
	return fsatomic.WriteJSON(s.topPath, view)
}

func (s *feedStore) ReadFeed() (*models.FeedState, error) {
	b, err := os.ReadFile(s.feedPath)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}
	var state models.FeedState
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return &state, nil
}

func (s *feedStore) ReadTopRaw() ([]byte, error) {
	b, err := os.ReadFile(s.topPath)
	if err != nil {
		return nil, fmt.Errorf("read top view: %w", err)
	}
	return b, nil
}
