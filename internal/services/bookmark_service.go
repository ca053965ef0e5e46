package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"campusevents/internal/models"
)

type BookmarkService struct {
	bookmarksRepo models.BookmarksRepo
	eventsRepo    models.EventsRepo
}

func NewBookmarkService(bookmarksRepo models.BookmarksRepo, eventsRepo models.EventsRepo) *BookmarkService {
	return &BookmarkService{
		bookmarksRepo: bookmarksRepo,
		eventsRepo:    eventsRepo,
	}
}

// AddBookmark verifies the event exists before saving it, so the bookmark
// document never references an id that was never an event.
func (bs *BookmarkService) AddBookmark(ctx context.Context, userID, eventID uuid.UUID) (*models.Bookmark, error) {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}

	event, err := bs.eventsRepo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return bs.bookmarksRepo.AddBookmark(ctx, userID, eventID.String(), event.Title)
}

func (bs *BookmarkService) RemoveBookmark(ctx context.Context, userID, eventID uuid.UUID) error {
	if userID == uuid.Nil || eventID == uuid.Nil {
		return fmt.Errorf("no valid UUID provided")
	}
	return bs.bookmarksRepo.RemoveBookmark(ctx, userID, eventID.String())
}

func (bs *BookmarkService) GetBookmarks(ctx context.Context, userID uuid.UUID) (*models.Bookmark, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("no valid UUID provided")
	}
	return bs.bookmarksRepo.GetBookmarksByUserID(ctx, userID)
}
