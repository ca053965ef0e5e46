package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookmarkDbName  = "campusevents"
	BookmarkColName = "bookmarks"
)

// BookmarkItem is one saved event inside a user's bookmark document.
type BookmarkItem struct {
	EventID string    `bson:"event_id" json:"event_id"`
	Title   string    `bson:"title" json:"title"`
	AddedAt time.Time `bson:"added_at" json:"added_at"`
}

// Bookmark keeps all saved events of one user in a single document keyed by
// event id, so save/unsave is a field-level upsert.
type Bookmark struct {
	ID        primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID               `bson:"user_id" json:"user_id" validate:"required"`
	Items     map[string]BookmarkItem `bson:"items" json:"items"`
	CreatedAt time.Time               `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt time.Time               `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

type BookmarksRepo interface {
	AddBookmark(ctx context.Context, userID uuid.UUID, eventID, title string) (*Bookmark, error)
	RemoveBookmark(ctx context.Context, userID uuid.UUID, eventID string) error
	GetBookmarksByUserID(ctx context.Context, userID uuid.UUID) (*Bookmark, error)
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(dbName).Collection(colName), nil
}

func (mdb *MongodbRepo) AddBookmark(ctx context.Context, userID uuid.UUID, eventID, title string) (*Bookmark, error) {
	col, err := mdb.GetCollection(ctx, BookmarkDbName, BookmarkColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now()
	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"updated_at": now,
			fmt.Sprintf("items.%s", eventID): BookmarkItem{
				EventID: eventID,
				Title:   title,
				AddedAt: now,
			},
		},
		"$setOnInsert": bson.M{
			"user_id":    userID,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result Bookmark
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("error upserting bookmark: %w", err)
	}
	return &result, nil
}

func (mdb *MongodbRepo) RemoveBookmark(ctx context.Context, userID uuid.UUID, eventID string) error {
	col, err := mdb.GetCollection(ctx, BookmarkDbName, BookmarkColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$unset": bson.M{
			fmt.Sprintf("items.%s", eventID): "",
		},
		"$set": bson.M{
			"updated_at": time.Now(),
		},
	}

	_, err = col.UpdateOne(ctx, filter, update)
	return err
}

func (mdb *MongodbRepo) GetBookmarksByUserID(ctx context.Context, userID uuid.UUID) (*Bookmark, error) {
	col, err := mdb.GetCollection(ctx, BookmarkDbName, BookmarkColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var bookmark Bookmark
	err = col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&bookmark)
	if err == mongo.ErrNoDocuments {
		// No document yet means no bookmarks, not a failure.
		return &Bookmark{UserID: userID, Items: map[string]BookmarkItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error finding bookmarks: %w", err)
	}
	return &bookmark, nil
}
