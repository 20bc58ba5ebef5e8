package domain

import "time"

// ReviewStatus enumerates review moderation states.
type ReviewStatus string

const (
	ReviewStatusPublished ReviewStatus = "published"
	ReviewStatusHidden    ReviewStatus = "hidden"
)

// Review is a user-authored review of a place.
type Review struct {
	ID         int64
	UserID     int64
	PlaceID    int64
	Rating     int
	Comment    *string
	Status     ReviewStatus
	LikesCount int
	CreatedAt  time.Time

	// Joined author fields, populated on reads only.
	AuthorUsername  string
	AuthorAvatarURL *string
}

// Favorite marks a place saved by a user.
type Favorite struct {
	ID        int64
	UserID    int64
	PlaceID   int64
	CreatedAt time.Time
}

// PlaceRating is a standalone 1..5 rating, one per (user, place).
type PlaceRating struct {
	ID        int64
	UserID    int64
	PlaceID   int64
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Visit records that a user visited a place.
type Visit struct {
	ID        int64
	UserID    int64
	PlaceID   int64
	VisitedAt time.Time
}
