package domain

import "time"

// AdminLog is an append-only audit record of a back-office mutation. AdminID
// is nullable so records survive deletion of the acting administrator.
type AdminLog struct {
	ID          int64
	AdminID     *int64
	Action      string
	TargetType  string
	TargetID    *int64
	Description *string
	CreatedAt   time.Time

	// Joined on reads.
	AdminUsername *string
}

// AdminStats is the aggregate snapshot served on the admin dashboard.
type AdminStats struct {
	TotalUsers   int
	ActiveUsers  int
	BannedUsers  int
	TotalPlaces  int
	TotalReviews int
	NewUsersWeek int
}
