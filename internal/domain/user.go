package domain

import "time"

// User is a registered account. PasswordHash is a bcrypt digest and is never
// serialized outward.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	DisplayName  *string
	IsAdmin      bool
	CreatedAt    time.Time
}

// Favorite marks a content as favorited by a user.
type Favorite struct {
	UserID    int64
	ContentID int64
	AddedAt   time.Time
}

// List is a user-curated collection of contents.
type List struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description *string
	CreatedAt   time.Time
	ItemCount   int
}

// ListItem is one content inside a list.
type ListItem struct {
	ListID    int64
	ContentID int64
	AddedAt   time.Time
}
