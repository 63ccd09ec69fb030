package domain

import (
	"fmt"
	"time"
)

// User is an account that owns points and authors messages.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Ref returns the public reference to the user.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username}
}

// UserRef is the minimal public view of a user.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// GeoPoint is a named place on the map.
type GeoPoint struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Coordinates holds the stored GeoJSON Point as handed over by the
	// store: a decoded object, serialized JSON text, or a PointGeometry.
	Coordinates any       `json:"coordinates"`
	CreatedBy   int64     `json:"created_by"`
	Owner       string    `json:"created_by_username,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *GeoPoint) String() string {
	return p.Name
}

// PointMessage is free text a user attached to a point.
type PointMessage struct {
	ID        int64     `json:"id"`
	PointID   int64     `json:"point"`
	UserID    int64     `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	// Resolved relations, populated by stores that pre-join them.
	Point  *GeoPoint `json:"point_detail,omitempty"`
	Author *UserRef  `json:"author,omitempty"`
}

func (m *PointMessage) String() string {
	var username, pointName string
	if m.Author != nil {
		username = m.Author.Username
	}
	if m.Point != nil {
		pointName = m.Point.Name
	}
	return fmt.Sprintf("Message by %s for %s", username, pointName)
}

// ProjectedPoint is a point returned by a radius search.
type ProjectedPoint struct {
	ID                int64         `json:"id"`
	Name              string        `json:"name"`
	Description       string        `json:"description"`
	DistanceKm        float64       `json:"distance_km"`
	Coordinates       PointGeometry `json:"coordinates"`
	CreatedBy         int64         `json:"created_by"`
	CreatedByUsername string        `json:"created_by_username"`
}

// PointSummary is the point nested inside a projected message.
type PointSummary struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Coordinates PointGeometry `json:"coordinates"`
}

// ProjectedMessage is a message returned by a radius search.
type ProjectedMessage struct {
	ID         int64        `json:"id"`
	Text       string       `json:"text"`
	CreatedAt  time.Time    `json:"created_at"`
	DistanceKm float64      `json:"distance_km"`
	Point      PointSummary `json:"point"`
	User       UserRef      `json:"user"`
}

// PointSearchResult is the response of a point radius search.
type PointSearchResult struct {
	SearchCenter SearchCenter     `json:"search_center"`
	RadiusKm     float64          `json:"radius_km"`
	PointsFound  int              `json:"points_found"`
	Points       []ProjectedPoint `json:"points"`
}

// MessageSearchResult is the response of a message radius search.
type MessageSearchResult struct {
	SearchCenter  SearchCenter       `json:"search_center"`
	RadiusKm      float64            `json:"radius_km"`
	MessagesFound int                `json:"messages_found"`
	Messages      []ProjectedMessage `json:"messages"`
}
