package client

import "time"

// Wire types mirror the API's JSON payloads.

// User is the public projection of a member record.
type User struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// WorkEntry is one element of a profile's employment history.
type WorkEntry struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Years    string `json:"years"`
}

// Profile carries the extended fields attached to a member.
type Profile struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Bio             string      `json:"bio"`
	CurrentPosition string      `json:"currentPosition"`
	PastWork        []WorkEntry `json:"pastWork"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// ProfileView joins a profile with its owner's public fields.
type ProfileView struct {
	Profile Profile `json:"profile"`
	User    User    `json:"user"`
}

// ConnectionRequest is a directed request between two members. Accepted is
// nil while pending.
type ConnectionRequest struct {
	ID          string     `json:"id"`
	RequesterID string     `json:"requesterId"`
	TargetID    string     `json:"targetId"`
	Accepted    *bool      `json:"accepted"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// ConnectionView joins a request with the counterpart member.
type ConnectionView struct {
	Request ConnectionRequest `json:"request"`
	With    User              `json:"user"`
}

// Post is a feed entry with an optional media attachment.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	Media     string    `json:"media,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView joins a post with its author's public fields.
type PostView struct {
	Post   Post `json:"post"`
	Author User `json:"author"`
}

// Comment attaches free text to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentView joins a comment with its author's public fields.
type CommentView struct {
	Comment Comment `json:"comment"`
	Author  User    `json:"author"`
}

// AccountPatch describes a partial update to the caller's account. Nil
// fields are left untouched.
type AccountPatch struct {
	Name           *string `json:"name,omitempty"`
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

// ProfilePatch describes a partial update to the caller's profile.
type ProfilePatch struct {
	Bio             *string      `json:"bio,omitempty"`
	CurrentPosition *string      `json:"currentPosition,omitempty"`
	PastWork        *[]WorkEntry `json:"pastWork,omitempty"`
}
