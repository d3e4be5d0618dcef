package models

import "time"

// User represents an account within the CareerConnect platform. Password
// holds the bcrypt hash, never the plaintext secret.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Password       string    `json:"-"`
	ProfilePicture string    `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PublicUser is the subset of a user record that is safe to expose to other
// callers: the credential hash and session token are excluded by construction.
type PublicUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profilePicture"`
}

// Public projects a user onto its externally visible fields.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Username:       u.Username,
		ProfilePicture: u.ProfilePicture,
	}
}

// WorkEntry is one element of a profile's ordered employment history.
type WorkEntry struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Years    string `json:"years"`
}

// Profile carries the extended fields attached one-to-one to a user. It is
// created empty in the same transaction that creates its owner.
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
	Profile Profile    `json:"profile"`
	User    PublicUser `json:"user"`
}

// ConnectionRequest is a directed edge from Requester to Target. Accepted is
// tri-state: nil while pending, true once accepted, false once rejected. A
// record is never deleted and at most one exists per ordered pair.
type ConnectionRequest struct {
	ID          string     `json:"id"`
	Requester   string     `json:"requesterId"`
	Target      string     `json:"targetId"`
	Accepted    *bool      `json:"accepted"`
	CreatedAt   time.Time  `json:"createdAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

// Pending reports whether the request has not been resolved yet.
func (r ConnectionRequest) Pending() bool { return r.Accepted == nil }

// ConnectionView joins a request with the public fields of the counterpart
// user: the requester for incoming lists, the target for outgoing ones.
type ConnectionView struct {
	Request ConnectionRequest `json:"request"`
	With    PublicUser        `json:"user"`
}

// Post is a piece of user content with an optional single media attachment.
// Likes is an unconditional counter with no record of who liked.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"authorId"`
	Body      string    `json:"body"`
	Media     string    `json:"media,omitempty"`
	MediaType string    `json:"mediaType,omitempty"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView joins a post with its author's public fields.
type PostView struct {
	Post   Post       `json:"post"`
	Author PublicUser `json:"author"`
}

// Comment attaches free text to a post. Deletion is restricted to the author.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Author    string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentView joins a comment with its author's public fields.
type CommentView struct {
	Comment Comment    `json:"comment"`
	Author  PublicUser `json:"author"`
}
