package domain

import "time"

// CommentRef identifies a comment either by a client-side temporary id
// (never sent to the backend) or by its persisted id.
type CommentRef struct {
	id    string
	local bool
}

// LocalRef returns a reference to a comment that exists only in memory.
func LocalRef(tempID string) CommentRef {
	return CommentRef{id: tempID, local: true}
}

// PersistedRef returns a reference to a comment stored in the backend.
func PersistedRef(id string) CommentRef {
	return CommentRef{id: id}
}

func (r CommentRef) ID() string    { return r.id }
func (r CommentRef) IsLocal() bool { return r.local }

func (r CommentRef) String() string {
	if r.local {
		return "local:" + r.id
	}
	return r.id
}

// Author is the display metadata stamped on a comment when it is written.
type Author struct {
	Name       string
	Avatar     string
	Department string
	Position   string
	Role       string
}

// Comment is a feedback entry attached to a record.
type Comment struct {
	ID        string
	RecordID  string
	Author    Author
	Content   string
	CreatedAt time.Time
}

// Profile is the signed-in user as supplied by the identity collaborator.
type Profile struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	Team       string `json:"team"`
}

// Author projects the profile onto comment display metadata.
func (p Profile) Author() Author {
	return Author{
		Name:       p.Name,
		Avatar:     p.Avatar,
		Department: p.Department,
		Position:   p.Position,
		Role:       p.Role,
	}
}
