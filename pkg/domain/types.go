package domain

import "time"

// User is the account summary returned by the auth and book endpoints.
// ProfileImage is a URL served by the backend, empty when the user never
// uploaded one.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Book is one recommendation post. The same logical book may appear as two
// independent copies, one in the global feed and one in the owner's
// recommendation list; only ID ties them together.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Image     string    `json:"image"`
	Rating    int       `json:"rating"`
	Author    User      `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}
