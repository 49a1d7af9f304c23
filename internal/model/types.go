package model

import "time"

// Post wire format keeps the Mongo-style "_id" key the backend uses.
type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
}

type User struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Registration is the payload for /auth/register. The password never
// appears in responses.
type Registration struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Account is the backend-side record for a registered user.
type Account struct {
	User
	PasswordHash string
	CreatedAt    time.Time
}
