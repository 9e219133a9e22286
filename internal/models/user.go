package model

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ListMember is a user's membership entry in a shared list.
type ListMember struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
