package models

// TokenArgs — аргументы store_token и verify_token.
type TokenArgs struct {
	Token string `json:"token"`
}

// LoginArgs — аргументы login.
type LoginArgs struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
