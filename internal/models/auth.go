// Модели внешнего REST API и аргументов команд фронтенда.
// Имена JSON-полей совпадают с API (camelCase).
package models

// User — снимок пользователя, как его видит сервер.
type User struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	Role  string  `json:"role"`
	Plan  string  `json:"plan"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // секунды
	User         User   `json:"user"`
}

type Subscription struct {
	Plan      string  `json:"plan"`
	Status    string  `json:"status"`
	ExpiresAt *string `json:"expiresAt,omitempty"` // ISO-8601
}

// VerifyResponse — текущее мнение сервера о токене; локально не кэшируется.
type VerifyResponse struct {
	Valid        bool         `json:"valid"`
	User         User         `json:"user"`
	Subscription Subscription `json:"subscription"`
}
