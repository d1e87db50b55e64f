package apiclient

import "errors"

var (
	// ErrAuth — сервер отклонил учётные данные или токен.
	ErrAuth = errors.New("authentication failed")

	// ErrDecode — тело успешного ответа не соответствует ожидаемой форме.
	ErrDecode = errors.New("decode failed")

	// ErrNotAuthenticated — операции нужен токен, а в хранилище его нет.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrFetch — не-auth ошибка HTTP (неуспешный статус при чтении данных).
	ErrFetch = errors.New("fetch failed")

	// ErrTransport — запрос не дошёл до сервера или ответ не прочитан.
	ErrTransport = errors.New("transport failed")
)

// Error — ошибка вызова API.
//
// Message — текст для фронтенда; Err — первопричина (сеть/JSON), может быть nil.
// errors.Is(err, Kind) и errors.Is(err, Err) выполняются.
type Error struct {
	Kind       error
	StatusCode int // 0, если ответа не было
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}
