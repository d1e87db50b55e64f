// errors сводит ошибки desktop-бэкенда к единственному строковому каналу,
// который видит фронтенд.
//
// Наружу уходит только плоское человекочитаемое сообщение: фронтенд может
// ветвиться лишь по содержимому строки. Kind — короткая метка для логов и
// метрик, через границу моста не передаётся.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/shopping-assistant/internal/apiclient"
	"github.com/pribylovaa/shopping-assistant/internal/keychain"
)

var (
	// ErrUnknownCommand — фронтенд вызвал незарегистрированную команду.
	ErrUnknownCommand = stderrors.New("unknown command")
	// ErrInvalidArguments — аргументы команды не разобраны.
	ErrInvalidArguments = stderrors.New("invalid arguments")
	// ErrUnauthorized — вызов моста без верного секрета.
	ErrUnauthorized = stderrors.New("unauthorized")
	// ErrInternal — паника или программная ошибка.
	ErrInternal = stderrors.New("internal error")
)

// ErrorResponse — тело ответа моста при ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToMessage возвращает безопасный текст ошибки для фронтенда.
//   - err == nil — программная ошибка вызова: "internal error";
//   - ошибки API и хранилища — их собственный текст без op-префиксов;
//   - прочее — err.Error().
func ToMessage(err error) string {
	if err == nil {
		return ErrInternal.Error()
	}

	var apiErr *apiclient.Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Error()
	}

	var storeErr *keychain.StoreError
	if stderrors.As(err, &storeErr) {
		return storeErr.Error()
	}

	switch {
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "deadline exceeded"
	}

	return err.Error()
}

// Kind — метка вида ошибки для логов/метрик; "ok" для nil.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, keychain.ErrCredentialStore):
		return "credential_store"
	case stderrors.Is(err, apiclient.ErrNotAuthenticated):
		return "not_authenticated"
	case stderrors.Is(err, apiclient.ErrAuth):
		return "auth"
	case stderrors.Is(err, apiclient.ErrDecode):
		return "decode"
	case stderrors.Is(err, apiclient.ErrFetch):
		return "fetch"
	case stderrors.Is(err, apiclient.ErrTransport):
		return "transport"
	case stderrors.Is(err, ErrUnknownCommand):
		return "unknown_command"
	case stderrors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	case stderrors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case stderrors.Is(err, context.Canceled):
		return "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return "deadline_exceeded"
	default:
		return "internal"
	}
}

// ToHTTP маппит ошибку на HTTP-статус моста и тело ответа.
// Ошибки самих команд — 422: запрос принят, команда завершилась неудачей.
func ToHTTP(err error) (int, ErrorResponse) {
	status := http.StatusUnprocessableEntity

	switch {
	case err == nil, stderrors.Is(err, ErrInternal):
		status = http.StatusInternalServerError
	case stderrors.Is(err, ErrUnknownCommand):
		status = http.StatusNotFound
	case stderrors.Is(err, ErrInvalidArguments):
		status = http.StatusBadRequest
	case stderrors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	return status, ErrorResponse{Error: ToMessage(err)}
}

// WriteError — хелпер для HTTP-хендлеров моста.
func WriteError(w http.ResponseWriter, err error) {
	status, resp := ToHTTP(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
