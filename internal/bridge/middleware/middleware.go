// middleware — обёртки вокруг роутера моста.
package middleware

import (
	"net/http"
)

type Middleware func(http.Handler) http.Handler

// Chain оборачивает h так, что mws[0] выполняется первым.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// recorder запоминает статус и объём ответа для записи в лог.
type recorder struct {
	http.ResponseWriter
	code    int
	written int
}

func (rw *recorder) WriteHeader(code int) {
	if rw.code == 0 {
		rw.code = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(p []byte) (int, error) {
	if rw.code == 0 {
		rw.code = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(p)
	rw.written += n
	return n, err
}

// status — код ответа; обработчик, ничего не записавший, отвечает 200.
func (rw *recorder) status() int {
	if rw.code == 0 {
		return http.StatusOK
	}
	return rw.code
}
