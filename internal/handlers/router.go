package handlers

import (
	"net/http"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authHandler *AuthHandler,
	authMiddleware func(http.Handler) http.Handler,
	loggerMiddleware func(http.Handler) http.Handler,
) http.Handler {
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /login", http.HandlerFunc(authHandler.login))
	mux.Handle("POST /register", http.HandlerFunc(authHandler.register))
	mux.Handle("POST /refresh", http.HandlerFunc(authHandler.refresh))
	mux.Handle("POST /logout", withAuth(http.HandlerFunc(authHandler.logout)))
	mux.Handle("GET /me", withAuth(handleUserMe()))
	mux.Handle("GET /health", handleHealth())

	return chain(mux, loggerMiddleware)
}
