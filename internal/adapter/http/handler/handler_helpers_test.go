package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/walletledger/internal/domain"
)

func asUser(req *http.Request, id string, role domain.Role) *http.Request {
	return req.WithContext(domain.ContextWithUser(req.Context(), &domain.User{ID: id, Role: role}))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
