package api

import (
	"context"
	"fmt"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/service"
	"golang.org/x/oauth2"
)

// storeTokenSource reads the persisted bearer token on every request so a
// login or logout takes effect immediately.
type storeTokenSource struct {
	store service.TokenStore
}

func (s storeTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.store.Token(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	return &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, nil
}
