// Package mocks provides gomock implementations of the session interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	authn := mocks.NewMockAuthenticator(ctrl)
//	authn.EXPECT().Me(gomock.Any()).Return(user, nil)
package mocks

// MockAuthenticator: Login, Register, Me
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=authenticator_mock.go github.com/fitnesshub/web/internal/auth Authenticator

// MockTokenStore: Load, Save, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_store_mock.go github.com/fitnesshub/web/internal/session TokenStore
