package auth

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/middleware"
)

type stubVerifier struct {
	identity *Identity
	err      error
}

func (s *stubVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestObserverResolvesSignedIn(t *testing.T) {
	o := NewObserver(&stubVerifier{identity: &Identity{UID: "u1", Email: "u1@example.com"}}, testLogger())

	o.Resolve(context.Background(), "valid-token")

	select {
	case <-o.Resolved():
	case <-time.After(time.Second):
		t.Fatal("observer never resolved")
	}

	identity := o.Current()
	require.NotNil(t, identity)
	assert.Equal(t, "u1", identity.UID)
}

func TestObserverResolvesSignedOutWithoutToken(t *testing.T) {
	o := NewObserver(&stubVerifier{}, testLogger())

	o.Resolve(context.Background(), "")

	<-o.Resolved()
	assert.Nil(t, o.Current())
}

func TestObserverResolvesSignedOutOnBadToken(t *testing.T) {
	o := NewObserver(&stubVerifier{err: apperrors.Unauthorized("bad token")}, testLogger())

	o.Resolve(context.Background(), "expired")

	<-o.Resolved()
	assert.Nil(t, o.Current())
}

func TestObserverResolveIsOnce(t *testing.T) {
	o := NewObserver(&stubVerifier{identity: &Identity{UID: "u1"}}, testLogger())

	o.Resolve(context.Background(), "t1")
	o.Resolve(context.Background(), "t2")

	identity := o.Current()
	require.NotNil(t, identity)
	assert.Equal(t, "u1", identity.UID)
}

func TestObserverSubscribeBeforeResolve(t *testing.T) {
	o := NewObserver(&stubVerifier{identity: &Identity{UID: "u1"}}, testLogger())

	got := make(chan *Identity, 1)
	o.Subscribe(func(id *Identity) { got <- id })

	o.Resolve(context.Background(), "token")

	select {
	case id := <-got:
		require.NotNil(t, id)
		assert.Equal(t, "u1", id.UID)
	case <-time.After(time.Second):
		t.Fatal("subscriber never invoked")
	}
}

func TestObserverSubscribeAfterResolve(t *testing.T) {
	o := NewObserver(&stubVerifier{identity: &Identity{UID: "u1"}}, testLogger())
	o.Resolve(context.Background(), "token")

	var got *Identity
	o.Subscribe(func(id *Identity) { got = id })

	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UID)
}

func TestMiddlewareAcceptsValidToken(t *testing.T) {
	mw := Middleware(&stubVerifier{identity: &Identity{UID: "u1"}}, testLogger())

	var seenUID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUID = middleware.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", seenUID)
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	mw := Middleware(&stubVerifier{}, testLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsMalformedHeader(t *testing.T) {
	mw := Middleware(&stubVerifier{}, testLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	mw := Middleware(&stubVerifier{err: apperrors.Unauthorized("invalid")}, testLogger())
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
