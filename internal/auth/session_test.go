package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waabox/plugforge/internal/auth"
	"github.com/waabox/plugforge/internal/domain"
	githubprovider "github.com/waabox/plugforge/internal/provider/github"
)

type countingAPI struct {
	*httptest.Server
	requests atomic.Int32
}

func newCountingAPI(t *testing.T, handler http.HandlerFunc) *countingAPI {
	t.Helper()
	api := &countingAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func TestSession_UnauthenticatedOperationsFailWithoutNetwork(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
	})
	session := auth.NewSession(api.URL)
	ctx := context.Background()

	_, err := session.User(ctx)
	assert.True(t, errors.Is(err, auth.ErrNotAuthenticated), "User: got %v", err)
	assert.Equal(t, "not authenticated", err.Error())

	_, err = session.CreateRepositoryFromTemplate(ctx, githubprovider.TemplateRequest{
		TemplateOwner: "acme", TemplateRepo: "plugin-template", Owner: "octo", Name: "fuzzbox",
	})
	assert.True(t, errors.Is(err, auth.ErrNotAuthenticated), "CreateRepositoryFromTemplate: got %v", err)

	assert.False(t, session.RepositoryExists(ctx, "octo", "fuzzbox"))
	assert.Equal(t, int32(0), api.requests.Load(), "no request may reach the API before authentication")
}

func TestSession_AuthenticateWithValidToken(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
	})
	session := auth.NewSession(api.URL)

	user, err := session.Authenticate(context.Background(), "ghp_direct")
	require.NoError(t, err)
	assert.Equal(t, "octo", user.Login)
	assert.True(t, session.Authenticated())
	assert.Equal(t, "ghp_direct", session.Token())
}

func TestSession_AuthenticateWithRejectedTokenStaysUnauthenticated(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	session := auth.NewSession(api.URL)

	_, err := session.Authenticate(context.Background(), "ghp_revoked")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "got %v", err)
	assert.False(t, session.Authenticated())
	assert.Empty(t, session.Token())
}

func TestSession_RevokedTokenSurfacesUnauthorized(t *testing.T) {
	var revoked atomic.Bool
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		if revoked.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
	})
	session := auth.NewSession(api.URL)
	ctx := context.Background()
	_, err := session.Authenticate(ctx, "ghp_direct")
	require.NoError(t, err)

	revoked.Store(true)
	_, err = session.User(ctx)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "User: got %v", err)

	_, err = session.CreateRepositoryFromTemplate(ctx, githubprovider.TemplateRequest{
		TemplateOwner: "acme", TemplateRepo: "plugin-template", Owner: "octo", Name: "fuzzbox",
	})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "CreateRepositoryFromTemplate: got %v", err)
	assert.False(t, session.RepositoryExists(ctx, "octo", "fuzzbox"))
}

func TestSession_RepositoryExists(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
		case "/repos/octo/fuzzbox":
			json.NewEncoder(w).Encode(map[string]string{"name": "fuzzbox"})
		case "/repos/octo/broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	})
	session := auth.NewSession(api.URL)
	_, err := session.Authenticate(context.Background(), "ghp_direct")
	require.NoError(t, err)

	assert.True(t, session.RepositoryExists(context.Background(), "octo", "fuzzbox"))
	assert.False(t, session.RepositoryExists(context.Background(), "octo", "missing"))
	assert.False(t, session.RepositoryExists(context.Background(), "octo", "broken"))
}

func TestSession_RepositoryExistsUnreachableAPIIsFalse(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
	})
	session := auth.NewSession(api.URL)
	_, err := session.Authenticate(context.Background(), "ghp_direct")
	require.NoError(t, err)

	api.Close()
	assert.False(t, session.RepositoryExists(context.Background(), "octo", "fuzzbox"))
}

func TestSession_CreateRepositoryFromTemplate(t *testing.T) {
	api := newCountingAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user":
			json.NewEncoder(w).Encode(map[string]string{"login": "octo"})
		case "/repos/acme/plugin-template/generate":
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "Fuzz pedal", body["description"])
			assert.Equal(t, true, body["private"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"full_name": "octo/fuzzbox", "private": true})
		default:
			http.NotFound(w, r)
		}
	})
	session := auth.NewSession(api.URL)
	_, err := session.Authenticate(context.Background(), "ghp_direct")
	require.NoError(t, err)

	repo, err := session.CreateRepositoryFromTemplate(context.Background(), githubprovider.TemplateRequest{
		TemplateOwner: "acme",
		TemplateRepo:  "plugin-template",
		Owner:         "octo",
		Name:          "fuzzbox",
		Description:   "Fuzz pedal",
		Private:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "octo/fuzzbox", repo.FullName)
	assert.True(t, repo.Private)
}
