package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"territorykeeper/internal/client/client"
	"territorykeeper/internal/common"
	"territorykeeper/internal/httpapi"
	"territorykeeper/internal/logging"
	"territorykeeper/internal/server/config"
	"territorykeeper/internal/server/repositories/repomanager"
	"territorykeeper/internal/server/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSqliteRepositoryManager()
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	cfg := &config.Config{
		SecretKey:                    "test-secret",
		ShareURLBase:                 "http://127.0.0.1:8080/open",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))

	srv, err := NewHTTPServer(":0", logger,
		services.NewUserService(db, rm, cfg),
		services.NewSnapshotService(db, rm, cfg))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func publishBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(httpapi.PublishRequest{Record: httpapi.Snapshot{
		Street:        "Elm Street",
		TerrNo:        "12-B",
		PublisherName: "J. Doe",
		Rows: []httpapi.Row{
			{ID: "r1", HouseNo: "14", Date: "2026-08-30", Symbol: "NH", Remarks: "dog"},
		},
	}})
	require.NoError(t, err)
	return body
}

func TestAPI_RegisterLoginPublishResolve(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)

	userID, err := api.Register(ctx, "alice@example.com", "longenough")
	require.NoError(t, err)
	require.NotEmpty(t, userID)

	require.NoError(t, api.Login(ctx, "alice@example.com", "longenough"))
	require.True(t, api.IsAuthenticated())

	pub, err := api.Publish(ctx, httpapi.Snapshot{Street: "Elm Street", TerrNo: "12-B"})
	require.NoError(t, err)
	assert.NotEmpty(t, pub.ShareID)
	assert.Contains(t, pub.ShareURL, "shareId="+pub.ShareID)

	snap, err := api.Resolve(ctx, pub.ShareID)
	require.NoError(t, err)
	assert.Equal(t, pub.ShareID, snap.ID)
	assert.Equal(t, "Elm Street", snap.Street)
	assert.Equal(t, userID, snap.OwnerID)
	assert.WithinDuration(t, time.Now(), snap.SharedAt, time.Minute)
}

func TestAPI_RepublishMintsNewShareID(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Register(ctx, "a@b.c", "longenough")
	require.NoError(t, err)
	require.NoError(t, api.Login(ctx, "a@b.c", "longenough"))

	first, err := api.Publish(ctx, httpapi.Snapshot{Street: "Elm"})
	require.NoError(t, err)
	second, err := api.Publish(ctx, httpapi.Snapshot{Street: "Elm, renumbered"})
	require.NoError(t, err)

	require.NotEqual(t, first.ShareID, second.ShareID)

	// The first link still serves the content frozen at its publish.
	snap, err := api.Resolve(ctx, first.ShareID)
	require.NoError(t, err)
	assert.Equal(t, "Elm", snap.Street)
}

func TestAPI_ListSharesReturnsOwnSnapshots(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Register(ctx, "a@b.c", "longenough")
	require.NoError(t, err)
	require.NoError(t, api.Login(ctx, "a@b.c", "longenough"))

	first, err := api.Publish(ctx, httpapi.Snapshot{Street: "Elm"})
	require.NoError(t, err)
	second, err := api.Publish(ctx, httpapi.Snapshot{Street: "Oak"})
	require.NoError(t, err)

	items, err := api.ListShares(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	ids := []string{items[0].ShareID, items[1].ShareID}
	assert.Contains(t, ids, first.ShareID)
	assert.Contains(t, ids, second.ShareID)

	// Another user sees only their own publications.
	other := client.NewHTTPClient(ts.URL)
	_, err = other.Register(ctx, "x@y.z", "longenough")
	require.NoError(t, err)
	require.NoError(t, other.Login(ctx, "x@y.z", "longenough"))
	items, err = other.ListShares(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAPI_ListSharesRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/snapshots")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_PublishRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/snapshots", "application/json", bytes.NewReader(publishBody(t)))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ResolveUnknownShareID(t *testing.T) {
	ts := newTestServer(t)

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Resolve(context.Background(), "nosuchcode")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAPI_RegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Register(ctx, "dup@example.com", "longenough")
	require.NoError(t, err)

	_, err = api.Register(ctx, "dup@example.com", "longenough")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Register(ctx, "a@b.c", "longenough")
	require.NoError(t, err)

	err = api.Login(ctx, "a@b.c", "wrongpass")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.False(t, api.IsAuthenticated())
}

func TestAPI_RefreshRotatesTokenPair(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	postJSON := func(body any, path string) *http.Response {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.URL+path, bytes.NewReader(data))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	resp := postJSON(httpapi.RegisterRequest{Email: "a@b.c", Password: "longenough"}, "/api/v1/auth/register")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(httpapi.LoginRequest{Email: "a@b.c", Password: "longenough"}, "/api/v1/auth/login")
	var tokens httpapi.TokenPairResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokens))
	resp.Body.Close()

	resp = postJSON(httpapi.RefreshRequest{RefreshToken: tokens.RefreshToken}, "/api/v1/auth/refresh")
	var rotated httpapi.TokenPairResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rotated))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// The rotated-out token is revoked.
	resp = postJSON(httpapi.RefreshRequest{RefreshToken: tokens.RefreshToken}, "/api/v1/auth/refresh")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_ExportWithoutArchive(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	api := client.NewHTTPClient(ts.URL)
	_, err := api.Register(ctx, "a@b.c", "longenough")
	require.NoError(t, err)
	require.NoError(t, api.Login(ctx, "a@b.c", "longenough"))

	pub, err := api.Publish(ctx, httpapi.Snapshot{Street: "Elm"})
	require.NoError(t, err)

	_, err = api.ExportURL(ctx, pub.ShareID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestAPI_Ping(t *testing.T) {
	ts := newTestServer(t)

	api := client.NewHTTPClient(ts.URL)
	assert.NoError(t, api.Ping(context.Background()))
}
