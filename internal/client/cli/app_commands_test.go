package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"territorykeeper/internal/client/config"
	"territorykeeper/internal/client/models"
	"territorykeeper/internal/client/repositories/prefs"
	"territorykeeper/internal/client/repositories/records"
	"territorykeeper/internal/client/services"
	"territorykeeper/internal/common"
	"territorykeeper/internal/httpapi"
	"territorykeeper/internal/logging"
)

// fakeAPI keeps published snapshots in memory so share commands can be
// exercised without a server.
type fakeAPI struct {
	loggedIn  bool
	snapshots map[string]httpapi.Snapshot
	order     []string
	seq       int
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (string, error) {
	return "u1", nil
}
func (f *fakeAPI) Login(ctx context.Context, email, password string) error {
	f.loggedIn = true
	return nil
}
func (f *fakeAPI) Logout()                        { f.loggedIn = false }
func (f *fakeAPI) Ping(ctx context.Context) error { return nil }
func (f *fakeAPI) IsAuthenticated() bool          { return f.loggedIn }

func (f *fakeAPI) Publish(ctx context.Context, snapshot httpapi.Snapshot) (*httpapi.PublishResponse, error) {
	f.seq++
	id := fmt.Sprintf("share%d", f.seq)
	f.snapshots[id] = snapshot
	f.order = append(f.order, id)
	return &httpapi.PublishResponse{ShareID: id, ShareURL: "https://example.test/open?shareId=" + id}, nil
}

func (f *fakeAPI) ListShares(ctx context.Context) ([]httpapi.SnapshotListItem, error) {
	items := make([]httpapi.SnapshotListItem, 0, len(f.order))
	for i := len(f.order) - 1; i >= 0; i-- {
		items = append(items, httpapi.SnapshotListItem{ShareID: f.order[i]})
	}
	return items, nil
}

func (f *fakeAPI) Resolve(ctx context.Context, shareID string) (*httpapi.Snapshot, error) {
	snap, ok := f.snapshots[shareID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &snap, nil
}

func (f *fakeAPI) ExportURL(ctx context.Context, shareID string) (string, error) {
	return "https://archive.example.test/" + shareID, nil
}

func newTestApp(t *testing.T) (*App, *fakeAPI) {
	t.Helper()

	api := &fakeAPI{snapshots: make(map[string]httpapi.Snapshot)}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	dir := t.TempDir()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DebounceWindow = 20 * time.Millisecond

	return &App{
		config:        cfg,
		logger:        logger,
		authService:   services.NewAuthService(api),
		recordService: services.NewRecordService(records.NewFileRepository(dir), logger, cfg.DebounceWindow),
		shareService:  services.NewShareService(api),
		prefsRepo:     prefs.NewFileRepository(dir),
		reader:        bufio.NewReader(strings.NewReader("")),
	}, api
}

// stubPrompts replaces the interactive input seams with canned answers,
// consumed in call order. Empty answers mean "keep current value".
func stubPrompts(t *testing.T, answers ...string) {
	t.Helper()
	i := 0
	next := func() string {
		if i >= len(answers) {
			return ""
		}
		a := answers[i]
		i++
		return a
	}

	origSimple, origOptional := getSimpleText, getOptionalText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getOptionalText = func(_ *bufio.Reader, _ string, current string, _ io.Writer) (string, error) {
		if a := next(); a != "" {
			return a, nil
		}
		return current, nil
	}
	t.Cleanup(func() { getSimpleText, getOptionalText = origSimple, origOptional })
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestApp_NewEditAddRowFlow(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.New(ctx))
	require.NotEmpty(t, app.current)

	stubPrompts(t, "Maple Ave", "12", "Alice")
	require.NoError(t, app.Edit(ctx))

	stubPrompts(t, "14", "", "NH", "friendly dog")
	require.NoError(t, app.AddRow(ctx))

	rec, err := app.recordService.Get(ctx, app.current)
	require.NoError(t, err)
	assert.Equal(t, "Maple Ave", rec.Street)
	assert.Equal(t, "12", rec.TerrNo)
	require.Len(t, rec.Rows, 1)
	assert.Equal(t, "14", rec.Rows[0].HouseNo)
	assert.Equal(t, models.SymbolNotHome, rec.Rows[0].Symbol)
	assert.Equal(t, "friendly dog", rec.Rows[0].Remarks)
}

func TestApp_DeleteNeedsConfirmation(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.New(ctx))
	id := app.current

	stubPrompts(t, "n")
	require.NoError(t, app.Delete(ctx))
	assert.Equal(t, id, app.current, "declined delete keeps the record open")

	stubPrompts(t, "y")
	require.NoError(t, app.Delete(ctx))
	assert.Empty(t, app.current)
	assert.Empty(t, app.recordService.List(ctx))
}

func TestApp_NewUsesDisplayNamePreference(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.prefsRepo.Set(prefs.Preferences{DisplayName: "Alice"}))
	require.NoError(t, app.New(ctx))

	rec, err := app.recordService.Get(ctx, app.current)
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.PublisherName)
}

func TestApp_ShareRequiresLogin(t *testing.T) {
	app, api := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.New(ctx))

	assert.Error(t, app.Share(ctx))
	assert.Empty(t, api.snapshots)
}

func TestApp_ShareAndOpenShared(t *testing.T) {
	app, api := newTestApp(t)
	ctx := context.Background()
	out := silencePrintln(t)

	require.NoError(t, app.New(ctx))
	stubPrompts(t, "Maple Ave", "12", "Alice")
	require.NoError(t, app.Edit(ctx))

	api.loggedIn = true
	require.NoError(t, app.Share(ctx))
	require.Len(t, api.snapshots, 1)
	assert.Contains(t, strings.Join(*out, ""), "share1")

	// later edits must not leak into the snapshot
	street := "Oak St"
	require.NoError(t, app.recordService.UpdateHeader(app.current, models.RecordPatch{Street: &street}))

	*out = (*out)[:0]
	require.NoError(t, app.OpenShared(ctx, "https://example.test/open?shareId=share1"))
	assert.Contains(t, strings.Join(*out, ""), "Maple Ave")
}

func TestApp_OpenSharedUnknownCode(t *testing.T) {
	app, _ := newTestApp(t)
	silencePrintln(t)

	err := app.OpenShared(context.Background(), "doesnotexist")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestApp_FilterUnknownSymbol(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.New(ctx))
	assert.Error(t, app.Filter(ctx, "ZZ"))
}

func TestApp_ResolveIDPrefix(t *testing.T) {
	app, _ := newTestApp(t)
	ctx := context.Background()
	silencePrintln(t)

	require.NoError(t, app.New(ctx))
	id := app.current

	got, err := app.resolveID(ctx, id[:6])
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = app.resolveID(ctx, "zzzzzz")
	assert.Error(t, err)
}

func TestApp_SharesListsNewestFirst(t *testing.T) {
	app, api := newTestApp(t)
	ctx := context.Background()
	out := silencePrintln(t)

	api.loggedIn = true
	require.NoError(t, app.New(ctx))
	require.NoError(t, app.Share(ctx))
	require.NoError(t, app.Share(ctx))

	*out = (*out)[:0]
	require.NoError(t, app.Shares(ctx))

	joined := strings.Join(*out, "")
	assert.Contains(t, joined, "share1")
	assert.Contains(t, joined, "share2")
	assert.Less(t, strings.Index(joined, "share2"), strings.Index(joined, "share1"))
}

func TestApp_SharesRequiresLogin(t *testing.T) {
	app, _ := newTestApp(t)
	silencePrintln(t)

	assert.Error(t, app.Shares(context.Background()))
}

func TestApp_Ping(t *testing.T) {
	app, _ := newTestApp(t)
	out := silencePrintln(t)

	require.NoError(t, app.Ping(context.Background()))
	assert.Contains(t, strings.Join(*out, ""), "Server is up")
}
