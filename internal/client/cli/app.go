package cli

import (
	"bufio"
	"context"
	"log"
	"os"

	"territorykeeper/internal/client/client"
	"territorykeeper/internal/client/config"
	"territorykeeper/internal/client/repositories/prefs"
	"territorykeeper/internal/client/repositories/records"
	"territorykeeper/internal/client/services"
	"territorykeeper/internal/filex"
	"territorykeeper/internal/logging"
)

// App wires the local repositories, the services and the REPL together.
type App struct {
	config        *config.Config
	logger        logging.Logger
	authService   services.AuthService
	recordService *services.RecordService
	shareService  *services.ShareService
	prefsRepo     *prefs.FileRepository
	reader        *bufio.Reader

	// id of the record the row commands operate on; empty until "open"
	current string
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {
	dataDir := c.DataDir
	if dataDir == "" {
		var err error
		dataDir, err = filex.DefaultDataDir()
		if err != nil {
			log.Printf("error resolving data directory: %s", err.Error())
			return nil, err
		}
	} else {
		var err error
		dataDir, err = filex.EnsureDir(dataDir)
		if err != nil {
			return nil, err
		}
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr)

	repo := records.NewFileRepository(dataDir)

	return &App{
		config:        c,
		logger:        logger,
		authService:   services.NewAuthService(apiClient),
		recordService: services.NewRecordService(repo, logger, c.DebounceWindow),
		shareService:  services.NewShareService(apiClient),
		prefsRepo:     prefs.NewFileRepository(dataDir),
		reader:        bufio.NewReader(os.Stdin),
	}, nil
}

// Run executes the REPL until the user exits or ctx is cancelled. Pending
// debounced saves are flushed on the way out so no edit is lost.
func (a *App) Run(ctx context.Context) {
	defer a.recordService.Flush()

	if a.config.ShareID != "" {
		if err := a.OpenShared(ctx, a.config.ShareID); err != nil {
			log.Printf("error opening shared record: %s", err.Error())
		}
	}

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}
