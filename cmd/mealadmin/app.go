package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/config"
	"github.com/mealdash/mealadmin/internal/database"
	"github.com/mealdash/mealadmin/internal/logging"
	"github.com/mealdash/mealadmin/internal/lookup"
	"github.com/mealdash/mealadmin/internal/mutate"
	"github.com/mealdash/mealadmin/internal/usecase"
)

// app bundles the collaborators every command needs: the API client, the
// local lookup cache, and the guarded mutation executor.
type app struct {
	cfg   *config.Config
	dbCtx *database.Context
	deps  usecase.Deps
}

// newApp builds the shared dependencies. force skips all confirmation
// prompts. A failure to open the local cache database is not fatal;
// lookups then skip persistence.
func newApp(cmd *cobra.Command, force bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logging.Setup()

	client := api.New(cfg.BaseURL, cfg.Token, cfg.RequestTimeout, log)

	var repo *database.LookupRepository
	dbCtx, err := database.CreateDatabase(cfg.CacheDBPath)
	if err != nil {
		log.Warn("lookup cache unavailable", "path", cfg.CacheDBPath, "err", err)
	} else {
		repo = database.NewLookupRepository(dbCtx)
	}
	lookups := lookup.NewCache(cfg.Language, repo, cfg.CacheTTL, log)

	confirmer := promptConfirmer{in: cmd.InOrStdin(), out: cmd.ErrOrStderr(), force: force}
	exec := mutate.New(client, confirmer, cfg.Language, log)

	return &app{
		cfg:   cfg,
		dbCtx: dbCtx,
		deps:  usecase.Deps{Client: client, Lookups: lookups, Exec: exec, Log: log},
	}, nil
}

func (a *app) close() {
	if a.dbCtx != nil {
		_ = database.CloseDatabase(a.dbCtx)
	}
}

// promptConfirmer asks yes/no on the terminal. Anything other than "y"
// declines.
type promptConfirmer struct {
	in    io.Reader
	out   io.Writer
	force bool
}

func (p promptConfirmer) Confirm(message string) bool {
	if p.force {
		return true
	}
	fmt.Fprintf(p.out, "%s (y/N) ", message)
	reader := bufio.NewReader(p.in)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(strings.ToLower(answer)) == "y"
}
