package cli

import (
	"fmt"

	"github.com/mnemo-app/mnemo/internal/config"
	"github.com/mnemo-app/mnemo/internal/engine"
	"github.com/mnemo-app/mnemo/internal/scheduler"
	"github.com/mnemo-app/mnemo/internal/store"
)

// openDeck loads the configuration and opens the collection store,
// returning both plus a ready Builder and Controller.
func openDeck(opts *RootOptions) (config.Config, *store.Store, *engine.Controller, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	path := cfg.DatabasePath()
	if opts.Database != "" {
		path = opts.Database
	}
	st, err := store.Open(path)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("open collection %s: %w", path, err)
	}

	schedCfg, err := cfg.SchedulerConfig()
	if err != nil {
		st.Close()
		return config.Config{}, nil, nil, err
	}

	builder := engine.NewBuilder(st, st)
	ctl := engine.NewController(st, scheduler.New(schedCfg), builder)
	return cfg, st, ctl, nil
}
