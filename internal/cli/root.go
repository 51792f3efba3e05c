// Package cli implements the graphcache command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/graphcache"
	_ "github.com/unkn0wn-root/graphcache/backend/bigcache"
	"github.com/unkn0wn-root/graphcache/backend/memory"
	_ "github.com/unkn0wn-root/graphcache/backend/redis"
	_ "github.com/unkn0wn-root/graphcache/backend/ristretto"
	asynchook "github.com/unkn0wn-root/graphcache/hooks/async"
	zaplog "github.com/unkn0wn-root/graphcache/log/zap"
	"github.com/unkn0wn-root/graphcache/properties"
	"github.com/unkn0wn-root/graphcache/sloghooks"
	"github.com/unkn0wn-root/graphcache/store"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	files     []string
	overrides map[string]string
	backend   string
	codec     string
	debug     bool

	log     *zap.Logger
	props   *store.Properties
	locator *graphcache.Locator
	hooks   *asynchook.Hooks
	// owned is false when the locator was injected and outlives the command.
	owned bool
}

// NewRootCmd constructs the root command with all subcommands attached.
func NewRootCmd() *cobra.Command { return newRootCmd(&app{owned: true}) }

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphcache",
		Short: "graphcache - inspect and modify named caches",
		Long: "graphcache loads store properties (files, GRAPHCACHE_PROPERTIES, GRAPHCACHE_OVERRIDES), " +
			"initialises the configured cache backend and runs one operation against it.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}
	cmd.SilenceUsage = true
	f := cmd.PersistentFlags()
	f.StringSliceVarP(&a.files, "props", "p", nil, "Property files (.properties/.yaml) merged after GRAPHCACHE_PROPERTIES")
	f.StringToStringVar(&a.overrides, "set", nil, "Property overrides, applied last")
	f.StringVarP(&a.backend, "backend", "b", "", "Cache backend; overrides "+store.KeyCacheBackend)
	f.StringVar(&a.codec, "codec", "", "Value codec for federated graphs (json, cbor, msgpack)")
	f.BoolVar(&a.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(newPutCmd(a))
	cmd.AddCommand(newGetCmd(a))
	cmd.AddCommand(newKeysCmd(a))
	cmd.AddCommand(newValuesCmd(a))
	cmd.AddCommand(newRemoveCmd(a))
	cmd.AddCommand(newClearCmd(a))
	cmd.AddCommand(newSizeCmd(a))
	cmd.AddCommand(newBackendsCmd())
	cmd.AddCommand(newPropsCmd(a))
	cmd.AddCommand(newGraphsCmd(a))
	return cmd
}

// Execute runs the CLI entrypoint.
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.log == nil {
		l, err := newLogger(a.debug)
		if err != nil {
			return fmt.Errorf("logger: %w", err)
		}
		a.log = l
	}
	if a.props != nil {
		return nil
	}
	src, err := properties.ParseEnv()
	if err != nil {
		return err
	}
	src.Files = append(src.Files, a.files...)
	p, err := src.Load()
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	for k, v := range a.overrides {
		p.Set(k, v)
	}
	a.props = store.Wrap(p)
	if a.backend != "" {
		a.props.SetCacheBackend(a.backend)
	}
	if a.props.CacheBackend() == "" {
		a.props.SetCacheBackend(memory.Name)
	}
	a.log.Debug("properties loaded",
		zap.Int("count", a.props.Len()),
		zap.String("backend", a.props.CacheBackend()))
	return nil
}

// service initialises the locator on first use.
func (a *app) service(ctx context.Context) (*graphcache.Locator, error) {
	if a.locator != nil {
		return a.locator, nil
	}
	a.hooks = asynchook.New(sloghooks.New(hookLogger(a.debug), sloghooks.Options{ConflictEvery: 1}), 1, 256)
	l := graphcache.NewLocator(graphcache.LocatorOptions{
		Logger: zaplog.New(a.log),
		Hooks:  a.hooks,
	})
	if err := l.Initialise(ctx, a.props); err != nil {
		return nil, err
	}
	a.locator = l
	return l, nil
}

func (a *app) teardown(ctx context.Context) error {
	var err error
	if a.owned && a.locator != nil {
		err = a.locator.Reset(ctx)
		a.locator = nil
	}
	if a.hooks != nil {
		a.hooks.Close()
		a.hooks = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func hookLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
