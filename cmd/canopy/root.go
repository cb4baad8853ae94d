package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/canopy"
	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/adapters/file"
	"github.com/aretw0/canopy/pkg/adapters/memory"
	"github.com/aretw0/canopy/pkg/adapters/redis"
	"github.com/aretw0/canopy/pkg/persistence/middleware"
	"github.com/aretw0/canopy/pkg/ports"
)

// encryptionKeyEnv holds a hex encoded AES-256 key for session snapshots.
const encryptionKeyEnv = "CANOPY_ENCRYPTION_KEY"

var rootCmd = &cobra.Command{
	Use:   "canopy",
	Short: "Canopy runs trees of actors described in YAML flow files",
	Long: `Canopy executes actor trees: sources emit tokens that flow through
transformers into sinks, while control actors scope variables and storage,
branch, call shared actors and load sub-flows from other files.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("store", "file", "Session store backend (file, redis, memory)")
	flags.String("store-dir", filepath.Join(".canopy", "sessions"), "Directory of the file session store")
	flags.String("redis-addr", "localhost:6379", "Address of the redis session store")
	flags.StringSlice("mask", nil, "Regexps of variable and storage names masked before saving")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.New(logging.ParseLevel(level))
}

// newStore builds the session store selected by the persistent flags,
// wrapped with masking and encryption when configured.
func newStore(cmd *cobra.Command) (ports.ScopeStore, ports.DistributedLocker, error) {
	backend, _ := cmd.Flags().GetString("store")

	var store ports.ScopeStore
	var locker ports.DistributedLocker
	switch backend {
	case "file":
		dir, _ := cmd.Flags().GetString("store-dir")
		store = file.New(dir)
	case "memory":
		store = memory.NewStore()
	case "redis":
		addr, _ := cmd.Flags().GetString("redis-addr")
		rs := redis.New(addr, os.Getenv("CANOPY_REDIS_PASSWORD"), 0)
		store = rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
	default:
		return nil, nil, fmt.Errorf("unknown store %q", backend)
	}

	var mws []middleware.Middleware
	if patterns, _ := cmd.Flags().GetStringSlice("mask"); len(patterns) > 0 {
		mw, err := middleware.NewPIIMiddleware(patterns)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, mw)
	}
	if raw := os.Getenv(encryptionKeyEnv); raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", encryptionKeyEnv, err)
		}
		mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", encryptionKeyEnv, err)
		}
		mws = append(mws, mw)
	}
	return middleware.Chain(store, mws...), locker, nil
}

// newEngine creates an engine for the flow file at path.
func newEngine(cmd *cobra.Command, path string, opts ...canopy.Option) (*canopy.Engine, error) {
	store, locker, err := newStore(cmd)
	if err != nil {
		return nil, err
	}
	base := []canopy.Option{
		canopy.WithLogger(newLogger(cmd)),
		canopy.WithScopeStore(store),
		canopy.WithOutput(cmd.OutOrStdout()),
	}
	if locker != nil {
		base = append(base, canopy.WithLocker(locker))
	}
	return canopy.New(path, append(base, opts...)...)
}
