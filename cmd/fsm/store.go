package main

import (
	"os"

	"github.com/aretw0/fsm/internal/cli"
	"github.com/spf13/cobra"
)

// addStoreFlags registers the session backend flags on cmd.
func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", cli.BackendFile, "Session backend (memory, file, redis)")
	cmd.Flags().String("store-dir", "", "Directory for the file backend (default .fsm/sessions)")
	cmd.Flags().String("redis-addr", "localhost:6379", "Redis address for the redis backend")
	cmd.Flags().Int("redis-db", 0, "Redis database for the redis backend")
	cmd.Flags().Duration("ttl", 0, "Session expiry for the redis backend (0 keeps sessions forever)")
}

func storeOptions(cmd *cobra.Command) cli.StoreOptions {
	backend, _ := cmd.Flags().GetString("store")
	dir, _ := cmd.Flags().GetString("store-dir")
	addr, _ := cmd.Flags().GetString("redis-addr")
	db, _ := cmd.Flags().GetInt("redis-db")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	return cli.StoreOptions{
		Backend:   backend,
		Dir:       dir,
		RedisAddr: addr,
		RedisDB:   db,
		TTL:       ttl,
		Key:       os.Getenv(cli.EnvStoreKey),
	}
}
