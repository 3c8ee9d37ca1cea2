package main

import (
	"os"

	"github.com/aretw0/onclick/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <scenario.yaml>...",
	Short: "Host scenario worlds behind the HTTP API",
	Long: `Builds one world per scenario (without playing its ticks) and serves
press/hover/release, tick, vars, save/load, /events (SSE) and /metrics.
With --redis-addr, snapshots and per-world locks live in Redis.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interpreter, _ := cmd.Flags().GetString("interpreter")
		commands, _ := cmd.Flags().GetString("commands")
		addr, _ := cmd.Flags().GetString("addr")
		storeDir, _ := cmd.Flags().GetString("store-dir")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPass, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		autoSave, _ := cmd.Flags().GetBool("auto-save")
		encKey, _ := cmd.Flags().GetString("encryption-key")
		mask, _ := cmd.Flags().GetStringSlice("mask")

		logOpts := logOptions(cmd)
		if logOpts.Level == "" {
			logOpts.Level = "info"
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.Serve(ctx, cli.ServeOptions{
			Paths:         args,
			Addr:          addr,
			Interpreter:   interpreter,
			CommandsPath:  commands,
			StoreDir:      storeDir,
			RedisAddr:     redisAddr,
			RedisPass:     redisPass,
			RedisDB:       redisDB,
			TTL:           ttl,
			AutoSave:      autoSave,
			EncryptionKey: encKey,
			Mask:          mask,
			Log:           logOpts,
		}, os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("store-dir", "", "Directory for JSON snapshots (default: in-memory)")
	serveCmd.Flags().String("redis-addr", "", "Redis address for snapshots and locks (default: in-memory)")
	serveCmd.Flags().String("redis-password", "", "Redis password")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("ttl", 0, "Snapshot expiration (0 keeps them forever)")
	serveCmd.Flags().Bool("auto-save", false, "Save the world snapshot after every tick")
	serveCmd.Flags().String("encryption-key", os.Getenv("ONCLICK_ENCRYPTION_KEY"), "Base64 AES-256 key used to seal snapshots")
	serveCmd.Flags().StringSlice("mask", nil, "Regexp of Vars keys masked before saving (repeatable)")
}
