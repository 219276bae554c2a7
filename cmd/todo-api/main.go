package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"todo_api/internal/config"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr    string
		backend string
	)
	cmd := &cobra.Command{
		Use:          "todo-api",
		Short:        "Serve the todo HTTP API",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(addr, backend)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	cmd.Flags().StringVar(&backend, "backend", "", "storage backend: memory, postgres or sqlite (overrides STORAGE_BACKEND)")
	cmd.AddCommand(newSchemaCmd())
	return cmd
}

// loadConfig 读取环境变量配置，命令行参数优先
func loadConfig(addr, backend string) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if backend != "" {
		cfg.StorageBackend = strings.ToLower(strings.TrimSpace(backend))
		if err := cfg.Validate(); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}
