package commands

import (
	"github.com/spf13/cobra"

	"kama_address_book/internal/config"
)

var (
	configPath string
	conf       *config.Config
)

func Execute() error {
	root := &cobra.Command{
		Use:   "kama_address_book",
		Short: "Address book contacts list service",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				conf = config.GetConfig()
				return nil
			}
			var err error
			conf, err = config.LoadFile(configPath)
			return err
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.toml)")

	serve := serveCmd()
	root.AddCommand(serve, tokenCmd())
	// 不带子命令时直接启动服务
	root.RunE = serve.RunE
	return root.Execute()
}
