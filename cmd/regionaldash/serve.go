package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"regionaldash/internal/api"
	"regionaldash/internal/config"
	"regionaldash/internal/server"
	"regionaldash/internal/util"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port      int
		devMode   bool
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			// 命令行端口仅在配置文件未显式指定时生效
			if port > 0 && !a.cfgInfo.PortSpecified {
				cfg.Server.Port = port
			}
			if devMode {
				cfg.Server.DevMode = true
			}

			handler := api.NewHandler(api.Options{
				Registry:  a.registry,
				Store:     a.store,
				Importer:  a.importer,
				Exporter:  a.exporter,
				Logger:    a.logger,
				Defaults:  a.configDefaults(),
				ExportDir: config.ExportDir(a.dataDir),
				UploadDir: config.UploadDir(a.dataDir),
			})
			srv := server.NewServer(server.Options{
				API:      handler,
				Registry: a.registry,
				Renderer: a.renderer,
				Logger:   a.logger,
				DevMode:  cfg.Server.DevMode,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run(util.ListenAddr(cfg.Server.Port))
			}()

			url := util.LocalURL(cfg.Server.Port, "/")
			if cfg.Server.OpenBrowser && !noBrowser && !cfg.Server.DevMode {
				if err := util.OpenBrowserWithFallback(url); err != nil {
					a.logger.Warn("无法自动打开浏览器，请手动访问", "url", url)
				}
			} else {
				a.logger.Info("请访问", "url", url)
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err := <-errCh:
				return err
			case <-quit:
			}

			a.logger.Info("正在关闭服务...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&devMode, "dev", false, "开发模式")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "不自动打开浏览器")
	return cmd
}
