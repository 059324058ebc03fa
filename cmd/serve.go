package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/mbtiscope/internal/dashboard"
	"github.com/KaramelBytes/mbtiscope/internal/dataset"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/spf13/cobra"
)

var (
	serveData datasetFlags
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	Long: `Serve the interactive dashboard: pick a type from the dropdown, upload your
own CSV or XLSX, and see the top countries as a chart, a table and a summary.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		loadOpt, err := serveData.options()
		if err != nil {
			return err
		}
		opt := dashboard.DefaultOptions()
		opt.DataFile = serveData.path()
		opt.TopN = c.TopN
		opt.Load = loadOpt
		opt.Chart = render.ChartOptions{Width: c.ChartWidth, Height: c.ChartHeight, Format: c.ChartFormat}
		if c.MaxUploadMB > 0 {
			opt.MaxUploadBytes = int64(c.MaxUploadMB) << 20
		}
		if c.SessionTTLMin > 0 {
			opt.SessionTTL = time.Duration(c.SessionTTLMin) * time.Minute
		}

		cache := dataset.NewCache(loadOpt)
		// Fail fast on a bad default dataset rather than on the first request.
		if _, err := cache.Load(opt.DataFile); err != nil {
			return err
		}
		srv, err := dashboard.New(opt, cache)
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = c.Addr
		}
		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard running at http://%s (Ctrl+C to stop)\n", addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveData.register(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default addr from config, 127.0.0.1:8501)")
}
