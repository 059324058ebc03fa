package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/mbtiscope/internal/config"
	"github.com/KaramelBytes/mbtiscope/internal/render"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set mbtiscope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		w := cmd.OutOrStdout()
		dataFile := c.DataFile
		if dataFile == "" {
			dataFile = "(bundled sample)"
		}
		fmt.Fprintf(w, "data_file: %s\n", dataFile)
		fmt.Fprintf(w, "top_n: %d\n", c.TopN)
		fmt.Fprintf(w, "chart_width: %d\n", c.ChartWidth)
		fmt.Fprintf(w, "chart_height: %d\n", c.ChartHeight)
		fmt.Fprintf(w, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(w, "addr: %s\n", c.Addr)
		fmt.Fprintf(w, "max_upload_mb: %d\n", c.MaxUploadMB)
		fmt.Fprintf(w, "session_ttl_min: %d\n", c.SessionTTLMin)
		fmt.Fprintf(w, "no_color: %t\n", c.NoColor)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_file":
			cfg.DataFile = val
		case "top_n":
			i, err := positiveInt(key, val)
			if err != nil {
				return err
			}
			cfg.TopN = i
		case "chart_width":
			i, err := positiveInt(key, val)
			if err != nil {
				return err
			}
			cfg.ChartWidth = i
		case "chart_height":
			i, err := positiveInt(key, val)
			if err != nil {
				return err
			}
			cfg.ChartHeight = i
		case "chart_format":
			f, err := render.ParseFormat(val)
			if err != nil {
				return err
			}
			cfg.ChartFormat = f
		case "addr":
			cfg.Addr = val
		case "max_upload_mb":
			i, err := positiveInt(key, val)
			if err != nil {
				return err
			}
			cfg.MaxUploadMB = i
		case "session_ttl_min":
			i, err := positiveInt(key, val)
			if err != nil {
				return err
			}
			cfg.SessionTTLMin = i
		case "no_color":
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			if err != nil {
				return fmt.Errorf("invalid bool for no_color: %v", val)
			}
			cfg.NoColor = b
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func positiveInt(key, val string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || i <= 0 {
		return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
	}
	return i, nil
}
