package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/quilt/internal/render"
	"github.com/kiesman99/quilt/pkg/quilt"
)

const version = "1.0.0"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quilt [flags] image...",
	Short: "Arrange images into one composite quilt image",
	Long: `quilt places a set of independently sized images into a grid and writes
them out as a single composite image.

Tiles are placed in argument order along the chosen direction, wrapping when
the column (or row) limit is reached. Row heights and column widths follow the
sizing mode, and each tile is mapped into its cell per the stretch mode and
alignment. Gaps are filled with the background color.

Examples:
  # Two columns of photos, largest-tile cells, white background
  quilt -c 2 -o wall.png photos/*.jpg

  # Single row, every tile scaled to fit a uniform cell
  quilt -s largest -m fit -o strip.png a.png b.png c.png

  # Vertical strip, at most 3 rows per column, centered tiles
  quilt -d v -r 3 -x center -y middle -o grid.png *.png

  # Start the HTTP API
  quilt serve --port 8080`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuilt,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.quilt.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "verbosity (-v for info, -vv for debug)")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Output options
	rootCmd.Flags().StringP("output", "o", "", "output file; '-' writes PNG to stdout (required)")
	rootCmd.Flags().BoolP("force", "f", false, "overwrite the output file if it exists")
	rootCmd.MarkFlagRequired("output")

	// Layout options
	rootCmd.Flags().StringP("direction", "d", "h", "tiling direction (h|v)")
	rootCmd.Flags().IntP("max-columns", "c", 0, "maximum columns; values below 1 mean no maximum")
	rootCmd.Flags().IntP("max-rows", "r", 0, "maximum rows; values below 1 mean no maximum")
	rootCmd.Flags().StringP("sizing", "s", "largest", "cell sizing mode (actual|largest|smallest)")
	rootCmd.Flags().StringP("stretch", "m", "none", "tile stretch mode (none|fit|fill)")
	rootCmd.Flags().StringP("halign", "x", "left", "horizontal tile alignment (left|center|right)")
	rootCmd.Flags().StringP("valign", "y", "top", "vertical tile alignment (top|middle|bottom)")
	rootCmd.Flags().StringP("background", "b", "white", "background color (name or #RRGGBB[AA])")

	viper.BindPFlag("output", rootCmd.Flags().Lookup("output"))
	viper.BindPFlag("force", rootCmd.Flags().Lookup("force"))
	viper.BindPFlag("direction", rootCmd.Flags().Lookup("direction"))
	viper.BindPFlag("max-columns", rootCmd.Flags().Lookup("max-columns"))
	viper.BindPFlag("max-rows", rootCmd.Flags().Lookup("max-rows"))
	viper.BindPFlag("sizing", rootCmd.Flags().Lookup("sizing"))
	viper.BindPFlag("stretch", rootCmd.Flags().Lookup("stretch"))
	viper.BindPFlag("halign", rootCmd.Flags().Lookup("halign"))
	viper.BindPFlag("valign", rootCmd.Flags().Lookup("valign"))
	viper.BindPFlag("background", rootCmd.Flags().Lookup("background"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".quilt" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".quilt")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger creates the CLI logger at a level derived from the counted
// verbose flag: 0 warn, 1 info, 2+ debug.
func newLogger(verbosity int) *log.Logger {
	level := log.WarnLevel
	switch {
	case verbosity == 1:
		level = log.InfoLevel
	case verbosity >= 2:
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// buildConfig resolves the layout configuration from viper-bound flags.
func buildConfig() (quilt.Config, error) {
	var cfg quilt.Config
	var err error

	if cfg.Direction, err = quilt.ParseDirection(viper.GetString("direction")); err != nil {
		return quilt.Config{}, err
	}
	if cfg.Sizing, err = quilt.ParseSizingMode(viper.GetString("sizing")); err != nil {
		return quilt.Config{}, err
	}
	if cfg.Stretch, err = quilt.ParseStretchMode(viper.GetString("stretch")); err != nil {
		return quilt.Config{}, err
	}
	if cfg.HAlign, err = quilt.ParseHAlign(viper.GetString("halign")); err != nil {
		return quilt.Config{}, err
	}
	if cfg.VAlign, err = quilt.ParseVAlign(viper.GetString("valign")); err != nil {
		return quilt.Config{}, err
	}
	if cfg.Background, err = render.ParseColor(viper.GetString("background")); err != nil {
		return quilt.Config{}, err
	}
	cfg.MaxColumns = viper.GetInt("max-columns")
	cfg.MaxRows = viper.GetInt("max-rows")
	return cfg, nil
}

func runQuilt(cmd *cobra.Command, args []string) error {
	logger := newLogger(viper.GetInt("verbose"))

	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	logger.Debug("resolved configuration",
		"direction", cfg.Direction,
		"max_columns", cfg.MaxColumns,
		"max_rows", cfg.MaxRows,
		"sizing", cfg.Sizing,
		"stretch", cfg.Stretch,
		"halign", cfg.HAlign,
		"valign", cfg.VAlign,
		"background", fmt.Sprintf("#%02x%02x%02x%02x", cfg.Background.R, cfg.Background.G, cfg.Background.B, cfg.Background.A),
	)

	output := viper.GetString("output")
	force := viper.GetBool("force")

	if output == "-" {
		// Refuse to dump binary image data onto an interactive terminal.
		if stat, _ := os.Stdout.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			return fmt.Errorf("standard output is a terminal; use -o FILE or redirect")
		}
	} else if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("output file already exists: %q (use --force to overwrite)", output)
		}
	}

	logger.Info("loading images", "count", len(args))
	images, err := render.LoadFiles(args)
	if err != nil {
		return err
	}

	canvas, err := render.Compose(logger, images, cfg)
	if err != nil {
		return err
	}

	if output == "-" {
		logger.Info("writing quilt", "output", "stdout")
		return render.WriteImage(os.Stdout, "quilt.png", canvas)
	}

	logger.Info("writing quilt", "output", output,
		"width", canvas.Bounds().Dx(), "height", canvas.Bounds().Dy())
	return render.WriteFile(output, canvas, force)
}
