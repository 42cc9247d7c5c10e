package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"runtime"
	"syscall"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/fang"
	_ "github.com/joho/godotenv/autoload"
	"github.com/puckbridge/puckbridge/internal/bridge"
	"github.com/puckbridge/puckbridge/internal/config"
	"github.com/spf13/cobra"
)

var (
	BuildVersion   = "master"
	BuildCommit    = "00000000"
	BuildDate      = time.Now().Format("2006-01-02T15:04:05Z")
	BuildGoVersion = runtime.Version()
	cfgFile        string
	rootCmd        = &cobra.Command{
		Use:   "puckbridge",
		Short: "Bridge between the Puck game and external tooling",
		Long:  `puckbridge - accepts the game's event stream, tracks live game state and relays admin commands`,
		RunE:  run,
	}

	versionCmd = &cobra.Command{
		Use:               "version",
		Short:             "Print version information",
		Long:              "Print detailed version information about puckbridge",
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		Run:               version,
	}
)

var errApp = errors.New("application error")

func main() {
	configPath := config.Path(config.DefaultConfigName)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", configPath, "Config file path")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(monitorCmd)

	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		slog.Error("Exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func version(_ *cobra.Command, _ []string) {
	fmt.Printf("puckbridge\n\n")                    //nolint:forbidigo
	fmt.Printf("  Version: %s\n", BuildVersion)     //nolint:forbidigo
	fmt.Printf("  Commit:  %s\n", BuildCommit)      //nolint:forbidigo
	fmt.Printf("  Built:   %s\n", BuildDate)        //nolint:forbidigo
	fmt.Printf("  Runtime: %s\n\n", BuildGoVersion) //nolint:forbidigo
}

// setup loads the configuration and initializes logging, shared by the serve
// and monitor modes.
func setup() (config.Config, io.Closer, error) {
	// Make sure our config home exists.
	if err := os.MkdirAll(path.Join(xdg.ConfigHome, config.ConfigDirName), 0o750); err != nil {
		return config.Config{}, nil, errors.Join(err, errApp)
	}

	configLoader := config.NewLoader(nil)
	userConfig, errConfig := configLoader.Read()
	if errConfig != nil {
		return config.Config{}, nil, errors.Join(errConfig, errApp)
	}

	logCloser, errLogger := config.LoggerInit(userConfig.LogFile, userConfig.Level())
	if errLogger != nil {
		return config.Config{}, nil, errors.Join(errLogger, errApp)
	}

	return userConfig, logCloser, nil
}

// run is the plain serve mode: accept the game connection and track state
// until interrupted.
func run(cmd *cobra.Command, _ []string) error {
	userConfig, logCloser, errSetup := setup()
	if errSetup != nil {
		return errSetup
	}
	defer closeLogger(logCloser)

	slog.Info("Starting puckbridge", slog.String("version", BuildVersion),
		slog.String("commit", BuildCommit), slog.String("go", runtime.Version()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bridge.New(userConfig).Start(ctx)
}

func closeLogger(closer io.Closer) {
	if closer == os.Stderr {
		return
	}
	if err := closer.Close(); err != nil {
		slog.Error("Failed to close log file", slog.String("error", err.Error()))
	}
}
