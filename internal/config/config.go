package config

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/adrg/xdg"
)

var (
	errConfigRead  = errors.New("failed to read config file")
	errLoggerInit  = errors.New("failed to initialize logger")
	errConfigWrite = errors.New("failed to write config file")
)

const (
	ConfigDirName     = "puckbridge"
	DefaultConfigName = "puckbridge"
	DefaultLogName    = "puckbridge.log"
	EnvPrefix         = "puckbridge"

	// DefaultListenAddress is where the game expects to find the bridge.
	DefaultListenAddress = "127.0.0.1:9000"
)

type Config struct {
	// ListenAddress is the host:port the bridge accepts the game connection on.
	ListenAddress string `mapstructure:"listen_address"`
	LogLevel      string `mapstructure:"log_level"`
	// LogFile, when set, redirects slog output to a file under the config dir.
	LogFile string `mapstructure:"log_file"`
	// ReplayPath points at a captured line-delimited message log. When set,
	// the bridge feeds itself from the file instead of waiting for a game.
	ReplayPath string `mapstructure:"replay_path"`
	// UPNPEnabled requests a router port mapping for the listen port, for
	// setups where the game runs on another machine.
	UPNPEnabled      bool `mapstructure:"upnp_enabled"`
	UPNPExternalPort int  `mapstructure:"upnp_external_port"`
}

// Level parses the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// Path generates a path pointing to the filename under this apps defined $XDG_CONFIG_HOME.
func Path(name string) string {
	fullPath, errFullPath := xdg.ConfigFile(path.Join(ConfigDirName, name))
	if errFullPath != nil {
		panic(errFullPath)
	}

	return fullPath
}

// LoggerInit sets the slog default handler. With an empty logPath output
// goes to stderr, otherwise to the named file under the config dir.
func LoggerInit(logPath string, level slog.Level) (io.Closer, error) {
	output := io.WriteCloser(os.Stderr)
	if logPath != "" {
		logFile, errLogFile := os.Create(path.Join(xdg.ConfigHome, ConfigDirName, logPath))
		if errLogFile != nil {
			return nil, errors.Join(errLogFile, errLoggerInit)
		}
		output = logFile
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}))

	slog.SetDefault(logger)

	return output, nil
}
