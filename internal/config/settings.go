package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ytget/yt-grabber/internal/model"
	"github.com/ytget/yt-grabber/internal/platform"
)

// EnvPrefix is prepended to every environment variable: YTGRAB_TOOL_PATH etc.
const EnvPrefix = "YTGRAB"

// Settings keys
const (
	KeyToolPath       = "tool.path"
	KeyToolName       = "tool.name"
	KeyToolDir        = "tool.dir"
	KeyUpdateEnabled  = "update.enabled"
	KeyUpdateFeedURL  = "update.feed_url"
	KeyCheckTimeout   = "update.check_timeout"
	KeyInstallTimeout = "update.install_timeout"
	KeyDownloadDir    = "download.directory"
	KeyDownloadFormat = "download.format"
	KeyLogLevel       = "log.level"
	KeyPollInterval   = "ui.poll_interval"
)

// Default values
const (
	DefaultToolName       = platform.DefaultToolName
	DefaultToolDir        = platform.DefaultToolsDir
	DefaultUpdateEnabled  = true
	DefaultFeedURL        = "https://api.github.com/repos/yt-dlp/yt-dlp/releases/latest"
	DefaultCheckTimeout   = 30 * time.Second
	DefaultInstallTimeout = 5 * time.Minute
	DefaultDownloadFormat = model.FormatVideo
	DefaultLogLevel       = "info"
	DefaultPollInterval   = 50 * time.Millisecond
	FallbackDownloadDir   = "downloads"
)

// Settings is read-only configuration built from defaults, an optional .env file
// and the environment. Nothing is written back.
type Settings struct {
	v *viper.Viper
}

// Load reads the given .env files (missing files are ignored) and the environment.
// With no arguments it looks for ".env" in the working directory.
func Load(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return New(), nil
}

// New creates Settings from defaults and the environment only.
func New() *Settings {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyToolPath, "")
	v.SetDefault(KeyToolName, DefaultToolName)
	v.SetDefault(KeyToolDir, DefaultToolDir)
	v.SetDefault(KeyUpdateEnabled, DefaultUpdateEnabled)
	v.SetDefault(KeyUpdateFeedURL, DefaultFeedURL)
	v.SetDefault(KeyCheckTimeout, DefaultCheckTimeout)
	v.SetDefault(KeyInstallTimeout, DefaultInstallTimeout)
	v.SetDefault(KeyDownloadDir, "")
	v.SetDefault(KeyDownloadFormat, string(DefaultDownloadFormat))
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyPollInterval, DefaultPollInterval)

	return &Settings{v: v}
}

// Set overrides a key for this process only.
func (s *Settings) Set(key string, value any) {
	s.v.Set(key, value)
}

// GetToolPath returns the explicit executable path, or "" to search for it.
func (s *Settings) GetToolPath() string {
	return strings.TrimSpace(s.v.GetString(KeyToolPath))
}

// GetToolName returns the executable base name.
func (s *Settings) GetToolName() string {
	if name := strings.TrimSpace(s.v.GetString(KeyToolName)); name != "" {
		return name
	}
	return DefaultToolName
}

// GetToolDir returns the managed tools folder, relative to the program directory
// unless absolute.
func (s *Settings) GetToolDir() string {
	if dir := strings.TrimSpace(s.v.GetString(KeyToolDir)); dir != "" {
		return dir
	}
	return DefaultToolDir
}

// GetUpdateEnabled reports whether the update check runs before each fetch.
func (s *Settings) GetUpdateEnabled() bool {
	return s.v.GetBool(KeyUpdateEnabled)
}

// GetFeedURL returns the release feed endpoint.
func (s *Settings) GetFeedURL() string {
	if url := strings.TrimSpace(s.v.GetString(KeyUpdateFeedURL)); url != "" {
		return url
	}
	return DefaultFeedURL
}

// GetCheckTimeout bounds the release feed request.
func (s *Settings) GetCheckTimeout() time.Duration {
	return positiveDuration(s.v.GetDuration(KeyCheckTimeout), DefaultCheckTimeout)
}

// GetInstallTimeout bounds the asset download.
func (s *Settings) GetInstallTimeout() time.Duration {
	return positiveDuration(s.v.GetDuration(KeyInstallTimeout), DefaultInstallTimeout)
}

// GetDownloadDirectory returns the configured directory or the user's Downloads folder.
func (s *Settings) GetDownloadDirectory() string {
	if dir := strings.TrimSpace(s.v.GetString(KeyDownloadDir)); dir != "" {
		return dir
	}
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return FallbackDownloadDir
	}
	return dir
}

// GetDownloadFormat returns the initially selected format.
func (s *Settings) GetDownloadFormat() model.FormatChoice {
	f, err := model.ParseFormatChoice(s.v.GetString(KeyDownloadFormat))
	if err != nil {
		return DefaultDownloadFormat
	}
	return f
}

// GetLogLevel returns the zap level name.
func (s *Settings) GetLogLevel() string {
	if lvl := strings.TrimSpace(s.v.GetString(KeyLogLevel)); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// GetPollInterval is how often the interface drains operation events.
func (s *Settings) GetPollInterval() time.Duration {
	return positiveDuration(s.v.GetDuration(KeyPollInterval), DefaultPollInterval)
}

func positiveDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
