// Package config loads autotube settings from defaults, an optional YAML file and the
// environment, in that order of precedence (environment wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Store   StoreConfig   `yaml:"store"`
	Storage StorageConfig `yaml:"storage"`
	Archive ArchiveConfig `yaml:"archive"`
	TTS     TTSConfig     `yaml:"tts"`
	Render  RenderConfig  `yaml:"render"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Dirs    Dirs          `yaml:"dirs"`
}

type HTTPConfig struct {
	Port               string        `yaml:"port"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver"`
	DatabaseURL   string `yaml:"database_url"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
}

type StorageConfig struct {
	Provider  string   `yaml:"provider"`
	LocalRoot string   `yaml:"local_root"`
	S3        S3Config `yaml:"s3"`
}

type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type ArchiveConfig struct {
	Provider  string       `yaml:"provider"`
	LocalRoot string       `yaml:"local_root"`
	GDrive    GDriveConfig `yaml:"gdrive"`
}

type GDriveConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	FolderID     string `yaml:"folder_id"`
}

type TTSConfig struct {
	Engine  string `yaml:"engine"`
	Command string `yaml:"command"`
	BaseURL string `yaml:"base_url"`
}

type RenderConfig struct {
	Engine      string `yaml:"engine"`
	HTTPBaseURL string `yaml:"http_base_url"`
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FPS         int    `yaml:"fps"`
}

type YouTubeConfig struct {
	ClientSecretsFile string `yaml:"client_secrets_file"`
	TokenFile         string `yaml:"token_file"`
	CategoryID        string `yaml:"category_id"`
}

// Dirs holds the filesystem layout. Nothing else in the process hardcodes these paths.
type Dirs struct {
	// PublicBase is the URL prefix artifacts are served under.
	PublicBase   string `yaml:"public_base"`
	AudioDir     string `yaml:"audio_dir"`
	ThumbnailDir string `yaml:"thumbnail_dir"`
	VideoDir     string `yaml:"video_dir"`
	// WorkDir holds per-job render workspaces.
	WorkDir string `yaml:"work_dir"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:               "8000",
			CORSAllowedOrigins: []string{"*"},
			WriteTimeout:       10 * time.Minute,
			ShutdownTimeout:    30 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Driver:        "memory",
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "autotube",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "autotube",
		},
		Storage: StorageConfig{Provider: "localfs", LocalRoot: "./static"},
		Archive: ArchiveConfig{Provider: "none", LocalRoot: "./archive"},
		TTS: TTSConfig{
			Engine:  "translate",
			BaseURL: "https://translate.google.com",
		},
		Render: RenderConfig{Engine: "ffmpeg", FFmpegPath: "ffmpeg", FPS: 24},
		YouTube: YouTubeConfig{
			ClientSecretsFile: "client_secret.json",
			TokenFile:         "token.json",
			CategoryID:        "22",
		},
		Dirs: Dirs{
			PublicBase:   "/static",
			AudioDir:     "audio",
			ThumbnailDir: "thumbnails",
			VideoDir:     "videos",
			WorkDir:      filepath.Join(os.TempDir(), "autotube"),
		},
	}
}

// Load reads .env (if present), then CONFIG_FILE (if set), then environment overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := env("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setStr(&c.HTTP.Port, "HTTP_PORT")
	setCSV(&c.HTTP.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")

	setStr(&c.Log.Level, "LOG_LEVEL")
	setStr(&c.Log.Format, "LOG_FORMAT")

	setStr(&c.Store.Driver, "STORE_DRIVER")
	setStr(&c.Store.DatabaseURL, "DATABASE_URL")
	setStr(&c.Store.RedisAddr, "REDIS_ADDR")
	setStr(&c.Store.RedisPrefix, "REDIS_PREFIX")
	setStr(&c.Store.MongoURI, "MONGO_URI")
	setStr(&c.Store.MongoDatabase, "MONGO_DATABASE")

	setStr(&c.Storage.Provider, "STORAGE_PROVIDER")
	setStr(&c.Storage.LocalRoot, "STORAGE_LOCAL_ROOT")
	setStr(&c.Storage.S3.Endpoint, "S3_ENDPOINT")
	setStr(&c.Storage.S3.AccessKey, "S3_ACCESS_KEY")
	setStr(&c.Storage.S3.SecretKey, "S3_SECRET_KEY")
	setStr(&c.Storage.S3.Bucket, "S3_BUCKET")
	setStr(&c.Storage.S3.Region, "S3_REGION")

	setStr(&c.Archive.Provider, "ARCHIVE_PROVIDER")
	setStr(&c.Archive.LocalRoot, "ARCHIVE_LOCAL_ROOT")
	setStr(&c.Archive.GDrive.ClientID, "GDRIVE_CLIENT_ID")
	setStr(&c.Archive.GDrive.ClientSecret, "GDRIVE_CLIENT_SECRET")
	setStr(&c.Archive.GDrive.RefreshToken, "GDRIVE_REFRESH_TOKEN")
	setStr(&c.Archive.GDrive.FolderID, "GDRIVE_FOLDER_ID")

	setStr(&c.TTS.Engine, "TTS_ENGINE")
	setStr(&c.TTS.Command, "TTS_COMMAND")
	setStr(&c.TTS.BaseURL, "TTS_BASE_URL")

	setStr(&c.Render.Engine, "RENDER_ENGINE")
	setStr(&c.Render.HTTPBaseURL, "RENDERER_HTTP_BASEURL")
	setStr(&c.Render.FFmpegPath, "FFMPEG_PATH")

	setStr(&c.YouTube.ClientSecretsFile, "GOOGLE_CLIENT_SECRETS")
	setStr(&c.YouTube.TokenFile, "GOOGLE_OAUTH_TOKEN")
	setStr(&c.YouTube.CategoryID, "YOUTUBE_CATEGORY_ID")

	setStr(&c.Dirs.PublicBase, "PUBLIC_BASE_PATH")
	setStr(&c.Dirs.WorkDir, "RENDER_WORK_DIR")

	for _, b := range []struct {
		dst *bool
		key string
	}{
		{&c.Log.AddSource, "LOG_SOURCE"},
		{&c.Storage.S3.UseSSL, "S3_USE_SSL"},
	} {
		if err := setBool(b.dst, b.key); err != nil {
			return err
		}
	}
	for _, n := range []struct {
		dst *int
		key string
	}{
		{&c.Store.RedisDB, "REDIS_DB"},
		{&c.Render.FPS, "RENDER_FPS"},
	} {
		if err := setInt(n.dst, n.key); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects unknown driver names and missing connection settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory", "redis", "mongo":
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver postgres")
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	switch c.Storage.Provider {
	case "localfs":
		if c.Storage.LocalRoot == "" {
			return fmt.Errorf("STORAGE_LOCAL_ROOT is required for storage provider localfs")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required for storage provider s3")
		}
	default:
		return fmt.Errorf("unknown storage provider: %s", c.Storage.Provider)
	}

	switch c.Archive.Provider {
	case "", "none", "localfs":
	case "gdrive":
		g := c.Archive.GDrive
		if g.ClientID == "" || g.ClientSecret == "" || g.RefreshToken == "" {
			return fmt.Errorf("GDRIVE_CLIENT_ID, GDRIVE_CLIENT_SECRET and GDRIVE_REFRESH_TOKEN are required for archive provider gdrive")
		}
	default:
		return fmt.Errorf("unknown archive provider: %s", c.Archive.Provider)
	}

	switch c.TTS.Engine {
	case "translate":
	case "command":
		if c.TTS.Command == "" {
			return fmt.Errorf("TTS_COMMAND is required for tts engine command")
		}
	default:
		return fmt.Errorf("unknown tts engine: %s", c.TTS.Engine)
	}

	switch c.Render.Engine {
	case "ffmpeg":
	case "http":
		if c.Render.HTTPBaseURL == "" {
			return fmt.Errorf("RENDERER_HTTP_BASEURL is required for render engine http")
		}
	default:
		return fmt.Errorf("unknown render engine: %s", c.Render.Engine)
	}

	if !strings.HasPrefix(c.Dirs.PublicBase, "/") {
		return fmt.Errorf("PUBLIC_BASE_PATH must start with '/': %q", c.Dirs.PublicBase)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func setStr(dst *string, key string) {
	if v := env(key); v != "" {
		*dst = v
	}
}

func setCSV(dst *[]string, key string) {
	raw := env(key)
	if raw == "" {
		return
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}

func setBool(dst *bool, key string) error {
	v := env(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: invalid integer %q", key, v)
	}
	*dst = n
	return nil
}
