package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
	"github.com/tendant/simple-portfolio/pkg/portfolio/git"
	"github.com/tendant/simple-portfolio/pkg/portfolio/preview"
	fsstorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/fs"
	memorystorage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/memory"
	s3storage "github.com/tendant/simple-portfolio/pkg/portfolio/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Root:        ".",
		Host:        "127.0.0.1",
		Port:        "8787",
		Environment: "development",
		DataDir:     portfolio.DefaultDataDir,
		ImagesDir:   portfolio.DefaultImagesDir,
		S3: S3Config{
			Region:       "us-east-1",
			SSEAlgorithm: "AES256",
		},
		Git: GitConfig{
			Binary: git.DefaultBinary,
			Remote: portfolio.DefaultRemote,
			Branch: portfolio.DefaultBranch,
		},
		ServeStatic:        true,
		EnableEventLogging: true,
	}
}

// ServerConfig represents configuration for the portfolio editor
type ServerConfig struct {
	// Root is the site's project directory: collections, images and the git work tree live here
	Root        string `yaml:"root" json:"root" toml:"root" env:"PORTFOLIO_ROOT" env-description:"site project directory"`
	Host        string `yaml:"host" json:"host" toml:"host" env:"PORTFOLIO_HOST" env-description:"listen address"`
	Port        string `yaml:"port" json:"port" toml:"port" env:"PORTFOLIO_PORT" env-description:"listen port"`
	Environment string `yaml:"environment" json:"environment" toml:"environment" env:"PORTFOLIO_ENVIRONMENT" env-description:"development, production or testing"`

	// Layout, relative to Root
	DataDir   string `yaml:"data_dir" json:"data_dir" toml:"data_dir" env:"PORTFOLIO_DATA_DIR" env-description:"collection directory"`
	ImagesDir string `yaml:"images_dir" json:"images_dir" toml:"images_dir" env:"PORTFOLIO_IMAGES_DIR" env-description:"image directory"`

	// AssetStorageURL selects where images are written:
	// "" or "file://" (Root), "file:///abs/path", "memory://", "s3://bucket?region=..."
	AssetStorageURL string   `yaml:"asset_storage_url" json:"asset_storage_url" toml:"asset_storage_url" env:"PORTFOLIO_ASSET_STORAGE_URL" env-description:"image storage location"`
	S3              S3Config `yaml:"s3" json:"s3" toml:"s3"`

	Git GitConfig `yaml:"git" json:"git" toml:"git"`

	// Server options
	ServeStatic        bool `yaml:"serve_static" json:"serve_static" toml:"serve_static" env:"PORTFOLIO_SERVE_STATIC" env-description:"serve site files from Root"`
	EnableEventLogging bool `yaml:"event_logging" json:"event_logging" toml:"event_logging" env:"PORTFOLIO_EVENT_LOGGING" env-description:"log content lifecycle events"`

	// CORSOrigins lists the origins allowed to call the API from a browser. Empty disables CORS.
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins" toml:"cors_origins" env:"PORTFOLIO_CORS_ORIGINS" env-separator:"," env-description:"comma-separated origins allowed to call the API, * for any"`
}

// S3Config configures the S3 asset backend. Bucket usually comes from AssetStorageURL.
type S3Config struct {
	Bucket          string `yaml:"bucket" json:"bucket" toml:"bucket" env:"PORTFOLIO_S3_BUCKET"`
	Region          string `yaml:"region" json:"region" toml:"region" env:"PORTFOLIO_S3_REGION"`
	Prefix          string `yaml:"prefix" json:"prefix" toml:"prefix" env:"PORTFOLIO_S3_PREFIX"`
	Endpoint        string `yaml:"endpoint" json:"endpoint" toml:"endpoint" env:"PORTFOLIO_S3_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" json:"access_key_id" toml:"access_key_id" env:"PORTFOLIO_S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" json:"secret_access_key" toml:"secret_access_key" env:"PORTFOLIO_S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" json:"use_path_style" toml:"use_path_style" env:"PORTFOLIO_S3_USE_PATH_STYLE"`
	EnableSSE       bool   `yaml:"enable_sse" json:"enable_sse" toml:"enable_sse" env:"PORTFOLIO_S3_ENABLE_SSE"`
	SSEAlgorithm    string `yaml:"sse_algorithm" json:"sse_algorithm" toml:"sse_algorithm" env:"PORTFOLIO_S3_SSE_ALGORITHM"`
	SSEKMSKeyID     string `yaml:"sse_kms_key_id" json:"sse_kms_key_id" toml:"sse_kms_key_id" env:"PORTFOLIO_S3_SSE_KMS_KEY_ID"`
	CreateBucket    bool   `yaml:"create_bucket" json:"create_bucket" toml:"create_bucket" env:"PORTFOLIO_S3_CREATE_BUCKET"`
}

// GitConfig configures publishing
type GitConfig struct {
	Binary   string `yaml:"binary" json:"binary" toml:"binary" env:"PORTFOLIO_GIT_BINARY"`
	Remote   string `yaml:"remote" json:"remote" toml:"remote" env:"PORTFOLIO_GIT_REMOTE"`
	Branch   string `yaml:"branch" json:"branch" toml:"branch" env:"PORTFOLIO_GIT_BRANCH"`
	Disabled bool   `yaml:"disabled" json:"disabled" toml:"disabled" env:"PORTFOLIO_GIT_DISABLED"`
}

// Addr is the host:port the HTTP server listens on
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Root == "" {
		return errors.New("root is required")
	}

	if c.Port == "" {
		return errors.New("port is required")
	}
	if p, err := strconv.Atoi(c.Port); err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535, got %q", c.Port)
	}

	switch c.Environment {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("environment must be 'development', 'production' or 'testing', got %q", c.Environment)
	}

	for name, dir := range map[string]string{"data_dir": c.DataDir, "images_dir": c.ImagesDir} {
		if dir == "" {
			return fmt.Errorf("%s is required", name)
		}
		if filepath.IsAbs(dir) || strings.HasPrefix(filepath.Clean(dir), "..") {
			return fmt.Errorf("%s must be relative to root, got %q", name, dir)
		}
	}

	if _, err := c.assetStorage(); err != nil {
		return err
	}

	if c.Git.Remote == "" || c.Git.Branch == "" {
		return errors.New("git remote and branch are required")
	}

	return nil
}

// assetBackend is the parsed form of AssetStorageURL
type assetBackend struct {
	kind string // "fs", "memory" or "s3"
	dir  string
	s3   S3Config
}

func (c *ServerConfig) assetStorage() (assetBackend, error) {
	raw := strings.TrimSpace(c.AssetStorageURL)
	if raw == "" || raw == "file://" {
		return assetBackend{kind: "fs", dir: c.Root}, nil
	}
	if raw == "memory" || raw == "memory://" {
		return assetBackend{kind: "memory"}, nil
	}

	if strings.HasPrefix(raw, "file://") {
		return assetBackend{kind: "fs", dir: strings.TrimPrefix(raw, "file://")}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return assetBackend{}, fmt.Errorf("invalid asset_storage_url: %w", err)
	}

	switch u.Scheme {
	case "s3":
		s3cfg := c.S3
		if u.Host != "" {
			s3cfg.Bucket = u.Host
		}
		q := u.Query()
		if v := q.Get("region"); v != "" {
			s3cfg.Region = v
		}
		if v := q.Get("endpoint"); v != "" {
			s3cfg.Endpoint = v
		}
		if v := q.Get("prefix"); v != "" {
			s3cfg.Prefix = v
		}
		if v := q.Get("path_style"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return assetBackend{}, fmt.Errorf("invalid path_style in asset_storage_url: %w", err)
			}
			s3cfg.UsePathStyle = b
		}
		if s3cfg.Bucket == "" {
			return assetBackend{}, errors.New("S3 bucket name cannot be empty in asset_storage_url")
		}
		return assetBackend{kind: "s3", s3: s3cfg}, nil

	default:
		return assetBackend{}, fmt.Errorf("unsupported asset_storage_url format: %s (use 'file://...', 'memory://', or 's3://...')", raw)
	}
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (portfolio.Service, error) {
	collections, err := fsstorage.New(fsstorage.Config{BaseDir: c.Root})
	if err != nil {
		return nil, fmt.Errorf("failed to build collection storage: %w", err)
	}

	assets, err := c.buildAssetBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to build asset storage: %w", err)
	}

	options := []portfolio.Option{
		portfolio.WithCollectionStore(collections),
		portfolio.WithAssetStore(assets),
		portfolio.WithDataDir(c.DataDir),
		portfolio.WithImagesDir(c.ImagesDir),
		portfolio.WithRenderer(preview.New()),
	}

	if !c.Git.Disabled {
		options = append(options,
			portfolio.WithVersionControl(git.New(collections.BaseDir(), git.WithBinary(c.Git.Binary))),
			portfolio.WithRemote(c.Git.Remote, c.Git.Branch),
		)
	}

	if c.EnableEventLogging {
		options = append(options, portfolio.WithEventSink(portfolio.NewLoggingEventSink(slog.Default())))
	}

	return portfolio.New(options...)
}

func (c *ServerConfig) buildAssetBackend() (portfolio.BlobStore, error) {
	backend, err := c.assetStorage()
	if err != nil {
		return nil, err
	}

	switch backend.kind {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: backend.dir})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 backend.s3.Region,
			Bucket:                 backend.s3.Bucket,
			Prefix:                 backend.s3.Prefix,
			AccessKeyID:            backend.s3.AccessKeyID,
			SecretAccessKey:        backend.s3.SecretAccessKey,
			Endpoint:               backend.s3.Endpoint,
			UsePathStyle:           backend.s3.UsePathStyle,
			EnableSSE:              backend.s3.EnableSSE,
			SSEAlgorithm:           backend.s3.SSEAlgorithm,
			SSEKMSKeyID:            backend.s3.SSEKMSKeyID,
			CreateBucketIfNotExist: backend.s3.CreateBucket,
		})

	default:
		return nil, fmt.Errorf("unsupported asset storage type: %s", backend.kind)
	}
}
