package config

import (
	"fmt"
)

// WithRoot sets the site project directory
func WithRoot(root string) Option {
	return func(c *ServerConfig) error {
		if root == "" {
			return fmt.Errorf("root cannot be empty")
		}
		c.Root = root
		return nil
	}
}

// WithHost sets the listen address
func WithHost(host string) Option {
	return func(c *ServerConfig) error {
		c.Host = host
		return nil
	}
}

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithLayout sets the collection and image directories relative to the root.
// Empty values keep the current setting.
func WithLayout(dataDir, imagesDir string) Option {
	return func(c *ServerConfig) error {
		if dataDir != "" {
			c.DataDir = dataDir
		}
		if imagesDir != "" {
			c.ImagesDir = imagesDir
		}
		return nil
	}
}

// WithAssetStorage sets where images are written, see WithEnv for the URL forms
func WithAssetStorage(storageURL string) Option {
	return func(c *ServerConfig) error {
		c.AssetStorageURL = storageURL
		return nil
	}
}

// WithS3Credentials sets static credentials for the S3 asset backend
func WithS3Credentials(accessKeyID, secretAccessKey string) Option {
	return func(c *ServerConfig) error {
		if (accessKeyID == "") != (secretAccessKey == "") {
			return fmt.Errorf("both access key ID and secret access key are required")
		}
		c.S3.AccessKeyID = accessKeyID
		c.S3.SecretAccessKey = secretAccessKey
		return nil
	}
}

// WithGitRemote sets the remote and branch Publish pushes to
func WithGitRemote(remote, branch string) Option {
	return func(c *ServerConfig) error {
		if remote == "" || branch == "" {
			return fmt.Errorf("git remote and branch cannot be empty")
		}
		c.Git.Remote = remote
		c.Git.Branch = branch
		return nil
	}
}

// WithGitBinary sets the git executable
func WithGitBinary(binary string) Option {
	return func(c *ServerConfig) error {
		c.Git.Binary = binary
		return nil
	}
}

// WithoutGit disables publishing
func WithoutGit() Option {
	return func(c *ServerConfig) error {
		c.Git.Disabled = true
		return nil
	}
}

// WithServeStatic enables or disables serving site files from the root
func WithServeStatic(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.ServeStatic = enabled
		return nil
	}
}

// WithCORSOrigins allows browser requests from origins
func WithCORSOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.CORSOrigins = origins
		return nil
	}
}

// WithEventLogging enables or disables lifecycle event logging
func WithEventLogging(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableEventLogging = enabled
		return nil
	}
}
