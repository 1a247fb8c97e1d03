package configuration

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/renterra/backoffice/pkg/logging"
)

const Production = "production"

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

func Use() *Configuration {
	return singleton()
}

// LoadEnv loads the given env files, skipping the ones that do not exist.
// Returns the number of files actually loaded.
func LoadEnv(envFiles []string) (int, error) {
	existingFiles := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if fileExists(file) {
			existingFiles = append(existingFiles, file)
		}
	}
	if len(existingFiles) == 0 {
		return 0, nil
	}
	return len(existingFiles), godotenv.Load(existingFiles...)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

type DatabaseOptions struct {
	Opts     string `env:"-"`
	Name     string `env:"DB_NAME" envDefault:"renterra_backoffice"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
}

func (d *DatabaseOptions) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Name, d.Password,
	)
}

type AuthzOptions struct {
	ModelPath  string `env:"AUTHZ_MODEL_PATH" envDefault:"config/access/model.conf"`
	PolicyPath string `env:"AUTHZ_POLICY_PATH" envDefault:"config/access/policy.csv"`
}

type PrometheusOptions struct {
	Enabled bool   `env:"PROMETHEUS_METRICS_ENABLED" envDefault:"false"`
	Path    string `env:"PROMETHEUS_METRICS_PATH" envDefault:"/debug/prometheus"`
}

type Configuration struct {
	Database   DatabaseOptions
	Authz      AuthzOptions
	Prometheus PrometheusOptions

	ServerPort       int    `env:"PORT" envDefault:"3200"`
	GoAppEnvironment string `env:"GO_APP_ENV" envDefault:"development"`
	SocketAddress    string `env:"-"`
	UploadsPath      string `env:"UPLOADS_PATH" envDefault:"static"`
	PageSize         int    `env:"PAGE_SIZE" envDefault:"25"`
	MaxPageSize      int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MaxUploadSize    int64  `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"error"`
	LogPath          string `env:"LOG_PATH" envDefault:"./logs/app.log"`
	RequestIDHeader  string `env:"REQUEST_ID_HEADER" envDefault:"X-Request-ID"`
	RealIPHeader     string `env:"REAL_IP_HEADER" envDefault:"X-Real-IP"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}

	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger

	c.Database.Opts = c.Database.ConnectionString()
	if c.GoAppEnvironment == Production {
		c.SocketAddress = fmt.Sprintf(":%d", c.ServerPort)
	} else {
		c.SocketAddress = fmt.Sprintf("localhost:%d", c.ServerPort)
	}
	return nil
}

func (c *Configuration) Unload() {
	if c.logFile != nil {
		_ = c.logFile.Close()
		c.logFile = nil
	}
}
