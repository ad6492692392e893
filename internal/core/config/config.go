package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Cookie struct {
	Secure bool
	Domain string
}

type CORS struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Stripe struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Currency      string `mapstructure:"currency"`
}

type Limits struct {
	RPS          float64
	Burst        int
	Concurrency  int64
	MaxBodyBytes int64
	TimeoutSec   int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Cookie Cookie
	CORS   CORS `mapstructure:"cors"`
	DB     DB
	Redis  Redis  `mapstructure:"redis"`
	Stripe Stripe `mapstructure:"stripe"`
	Limits Limits
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lifeflow")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("jwt.issuer", "lifeflow")
	v.SetDefault("jwt.accesstokenttlmin", 24*60)
	v.SetDefault("cookie.secure", true)
	v.SetDefault("cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 25)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 60)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("stripe.currency", "usd")

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.timeoutsec", 10)
}

// Load reads the YAML file at path (CONFIG_PATH, then
// ./configs/config.local.yaml when empty) and overlays APP_* env vars,
// e.g. APP_JWT_SECRET for jwt.secret. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range []string{"jwt.secret", "db.dsn", "db.username", "db.password", "redis.addr", "redis.password", "stripe.secret_key", "stripe.webhook_secret"} {
		_ = v.BindEnv(k)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, c.Validate()
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("jwt.secret is required (APP_JWT_SECRET)")
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		return errors.New("jwt.accesstokenttlmin must be positive")
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn is required (APP_DB_DSN)")
	}
	return nil
}
