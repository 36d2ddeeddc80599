package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

type Config struct {
	Env        string `yaml:"env"`
	HTTPServer `yaml:"http_server"`
	Mongo      `yaml:"mongo"`
	Shortener  `yaml:"shortener"`
	Auth       `yaml:"auth"`
	Inspector  `yaml:"inspector"`
	RateLimit  `yaml:"rate_limit"`
}

type HTTPServer struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
	CertFile       string        `yaml:"cert_file"`
	KeyFile        string        `yaml:"key_file"`
}

var defaultHTTPServer = HTTPServer{
	Port:           8080,
	ReadTimeout:    5 * time.Second,
	WriteTimeout:   10 * time.Second,
	IdleTimeout:    time.Minute,
	MaxHeaderBytes: 1 << 20,
}

func (s *HTTPServer) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type Mongo struct {
	URI            string        `yaml:"uri"`
	DB             string        `yaml:"db"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

var defaultMongo = Mongo{
	URI:            "mongodb://localhost:27017",
	DB:             "toolshub",
	ConnectTimeout: 5 * time.Second,
}

type Shortener struct {
	BaseURL    string `yaml:"base_url"`
	CodeLength int    `yaml:"code_length"`
}

var defaultShortener = Shortener{
	BaseURL:    "http://localhost:8080",
	CodeLength: 6,
}

type Auth struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

var defaultAuth = Auth{
	TokenTTL: 7 * 24 * time.Hour,
}

type Inspector struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRedirects int           `yaml:"max_redirects"`
	UserAgent    string        `yaml:"user_agent"`
}

var defaultInspector = Inspector{
	Timeout:      10 * time.Second,
	MaxRedirects: 5,
}

type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

var defaultRateLimit = RateLimit{
	RPS:   10,
	Burst: 20,
}

func Load(path string) (*Config, error) {
	const op = "config.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open config file: %w", op, err)
	}
	defer f.Close()

	var cfg Config
	setDefaults(&cfg)

	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to decode config file: %w", op, err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Env = EnvDev
	cfg.HTTPServer = defaultHTTPServer
	cfg.Mongo = defaultMongo
	cfg.Shortener = defaultShortener
	cfg.Auth = defaultAuth
	cfg.Inspector = defaultInspector
	cfg.RateLimit = defaultRateLimit
}
