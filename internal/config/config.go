package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	WorkerCount   int           `yaml:"worker_count"`
	GitHub        GitHubConfig  `yaml:"github"`
	JSearch       JSearchConfig `yaml:"jsearch"`
	Engine        EngineConfig  `yaml:"engine"`
	Ollama        OllamaConfig  `yaml:"ollama"`
}

// GitHubConfig covers both the OAuth app credentials and the read-only REST
// API used for skill extraction.
type GitHubConfig struct {
	ClientID          string        `yaml:"client_id"`
	ClientSecret      string        `yaml:"client_secret"`
	CallbackURL       string        `yaml:"callback_url"`
	ClientRedirectURL string        `yaml:"client_redirect_url"`
	APIBaseURL        string        `yaml:"api_base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxConcurrent     int           `yaml:"max_concurrent"`
}

// OAuthEnabled reports whether the OAuth app credentials are configured.
func (g GitHubConfig) OAuthEnabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// JSearchConfig configures the job-search aggregator used for ingestion.
type JSearchConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Host    string        `yaml:"host"`
	Query   string        `yaml:"query"`
	Timeout time.Duration `yaml:"timeout"`
}

// EngineConfig configures the LLM skill-extraction engine.
type EngineConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

const insecureJWTSecret = "supersecretkey"

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("RADAR_ADDR", ":8080"),
		JWTSecret:     getEnv("RADAR_JWT_SECRET", insecureJWTSecret),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("RADAR_DATABASE_PATH", "internradar.db"),
		TokenDuration: 24 * time.Hour,
		WorkerCount:   2,
		GitHub: GitHubConfig{
			ClientID:          os.Getenv("RADAR_GITHUB_CLIENT_ID"),
			ClientSecret:      os.Getenv("RADAR_GITHUB_CLIENT_SECRET"),
			CallbackURL:       getEnv("RADAR_GITHUB_CALLBACK_URL", "http://localhost:8080/v1/auth/github/callback"),
			ClientRedirectURL: getEnv("RADAR_CLIENT_REDIRECT_URL", "http://localhost:5173"),
			APIBaseURL:        "https://api.github.com",
			Timeout:           10 * time.Second,
			MaxConcurrent:     8,
		},
		JSearch: JSearchConfig{
			BaseURL: getEnv("RADAR_JSEARCH_BASE_URL", "https://jsearch.p.rapidapi.com"),
			APIKey:  os.Getenv("RADAR_JSEARCH_API_KEY"),
			Host:    "jsearch.p.rapidapi.com",
			Query:   "internship for web developer in India",
			Timeout: 30 * time.Second,
		},
		Engine: EngineConfig{
			Model:   getEnv("RADAR_ENGINE_MODEL", "llama3"),
			Timeout: 20 * time.Second,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the loaded configuration and fills Ollama defaults. The
// insecure default JWT secret is rejected outside the development env.
func (c *Config) Validate() error {
	if os.Getenv("RADAR_ENV") != "development" && c.JWTSecret == insecureJWTSecret {
		return fmt.Errorf("jwt_secret is the insecure default; set RADAR_JWT_SECRET")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("engine.model must not be empty")
	}

	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = 30 * time.Second
	}
	if c.Ollama.Retries == 0 {
		c.Ollama.Retries = 3
	}
	if c.Ollama.Backoff <= 0 {
		c.Ollama.Backoff = 500 * time.Millisecond
	}
	if c.Ollama.CircuitFailureThreshold == 0 {
		c.Ollama.CircuitFailureThreshold = 5
	}
	if c.Ollama.CircuitReset <= 0 {
		c.Ollama.CircuitReset = 30 * time.Second
	}

	if c.GitHub.MaxConcurrent <= 0 {
		c.GitHub.MaxConcurrent = 8
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 2
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
