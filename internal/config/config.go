package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rhiyo/nsmon/internal/models"
)

// DefaultRetries is the retry budget for a single DNS check: retries beyond
// the first attempt, so the default allows three attempts total.
const DefaultRetries = 2

const defaultInterval = 3600

// TrackerConfig identifies the GitHub repository that receives outage issues.
// APIBaseURL overrides the GitHub API endpoint; it is empty in normal use.
type TrackerConfig struct {
	Owner      string `yaml:"owner"`
	Repo       string `yaml:"repo"`
	APIBaseURL string `yaml:"api_base_url"`
}

type Config struct {
	Servers         []models.NameServer
	Retries         int
	IntervalSeconds int
	ListenAddr      string
	Database        string
	Tracker         TrackerConfig
}

type fileServer struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type fileConfig struct {
	Servers         []fileServer  `yaml:"servers"`
	Retries         *int          `yaml:"retries"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	ListenAddr      string        `yaml:"listen_addr"`
	Database        string        `yaml:"database"`
	Tracker         TrackerConfig `yaml:"tracker"`
}

// Default returns the built-in configuration: the rhiyo.com name-server mesh
// and its infra repository.
func Default() *Config {
	return &Config{
		Servers: []models.NameServer{
			{Name: "ns1.rhiyo.com.", Address: netip.MustParseAddr("173.255.245.83")},
			{Name: "ns2.rhiyo.com.", Address: netip.MustParseAddr("212.71.246.209")},
		},
		Retries:         DefaultRetries,
		IntervalSeconds: defaultInterval,
		ListenAddr:      ":8080",
		Tracker:         TrackerConfig{Owner: "rhiyo", Repo: "infra"},
	}
}

// Load reads the YAML config at path. A missing file yields Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg := &Config{
		IntervalSeconds: fc.IntervalSeconds,
		ListenAddr:      fc.ListenAddr,
		Database:        fc.Database,
		Tracker:         fc.Tracker,
	}

	cfg.Retries = DefaultRetries
	if fc.Retries != nil {
		cfg.Retries = *fc.Retries
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = defaultInterval
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	for i, s := range fc.Servers {
		ns, err := parseServer(s)
		if err != nil {
			return nil, fmt.Errorf("servers[%d]: %w", i, err)
		}
		cfg.Servers = append(cfg.Servers, ns)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseServer(s fileServer) (models.NameServer, error) {
	if s.Name == "" {
		return models.NameServer{}, errors.New("name is required")
	}
	if !strings.HasSuffix(s.Name, ".") {
		return models.NameServer{}, fmt.Errorf("name %q must be fully qualified (trailing dot)", s.Name)
	}
	addr, err := netip.ParseAddr(s.Address)
	if err != nil {
		return models.NameServer{}, fmt.Errorf("invalid address %q: %w", s.Address, err)
	}
	if !addr.Is4() {
		return models.NameServer{}, fmt.Errorf("address %q is not IPv4", s.Address)
	}
	return models.NameServer{Name: s.Name, Address: addr}, nil
}

func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return errors.New("at least one name server is required")
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must be >= 0, got %d", c.Retries)
	}
	if c.Tracker.Owner == "" || c.Tracker.Repo == "" {
		return errors.New("tracker owner and repo are required")
	}
	return nil
}

// LoadToken reads the GitHub API token from the environment, loading a .env
// file first when one exists.
func LoadToken() (string, error) {
	_ = godotenv.Load()

	token := os.Getenv("GITHUB_API_KEY")
	if token == "" {
		return "", errors.New("GITHUB_API_KEY is not set")
	}
	return token, nil
}
