package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config models recall.yml.
type Config struct {
	Service struct {
		Name string `yaml:"name"`
	} `yaml:"service"`
	API struct {
		ListenAddr string `yaml:"listen_addr"`
		BasePath   string `yaml:"base_path"`
		JWTSecret  string `yaml:"jwt_secret"`
	} `yaml:"api"`
	HMPPSAuth struct {
		TokenURL     string `yaml:"token_url"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"hmpps_auth"`
	Collaborators struct {
		CalculationURL    string `yaml:"calculation_url"`
		CaseManagementURL string `yaml:"case_management_url"`
		AdjustmentsURL    string `yaml:"adjustments_url"`
	} `yaml:"collaborators"`
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "recall.yml")
}

// Load reads and validates config from the workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with record-a-recall config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets the required structure.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("config.service.name is required")
	}
	if c.API.BasePath != "" && !strings.HasPrefix(c.API.BasePath, "/") {
		return fmt.Errorf("config.api.base_path must start with /")
	}
	for _, u := range []struct{ name, value string }{
		{"collaborators.calculation_url", c.Collaborators.CalculationURL},
		{"collaborators.case_management_url", c.Collaborators.CaseManagementURL},
		{"collaborators.adjustments_url", c.Collaborators.AdjustmentsURL},
	} {
		if u.value == "" {
			return fmt.Errorf("config.%s is required", u.name)
		}
	}
	if c.HMPPSAuth.TokenURL != "" && (c.HMPPSAuth.ClientID == "" || c.HMPPSAuth.ClientSecret == "") {
		return fmt.Errorf("config.hmpps_auth needs client_id and client_secret when token_url is set")
	}
	return nil
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// GenerateDefault returns the default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

const defaultTemplate = `service:
  name: record-a-recall

api:
  listen_addr: ":8080"
  base_path: /v0
  jwt_secret: ""

hmpps_auth:
  token_url: ""
  client_id: ""
  client_secret: ""

collaborators:
  calculation_url: http://localhost:8081
  case_management_url: http://localhost:8082
  adjustments_url: http://localhost:8083
`
