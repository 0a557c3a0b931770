// Package setup registers the MCP server with desktop MCP clients.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// DefaultServerKey is the entry name written under mcpServers.
const DefaultServerKey = "disease-support"

// BinaryName is the MCP server executable looked up when no path is given.
const BinaryName = "mcp-server"

// ServerEntry is a single MCP server launch configuration.
type ServerEntry struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// ClientConfig is a desktop client configuration file. Keys other than
// mcpServers are preserved on save.
type ClientConfig struct {
	MCPServers map[string]ServerEntry
	extra      map[string]json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *ClientConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.MCPServers = make(map[string]ServerEntry)
	if servers, ok := raw["mcpServers"]; ok {
		if err := json.Unmarshal(servers, &c.MCPServers); err != nil {
			return fmt.Errorf("mcpServers: %w", err)
		}
		if c.MCPServers == nil {
			c.MCPServers = make(map[string]ServerEntry)
		}
		delete(raw, "mcpServers")
	}
	c.extra = raw
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c ClientConfig) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(c.extra)+1)
	for k, v := range c.extra {
		out[k] = v
	}
	servers := c.MCPServers
	if servers == nil {
		servers = map[string]ServerEntry{}
	}
	out["mcpServers"] = servers
	return json.Marshal(out)
}

// Options contains options for Install.
type Options struct {
	ConfigPath    string // client config file, defaults to DesktopConfigPath
	ServerKey     string // defaults to DefaultServerKey
	BinaryPath    string // defaults to a lookup of BinaryName
	CataloguePath string // passed to the server as DSS_CATALOGUE_PATH
	LogLevel      string // passed to the server as DSS_LOGGING_LEVEL
}

// DesktopConfigPath returns the path to the desktop client's config file.
func DesktopConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			configDir = filepath.Join(xdg, "Claude")
			break
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config", "Claude")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// LoadConfig reads a client config. A missing file yields an empty config.
func LoadConfig(configPath string) (*ClientConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &ClientConfig{MCPServers: make(map[string]ServerEntry)}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ClientConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// SaveConfig writes config to configPath, creating its directory.
func SaveConfig(configPath string, config *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Install adds or replaces the server entry in the client config and returns
// the path it wrote.
func Install(opts Options) (string, error) {
	opts, err := resolve(opts)
	if err != nil {
		return "", err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		binaryPath, err = FindBinary(BinaryName)
		if err != nil {
			return "", fmt.Errorf("could not find server binary: %w", err)
		}
	}

	config, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	entry := ServerEntry{Command: binaryPath}
	if opts.CataloguePath != "" || opts.LogLevel != "" {
		entry.Env = make(map[string]string)
	}
	if opts.CataloguePath != "" {
		entry.Env["DSS_CATALOGUE_PATH"] = opts.CataloguePath
	}
	if opts.LogLevel != "" {
		entry.Env["DSS_LOGGING_LEVEL"] = opts.LogLevel
	}
	config.MCPServers[opts.ServerKey] = entry

	if err := SaveConfig(opts.ConfigPath, config); err != nil {
		return "", err
	}
	return opts.ConfigPath, nil
}

// Status represents the current registration state.
type Status struct {
	ConfigPath string      `json:"config_path"`
	Configured bool        `json:"configured"`
	Entry      ServerEntry `json:"entry"`
	Issues     []string    `json:"issues,omitempty"`
}

// GetStatus reports whether the server is registered and launchable.
func GetStatus(opts Options) (*Status, error) {
	opts, err := resolve(opts)
	if err != nil {
		return nil, err
	}

	config, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	status := &Status{ConfigPath: opts.ConfigPath}
	entry, ok := config.MCPServers[opts.ServerKey]
	if !ok {
		status.Issues = append(status.Issues, fmt.Sprintf("%s is not registered", opts.ServerKey))
		return status, nil
	}

	status.Configured = true
	status.Entry = entry

	info, err := os.Stat(entry.Command)
	switch {
	case err != nil:
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found: %s", entry.Command))
	case runtime.GOOS != "windows" && info.Mode()&0111 == 0:
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary is not executable: %s", entry.Command))
	}
	if path := entry.Env["DSS_CATALOGUE_PATH"]; path != "" {
		if _, err := os.Stat(path); err != nil {
			status.Issues = append(status.Issues, fmt.Sprintf("Catalogue not found: %s", path))
		}
	}

	return status, nil
}

// FindBinary looks for name on PATH, then in common build locations.
func FindBinary(name string) (string, error) {
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	locations := []string{
		"./" + name,
		"./bin/" + name,
		"./build/" + name,
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".local", "bin", name))
	}
	locations = append(locations, "/usr/local/bin/"+name)

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			absPath, err := filepath.Abs(loc)
			if err != nil {
				return loc, nil
			}
			return absPath, nil
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", name)
}

func resolve(opts Options) (Options, error) {
	if opts.ServerKey == "" {
		opts.ServerKey = DefaultServerKey
	}
	if opts.ConfigPath == "" {
		path, err := DesktopConfigPath()
		if err != nil {
			return opts, err
		}
		opts.ConfigPath = path
	}
	return opts, nil
}
