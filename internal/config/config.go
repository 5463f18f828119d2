// Package config resolves all adapter settings once at startup.
// Precedence: environment variables over the optional YAML config file
// over built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the resolved, immutable adapter settings.
type Config struct {
	AppName       string
	Endpoint      string
	Host          string
	Timeout       int // whole seconds
	IngestionKey  string
	DisableLevels bool
	Hostname      string // override; empty means use the local hostname
	UseTargetHost bool

	IgnoreStatuses []string
	IgnoreActions  []string
	IgnoreRoles    []string
	IgnorePlays    []string

	IPAddress  string // override, "disabled" sentinel, or empty for autodetect
	MACAddress string
	Tags       []string
	LogFormat  string // custom line template; empty means the default

	Gzip     bool
	LogLevel string // adapter's own diagnostic log level
}

// fileValues mirrors the YAML config file. Pointer fields distinguish
// "absent" from a zero value so the env/file/default layering stays exact.
type fileValues struct {
	AppName        string `yaml:"appname"`
	Endpoint       string `yaml:"endpoint"`
	Host           string `yaml:"host"`
	Timeout        *int   `yaml:"timeout"`
	IngestionKey   string `yaml:"ingestion_key"`
	DisableLevels  *bool  `yaml:"disable_loglevels"`
	Hostname       string `yaml:"hostname"`
	UseTargetHost  *bool  `yaml:"use_target_host_for_hostname"`
	IgnoreStatuses string `yaml:"ignore_status_names"`
	IgnoreActions  string `yaml:"ignore_action_names"`
	IgnoreRoles    string `yaml:"ignore_role_names"`
	IgnorePlays    string `yaml:"ignore_play_names"`
	IPAddress      string `yaml:"ip_address"`
	MACAddress     string `yaml:"mac_address"`
	Tags           string `yaml:"tags"`
	LogFormat      string `yaml:"log_format"`
	Gzip           *bool  `yaml:"gzip"`
	LogLevel       string `yaml:"log_level"`
}

// Load reads configuration from LOGDNA_* environment variables layered
// over the YAML file named by LOGDNA_CONFIG_FILE, if any. A missing
// ingestion key is not an error here; it disables delivery downstream.
func Load() (Config, error) {
	var fv fileValues
	if path := os.Getenv("LOGDNA_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, &fv); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg := Config{
		AppName:        getenv("LOGDNA_APPNAME", fv.AppName, "ansible"),
		Endpoint:       getenv("LOGDNA_ENDPOINT", fv.Endpoint, "/logs/ingest"),
		Host:           getenv("LOGDNA_HOST", fv.Host, "logs.logdna.com"),
		Timeout:        getenvInt("LOGDNA_TIMEOUT", fv.Timeout, 5),
		IngestionKey:   getenv("LOGDNA_INGESTION_KEY", fv.IngestionKey, ""),
		DisableLevels:  getenvBool("LOGDNA_DISABLE_LOGLEVELS", fv.DisableLevels, false),
		Hostname:       getenv("LOGDNA_HOSTNAME", fv.Hostname, ""),
		UseTargetHost:  getenvBool("LOGDNA_USE_TARGET_HOST_FOR_HOSTNAME", fv.UseTargetHost, false),
		IgnoreStatuses: splitList(getenv("LOGDNA_IGNORE_STATUS_NAMES", fv.IgnoreStatuses, "")),
		IgnoreActions:  splitList(getenv("LOGDNA_IGNORE_ACTION_NAMES", fv.IgnoreActions, "")),
		IgnoreRoles:    splitList(getenv("LOGDNA_IGNORE_ROLE_NAMES", fv.IgnoreRoles, "")),
		IgnorePlays:    splitList(getenv("LOGDNA_IGNORE_PLAY_NAMES", fv.IgnorePlays, "")),
		IPAddress:      getenv("LOGDNA_IP_ADDRESS", fv.IPAddress, ""),
		MACAddress:     getenv("LOGDNA_MAC_ADDRESS", fv.MACAddress, ""),
		Tags:           splitList(getenv("LOGDNA_TAGS", fv.Tags, "")),
		LogFormat:      getenv("LOGDNA_LOG_FORMAT", fv.LogFormat, ""),
		Gzip:           getenvBool("LOGDNA_GZIP", fv.Gzip, false),
		LogLevel:       getenv("LOGDNA_LOG_LEVEL", fv.LogLevel, "info"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5
	}
	return cfg, nil
}

// Disabled reports whether delivery is switched off entirely. Absence of
// the ingestion key degrades the adapter instead of failing the host run.
func (c Config) Disabled() bool {
	return c.IngestionKey == ""
}

func getenv(key, fileVal, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fileVal != "" {
		return fileVal
	}
	return fallback
}

func getenvInt(key string, fileVal *int, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		return fallback
	}
	if fileVal != nil {
		return *fileVal
	}
	return fallback
}

func getenvBool(key string, fileVal *bool, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		return fallback
	}
	if fileVal != nil {
		return *fileVal
	}
	return fallback
}

// splitList splits a comma-separated value into trimmed, non-empty items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
