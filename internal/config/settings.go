// Package config loads the process settings shared by the front ends.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Duration is a time.Duration written as "10s" or "250ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

type SSHSettings struct {
	Host        string `toml:"host"`
	Port        string `toml:"port"`
	HostKeyPath string `toml:"host_key_path"`
}

type WebSettings struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	SSHHost string `toml:"ssh_host"` // Shown on the page; empty derives it from the SSH settings
}

type CommentarySettings struct {
	Provider string   `toml:"provider"` // "gemini", "canned" or "off"
	APIKey   string   `toml:"api_key"`
	Model    string   `toml:"model"`
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// Settings holds process-level options shared by the front ends.
type Settings struct {
	TickRate   int                `toml:"tick_rate"`
	LogLevel   string             `toml:"log_level"`
	SSH        SSHSettings        `toml:"ssh"`
	Web        WebSettings        `toml:"web"`
	Commentary CommentarySettings `toml:"commentary"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		TickRate: 60,
		LogLevel: "info",
		SSH: SSHSettings{
			Host:        "localhost",
			Port:        "23234",
			HostKeyPath: ".ssh/id_ed25519",
		},
		Web: WebSettings{
			Host: "localhost",
			Port: "8080",
		},
		Commentary: CommentarySettings{
			Provider: "gemini",
			Timeout:  Duration{10 * time.Second},
		},
	}
}

// Load reads settings from the TOML file named by DARTS_CONFIG (a missing
// file is not an error) and then applies environment overrides.
func Load() (Settings, error) {
	s := DefaultSettings()

	path := "darts.toml"
	overrideString("DARTS_CONFIG", &path)
	if _, err := toml.DecodeFile(path, &s); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s, fmt.Errorf("load %s: %w", path, err)
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}
	return s, s.Validate()
}

func (s *Settings) applyEnv() error {
	if err := overrideInt("DARTS_TICK_RATE", &s.TickRate); err != nil {
		return err
	}
	overrideString("DARTS_LOG_LEVEL", &s.LogLevel)

	overrideString("SSH_HOST", &s.SSH.Host)
	overrideString("SSH_PORT", &s.SSH.Port)
	overrideString("SSH_HOST_KEY", &s.SSH.HostKeyPath)

	overrideString("WEB_HOST", &s.Web.Host)
	overrideString("WEB_PORT", &s.Web.Port)
	overrideString("SSH_DISPLAY_HOST", &s.Web.SSHHost)

	overrideString("DARTS_COMMENTARY", &s.Commentary.Provider)
	overrideString("API_KEY", &s.Commentary.APIKey)
	overrideString("GEMINI_API_KEY", &s.Commentary.APIKey) // Wins over API_KEY
	overrideString("GEMINI_MODEL", &s.Commentary.Model)
	return nil
}

// overrideString replaces *dst with the variable named by key when it is
// set to a non-empty value.
func overrideString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overrideInt(key string, dst *int) error {
	var v string
	overrideString(key, &v)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// SSHDisplayHost is the address the web page advertises for terminal play.
func (s Settings) SSHDisplayHost() string {
	if s.Web.SSHHost != "" {
		return s.Web.SSHHost
	}
	return net.JoinHostPort(s.SSH.Host, s.SSH.Port)
}

// Validate reports settings that cannot be used.
func (s Settings) Validate() error {
	if s.TickRate <= 0 || s.TickRate > 240 {
		return fmt.Errorf("tick_rate %d out of range 1..240", s.TickRate)
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch s.Commentary.Provider {
	case "gemini", "canned", "off":
	default:
		return fmt.Errorf("commentary.provider %q: want gemini, canned or off", s.Commentary.Provider)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (s Settings) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
