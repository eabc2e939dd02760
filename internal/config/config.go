package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/Zuo-Peng/csvtool/internal/logging"
	"github.com/Zuo-Peng/csvtool/internal/rewrite"
)

type Config struct {
	Delimiter      string `toml:"delimiter"`
	NormalizeCells bool   `toml:"normalize_cells"`
	OnParseError   string `toml:"on_parse_error"`
	RecordHistory  bool   `toml:"record_history"`
	HistoryPath    string `toml:"history_path"`
	LogLevel       string `toml:"log_level"`

	// Path is the file the config was read from, empty if none existed.
	Path string `toml:"-"`
}

// Dir returns ~/.config/csvtool.
func Dir(home string) string {
	return filepath.Join(home, ".config", "csvtool")
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFile(filepath.Join(Dir(home), "config.toml"), home)
}

// LoadFile applies the TOML file at cfgPath, if present, over the defaults.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		Delimiter:     ",",
		OnParseError:  "abort",
		RecordHistory: true,
		HistoryPath:   filepath.Join(Dir(home), "history.db"),
		LogLevel:      "warn",
	}

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		cfg.Path = cfgPath
	}

	cfg.HistoryPath = expandHome(cfg.HistoryPath, home)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if _, err := rewrite.ParsePolicy(c.OnParseError); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Policy returns the configured parse error policy. Call Validate first.
func (c *Config) Policy() rewrite.Policy {
	p, _ := rewrite.ParsePolicy(c.OnParseError)
	return p
}

// DelimiterRune returns the configured field separator. Call Validate first.
func (c *Config) DelimiterRune() rune {
	r, _ := ParseDelimiter(c.Delimiter)
	return r
}

// ParseDelimiter accepts exactly one character; `\t` is accepted for tab.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
