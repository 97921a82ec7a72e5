package config

import (
	"errors"
	"strings"
)

// Config is the top-level configuration for update-headers.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Report  ReportConfig  `mapstructure:"report"`
	History HistoryConfig `mapstructure:"history"`
	Header  HeaderConfig  `mapstructure:"header"`
}

// ReportConfig holds change report output settings.
type ReportConfig struct {
	Output string `mapstructure:"output"`
}

// HistoryConfig holds annotation ledger paths.
type HistoryConfig struct {
	Path           string `mapstructure:"path"`
	MissingAuthors string `mapstructure:"missing_authors"`
}

// HeaderConfig holds header annotation settings.
type HeaderConfig struct {
	Extensions     []string `mapstructure:"extensions"`
	CommentLeader  string   `mapstructure:"comment_leader"`
	ChangeIDPrefix string   `mapstructure:"change_id_prefix"`
}

var (
	ErrNoExtensions      = errors.New("header.extensions must name at least one extension")
	ErrBadExtension      = errors.New("header extensions must start with a dot")
	ErrEmptyLeader       = errors.New("header.comment_leader must not be empty")
	ErrEmptyReportOutput = errors.New("report.output must not be empty")
	ErrEmptyHistoryPath  = errors.New("history.path must not be empty")
)

// Validate checks the configuration for values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Report.Output == "" {
		return ErrEmptyReportOutput
	}

	if c.History.Path == "" {
		return ErrEmptyHistoryPath
	}

	if len(c.Header.Extensions) == 0 {
		return ErrNoExtensions
	}

	for _, ext := range c.Header.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return ErrBadExtension
		}
	}

	if c.Header.CommentLeader == "" {
		return ErrEmptyLeader
	}

	return nil
}
