// Package config loads and validates the interview service configuration.
package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main service configuration
type Config struct {
	// HTTP server
	Server ServerConfig `json:"server" mapstructure:"server"`

	// AI provider
	AI AIConfig `json:"ai" mapstructure:"ai"`

	// Interviewer persona
	Interview InterviewConfig `json:"interview" mapstructure:"interview"`

	// Session lifecycle
	Session SessionConfig `json:"session" mapstructure:"session"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// AIConfig holds the chat provider configuration. APIKey may be left empty
// in the file and supplied through the provider's conventional environment
// variable instead.
type AIConfig struct {
	Provider    string  `json:"provider" mapstructure:"provider"` // gemini, openai, anthropic
	APIKey      string  `json:"api_key" mapstructure:"api_key"`
	BaseURL     string  `json:"base_url" mapstructure:"base_url"`
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
}

// InterviewConfig holds the interviewer persona prompts
type InterviewConfig struct {
	SystemPrompt    string `json:"system_prompt" mapstructure:"system_prompt"`
	StarterPrompt   string `json:"starter_prompt" mapstructure:"starter_prompt"`
	ContextPrompt   string `json:"context_prompt" mapstructure:"context_prompt"`
	FallbackMessage string `json:"fallback_message" mapstructure:"fallback_message"`
}

// SessionConfig holds session lifecycle settings
type SessionConfig struct {
	IdleMinutes    int    `json:"idle_minutes" mapstructure:"idle_minutes"`
	SweepSchedule  string `json:"sweep_schedule" mapstructure:"sweep_schedule"`
	Archive        bool   `json:"archive" mapstructure:"archive"`
	ArchiveDir     string `json:"archive_dir" mapstructure:"archive_dir"`
	MaxUploadBytes int64  `json:"max_upload_bytes" mapstructure:"max_upload_bytes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Console   bool   `json:"console" mapstructure:"console"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns a config with default values. The persona defaults
// mirror the interview partner product: one question at a time, no answers,
// resume-aware questioning when context is uploaded.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Temperature: 0.7,
			MaxTokens:   2048,
		},
		Interview: InterviewConfig{
			SystemPrompt: "You are a professional, expert-level technical interviewer for a " +
				"senior software developer position. Your goal is to assess the candidate's " +
				"knowledge and problem-solving skills. Ask only one question at a time. " +
				"Do not provide the answer or solutions. Provide constructive feedback " +
				"or a follow-up question based on the user's response.",
			StarterPrompt: "Start the interview now by asking your first question.",
			ContextPrompt: "Analyze this resume image. The interview questions you generate " +
				"must be directly based on the skills and experience listed in this resume. " +
				"Do not mention the image directly, just use it for context.",
			FallbackMessage: "Sorry, I could not generate a response just now. " +
				"Please send your answer again.",
		},
		Session: SessionConfig{
			IdleMinutes:    30,
			SweepSchedule:  "@every 5m",
			Archive:        false,
			MaxUploadBytes: 5 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Console:   true,
			Pretty:    true,
			Redaction: true,
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// Validate checks if the configuration is valid. A missing API credential
// is reported with remediation instructions; the caller treats it as fatal
// and processes no turns.
func (c *Config) Validate() error {
	v := NewValidator()

	if err := v.ValidateProvider(c.AI.Provider); err != nil {
		return err
	}
	if err := v.ValidateAPIKey(c.AI.APIKey, c.AI.Provider); err != nil {
		return err
	}
	if err := v.ValidateModel(c.AI.Model); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Session.IdleMinutes <= 0 {
		return fmt.Errorf("session idle_minutes must be positive")
	}
	if c.Session.MaxUploadBytes <= 0 {
		return fmt.Errorf("session max_upload_bytes must be positive")
	}
	return nil
}
