package config

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of the JSON config file. Value-level
// checks (key formats, port ranges) live in the Validator methods.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "server": {
      "type": "object",
      "properties": {
        "host": {"type": "string"},
        "port": {"type": "integer"}
      }
    },
    "ai": {
      "type": "object",
      "properties": {
        "provider": {"type": "string", "enum": ["gemini", "openai", "anthropic"]},
        "api_key": {"type": "string"},
        "base_url": {"type": "string"},
        "model": {"type": "string"},
        "temperature": {"type": "number", "minimum": 0, "maximum": 2},
        "max_tokens": {"type": "integer", "minimum": 1}
      }
    },
    "interview": {
      "type": "object",
      "properties": {
        "system_prompt": {"type": "string"},
        "starter_prompt": {"type": "string"},
        "context_prompt": {"type": "string"},
        "fallback_message": {"type": "string"}
      }
    },
    "session": {
      "type": "object",
      "properties": {
        "idle_minutes": {"type": "integer", "minimum": 1},
        "sweep_schedule": {"type": "string"},
        "archive": {"type": "boolean"},
        "archive_dir": {"type": "string"},
        "max_upload_bytes": {"type": "integer", "minimum": 1}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"type": "string", "enum": ["debug", "info", "warn", "error"]},
        "file": {"type": "string"},
        "console": {"type": "boolean"},
        "pretty": {"type": "boolean"},
        "redaction": {"type": "boolean"}
      }
    },
    "data_dir": {"type": "string"}
  }
}`

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSchema checks the raw config document against the JSON schema.
func (v *Validator) ValidateSchema(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateProvider validates the provider name
func (v *Validator) ValidateProvider(provider string) error {
	switch provider {
	case "gemini", "openai", "anthropic":
		return nil
	default:
		return fmt.Errorf("unsupported provider: %q (expected gemini, openai, or anthropic)", provider)
	}
}

// ValidateAPIKey validates an API key for the given provider. An empty key
// is reported with remediation instructions; the service must not start
// without one.
func (v *Validator) ValidateAPIKey(key string, provider string) error {
	if key == "" {
		envKey := envKeyByProvider[provider]
		return fmt.Errorf(
			"missing API credential for %s: set ai.api_key in the config file or export %s",
			provider, envKey,
		)
	}

	switch provider {
	case "anthropic":
		if !strings.HasPrefix(key, "sk-ant-") {
			return fmt.Errorf("invalid Anthropic API key format (should start with sk-ant-)")
		}
	case "openai":
		if !strings.HasPrefix(key, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format (should start with sk-)")
		}
	}

	return nil
}

// ValidateModel validates a model name
func (v *Validator) ValidateModel(model string) error {
	if model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	return nil
}
