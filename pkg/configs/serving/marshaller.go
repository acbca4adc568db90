package serving

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultAPIKeyFile is read when no key is configured anywhere else.
// It is where container secrets are mounted.
const DefaultAPIKeyFile = "/run/secrets/api_key"

// Environment variables overriding file values.
const (
	EnvPort        = "PREDICTD_PORT"
	EnvAPIKey      = "PREDICTD_API_KEY"
	EnvAPIKeyFile  = "PREDICTD_API_KEY_FILE"
	EnvModelPrefix = "PREDICTD_MODEL_"
)

// load serving config from a file and the environment.
//
// Environment values win over file values. The API key is resolved in
// order: PREDICTD_API_KEY, the configured key, the configured key file,
// DefaultAPIKeyFile if it exists.
//
// args:
//   - filepath: filepath refers a config file.
//
// returns *ServingConfig, error:
//
//	When loading success, returns `(*ServingConfig, nil)`.
//	Otherwise, returns `(nil, error)`.
func LoadServingConfig(filepath string) (*ServingConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	m, err := unmarshal(content)
	if err != nil {
		return nil, err
	}
	if err := applyEnvironment(m); err != nil {
		return nil, err
	}
	return TrySeal(m), nil
}

// Unmarshal seals config from yaml bytes alone, ignoring the environment.
func Unmarshal(conf []byte) (*ServingConfig, error) {
	m, err := unmarshal(conf)
	if err != nil {
		return nil, err
	}
	return TrySeal(m), nil
}

func unmarshal(conf []byte) (*ServingConfigMarshall, error) {
	var m *ServingConfigMarshall
	if err := yaml.Unmarshal(conf, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = &ServingConfigMarshall{}
	}
	return m, nil
}

func applyEnvironment(m *ServingConfigMarshall) error {
	if v, ok := os.LookupEnv(EnvPort); ok {
		port, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		if m.Server == nil {
			m.Server = &ServerConfigMarshall{}
		}
		m.Server.Port = int32(port)
	}

	if m.Auth == nil {
		m.Auth = &AuthConfigMarshall{}
	}
	if v, ok := os.LookupEnv(EnvAPIKey); ok {
		m.Auth.Key = v
	}
	if v, ok := os.LookupEnv(EnvAPIKeyFile); ok {
		m.Auth.KeyFile = v
	}
	if m.Auth.Key == "" {
		keyFile := m.Auth.KeyFile
		if keyFile == "" {
			if _, err := os.Stat(DefaultAPIKeyFile); err == nil {
				keyFile = DefaultAPIKeyFile
			}
		}
		if keyFile != "" {
			content, err := os.ReadFile(keyFile)
			if err != nil {
				return fmt.Errorf("api key file %s: %w", keyFile, err)
			}
			m.Auth.Key = strings.TrimSpace(string(content))
		}
	}

	for name := range m.Models {
		if v, ok := os.LookupEnv(ModelPathEnv(name)); ok {
			m.Models[name] = v
		}
	}
	return nil
}

// ModelPathEnv names the environment variable overriding the file path of
// the named model. "logistic_model" is overridden by
// PREDICTD_MODEL_LOGISTIC_MODEL.
func ModelPathEnv(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		default:
			return '_'
		}
	}, strings.ToUpper(name))
	return EnvModelPrefix + mapped
}
