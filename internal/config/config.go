// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	// EnvConfigJSON holds a JSON document merged over the TOML configuration.
	EnvConfigJSON = "CURTAIN_CONFIG_JSON"

	// DefaultPath is used when no config directory was given.
	DefaultPath = "./etc/"

	// DefaultLoginPath is the login endpoint the curtain never blocks.
	DefaultLoginPath = "/login"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if path == "" {
		path = DefaultPath
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the handful of settings the daemon cannot start without
// and fills in defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.GormEngine {
	case "":
		c.DB.GormEngine = EngineSQLite
	case EngineSQLite, EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownGormEngine, c.DB.GormEngine)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // set default of 5 seconds
	}

	if c.Curtain.LoginPath == "" {
		c.Curtain.LoginPath = DefaultLoginPath
	}

	return nil
}
