// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Poincaré polynomial strategies.
const (
	// PoincareAuto uses deletion-restriction for lazy lattices, and the
	// characteristic polynomial once the poset of flats exists.
	PoincareAuto = "auto"
	// PoincareRecursive always attempts deletion-restriction first.
	PoincareRecursive = "recursive"
	// PoincareClosed always uses the characteristic polynomial.
	PoincareClosed = "closed"
)

// Compression codecs for persisted lattices.
const (
	CompressionNone = "none"
	CompressionLz4  = "lz4"
	CompressionZstd = "zstd"
)

// Environment variables overriding configuration values.
const (
	EnvWorkers     = "FLATS_WORKERS"
	EnvSanity      = "FLATS_SANITY"
	EnvPoincare    = "FLATS_POINCARE"
	EnvLogLevel    = "FLATS_LOG_LEVEL"
	EnvCompression = "FLATS_COMPRESSION"
)

// Config determines how lattices are constructed and persisted.
type Config struct {
	// Number of workers used for parallel construction and classification,
	// where zero means one per available CPU.
	Workers int `yaml:"workers" validate:"gte=0"`
	// Enables exhaustive self-verification after construction.
	Sanity bool `yaml:"sanity"`
	// Strategy for computing Poincaré polynomials.
	Poincare string `yaml:"poincare" validate:"oneof=auto recursive closed"`
	// Logging level.
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	// Codec used when saving lattices.
	Compression string `yaml:"compression" validate:"oneof=none lz4 zstd"`
}

var validate = validator.New()

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers:     0,
		Sanity:      false,
		Poincare:    PoincareAuto,
		LogLevel:    "info",
		Compression: CompressionZstd,
	}
}

// Load reads a configuration from a given yaml file, on top of the defaults.
// Environment overrides are then applied before the result is validated.
func Load(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	//
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}
	//
	return Parse(bytes)
}

// Parse a configuration from yaml, on top of the defaults.  Environment
// overrides are then applied before the result is validated.
func Parse(bytes []byte) (Config, error) {
	cfg := Default()
	//
	if err := yaml.Unmarshal(bytes, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing configuration")
	} else if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	} else if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	//
	return cfg, nil
}

// ApplyEnv overrides configuration values from any environment variables
// which are set.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		//
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvWorkers)
		}
		//
		c.Workers = n
	}
	//
	if v, ok := os.LookupEnv(EnvSanity); ok {
		b, err := strconv.ParseBool(v)
		//
		if err != nil {
			return errors.Wrapf(err, "invalid %s", EnvSanity)
		}
		//
		c.Sanity = b
	}
	//
	if v, ok := os.LookupEnv(EnvPoincare); ok {
		c.Poincare = v
	}
	//
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	//
	if v, ok := os.LookupEnv(EnvCompression); ok {
		c.Compression = v
	}
	//
	return nil
}

// Validate checks every configuration value is permitted.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	//
	return nil
}

// Apply configures global state (i.e. logging) from this configuration.
func (c Config) Apply() error {
	level, err := log.ParseLevel(c.LogLevel)
	//
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	//
	log.SetLevel(level)
	//
	return nil
}
