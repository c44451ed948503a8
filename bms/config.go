// Copyright 2025 go-bitonic Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bms

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/ajroetker/go-bitonic/internal/logutil"
)

// Config defines the settings of an Engine.
type Config struct {
	// GroupCapacity is the maximum number of lanes per execution group.
	// Zero selects DefaultGroupCapacity().
	GroupCapacity int `toml:"group-capacity"`

	// Flat selects the Global-only plan. Only useful as a baseline.
	Flat bool `toml:"flat"`

	// TracePairs logs every compare-exchange at debug level.
	TracePairs bool `toml:"trace-pairs"`

	Log logutil.LogConfig `toml:"log"`
}

// LoadConfig reads a TOML configuration file, fills defaults and validates
// the result.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "decode %s", path)
	}
	cfg.Fill()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Fill sets defaults for unset fields.
func (c *Config) Fill() {
	if c.GroupCapacity == 0 {
		c.GroupCapacity = DefaultGroupCapacity()
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.GroupCapacity < 1 {
		return errors.Wrapf(ErrInvalidConfig, "group-capacity=%d", c.GroupCapacity)
	}
	return nil
}
