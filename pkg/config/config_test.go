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
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Config_01(t *testing.T) {
	cfg := Default()
	//
	require.NoError(t, cfg.Validate())
	assert.Equal(t, PoincareAuto, cfg.Poincare)
	assert.Equal(t, CompressionZstd, cfg.Compression)
}

func Test_Config_02(t *testing.T) {
	cfg, err := Parse([]byte("workers: 4\nsanity: true\npoincare: closed\n"))
	//
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Sanity)
	assert.Equal(t, PoincareClosed, cfg.Poincare)
	// Untouched values keep their defaults
	assert.Equal(t, "info", cfg.LogLevel)
}

func Test_Config_03(t *testing.T) {
	_, err := Parse([]byte("poincare: magic\n"))
	assert.Error(t, err)
	//
	_, err = Parse([]byte("workers: -1\n"))
	assert.Error(t, err)
	//
	_, err = Parse([]byte("workers: [\n"))
	assert.Error(t, err)
}

func Test_Config_04(t *testing.T) {
	t.Setenv(EnvWorkers, "3")
	t.Setenv(EnvCompression, "lz4")
	//
	cfg, err := Parse([]byte("workers: 8\n"))
	//
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, CompressionLz4, cfg.Compression)
	//
	t.Setenv(EnvSanity, "maybe")
	_, err = Parse(nil)
	assert.Error(t, err)
}

func Test_Config_05(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0o600))
	//
	cfg, err := Load(path)
	require.NoError(t, err)
	//
	level := log.GetLevel()
	defer log.SetLevel(level)
	//
	require.NoError(t, cfg.Apply())
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	//
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
