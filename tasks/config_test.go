// Copyright 2024 The nrtool authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tasks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrtool/nrtool/scheduler"
)

func writeDataDir(t *testing.T, configContent string, profiles map[string]string) string {
	t.Helper()
	dataDir := t.TempDir()
	for name, content := range profiles {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, ConfigFileName), []byte(configContent), 0o644))
	return dataDir
}

const validProfile = `
grade: "3"
classroom: b
temperature: 36.5
`

func TestLoadConfig(t *testing.T) {
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    uid: "1000"
    cookie: session=abcdef
    profile: alice.yaml
    time: "08:30"
    rayleigh_sigma: 3m20s
    rayleigh_upbound: 10m
  - id: bob
    uid: "1001"
    cookie: session=ghijkl
    profile: alice.yaml
`, map[string]string{"alice.yaml": validProfile})

	config, err := LoadConfig(dataDir)
	require.NoError(t, err)
	require.Len(t, config.Tasks, 2)

	alice := config.Tasks[0]
	assert.Equal(t, "alice", alice.ID)
	assert.True(t, alice.Enabled())
	assert.Equal(t, scheduler.TimeOfDay{Hour: 8, Minute: 30}, alice.TriggerTime())
	assert.Equal(t, 200*time.Second, alice.JitterSigma.Duration())
	assert.Equal(t, 10*time.Minute, alice.JitterBound.Duration())
	assert.Equal(t, filepath.Join(dataDir, "alice.yaml"), alice.ProfilePath)

	bob := config.Tasks[1]
	assert.Equal(t, DefaultTriggerTime, bob.TriggerTime())
	assert.Equal(t, time.Duration(0), bob.JitterSigma.Duration())
}

func TestLoadConfigDisabledTask(t *testing.T) {
	// A disabled task skips every check except the id.
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    enable: false
  - id: bob
    uid: "1001"
    cookie: session=ghijkl
    profile: bob.yaml
`, map[string]string{"bob.yaml": validProfile})

	config, err := LoadConfig(dataDir)
	require.NoError(t, err)
	assert.Len(t, config.Tasks, 2)
	assert.Len(t, config.EnabledTasks(), 1)
	assert.Equal(t, "bob", config.EnabledTasks()[0].ID)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestLoadConfigNoTasksKey(t *testing.T) {
	dataDir := writeDataDir(t, "defaults:\n  grade: \"3\"\n", nil)
	_, err := LoadConfig(dataDir)
	assert.ErrorContains(t, err, "no `tasks` list")
}

func TestLoadConfigMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"no id", "tasks:\n  - uid: \"1000\"\n    cookie: c\n    profile: p.yaml\n"},
		{"no uid", "tasks:\n  - id: alice\n    cookie: c\n    profile: p.yaml\n"},
		{"no cookie", "tasks:\n  - id: alice\n    uid: \"1000\"\n    profile: p.yaml\n"},
		{"no profile", "tasks:\n  - id: alice\n    uid: \"1000\"\n    cookie: c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataDir := writeDataDir(t, tt.config, map[string]string{"p.yaml": validProfile})
			_, err := LoadConfig(dataDir)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingProfile(t *testing.T) {
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    uid: "1000"
    cookie: c
    profile: nothere.yaml
`, nil)
	_, err := LoadConfig(dataDir)
	assert.ErrorContains(t, err, "is not found")
}

func TestLoadConfigInvalidProfile(t *testing.T) {
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    uid: "1000"
    cookie: c
    profile: broken.yaml
`, map[string]string{"broken.yaml": "grade: [unclosed\n"})
	_, err := LoadConfig(dataDir)
	assert.Error(t, err)
}

func TestLoadConfigInvalidTime(t *testing.T) {
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    uid: "1000"
    cookie: c
    profile: p.yaml
    time: "25:00"
`, map[string]string{"p.yaml": validProfile})
	_, err := LoadConfig(dataDir)
	assert.Error(t, err)
}

func TestLoadConfigInvalidJitter(t *testing.T) {
	dataDir := writeDataDir(t, `
tasks:
  - id: alice
    uid: "1000"
    cookie: c
    profile: p.yaml
    rayleigh_sigma: soon
`, map[string]string{"p.yaml": validProfile})
	_, err := LoadConfig(dataDir)
	assert.Error(t, err)
}
