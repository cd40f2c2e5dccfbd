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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
grade: "3"
classroom: b
temperature: 36.5
healthy: true
remark:
`)

	fields, err := LoadProfile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"grade":       "3",
		"classroom":   "b",
		"temperature": "36.5",
		"healthy":     "true",
		"remark":      "",
	}, fields)
}

func TestLoadProfileDefaults(t *testing.T) {
	path := writeProfile(t, "classroom: b\n")

	fields, err := LoadProfile(path, map[string]interface{}{
		"classroom": "a",
		"campus":    "north",
	})
	require.NoError(t, err)
	// The profile wins over the defaults.
	assert.Equal(t, map[string]string{
		"classroom": "b",
		"campus":    "north",
	}, fields)
}

func TestLoadProfileMissing(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "nothere.yaml"), nil)
	assert.Error(t, err)
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	path := writeProfile(t, "grade: [unclosed\n")
	_, err := LoadProfile(path, nil)
	assert.Error(t, err)
}
