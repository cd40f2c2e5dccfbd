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

package runner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nrtool/nrtool/reportlog"
)

func writeDataDir(t *testing.T, configContent string, profiles map[string]string) string {
	t.Helper()
	dataDir := t.TempDir()
	for name, content := range profiles {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, name), []byte(content), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "tasks.yaml"), []byte(configContent), 0o644))
	return dataDir
}

const testConfig = `
defaults:
  campus: north
tasks:
  - id: alice
    uid: "1000"
    cookie: session=abcdef
    profile: alice.yaml
  - id: carol
    enable: false
`

const testProfile = "grade: \"3\"\nclassroom: b\n"

func TestRunMissingConfig(t *testing.T) {
	err := Run(context.Background(), Options{
		DataDir:  t.TempDir(),
		Endpoint: "https://api.example.com/report",
	})
	assert.Error(t, err)
}

func TestRunNoEnabledTask(t *testing.T) {
	dataDir := writeDataDir(t, "tasks:\n  - id: carol\n    enable: false\n", nil)
	err := Run(context.Background(), Options{
		DataDir:  dataDir,
		Endpoint: "https://api.example.com/report",
	})
	assert.ErrorContains(t, err, "no enabled task")
}

func TestRunMissingEndpoint(t *testing.T) {
	dataDir := writeDataDir(t, testConfig, map[string]string{"alice.yaml": testProfile})
	err := Run(context.Background(), Options{DataDir: dataDir})
	assert.ErrorContains(t, err, "no API endpoint")
}

func TestSendOnce(t *testing.T) {
	dataDir := writeDataDir(t, testConfig, map[string]string{"alice.yaml": testProfile})
	reportDir := filepath.Join(t.TempDir(), "reports")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())
		assert.Equal(t, "1000", req.PostForm.Get("uid"))
		assert.Equal(t, "3", req.PostForm.Get("grade"))
		// config-level default merged underneath the profile
		assert.Equal(t, "north", req.PostForm.Get("campus"))
		assert.Equal(t, "session=abcdef", req.Header.Get("Cookie"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"e": 0, "m": "ok"})
	}))
	defer server.Close()

	err := SendOnce(context.Background(), Options{
		DataDir:   dataDir,
		ReportDir: reportDir,
		Endpoint:  server.URL,
	}, "alice")
	require.NoError(t, err)

	archives, err := reportlog.List(reportDir)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, "alice", archives[0].TaskID)

	entry, err := reportlog.Read(archives[0].Path)
	require.NoError(t, err)
	payload := entry.Payload.(map[string]interface{})
	assert.Equal(t, "3", payload["grade"])
	assert.Equal(t, "8749065", payload["id"])
	response := entry.Response.(map[string]interface{})
	assert.Equal(t, "ok", response["m"])
}

func TestSendOnceUnknownTask(t *testing.T) {
	dataDir := writeDataDir(t, testConfig, map[string]string{"alice.yaml": testProfile})
	err := SendOnce(context.Background(), Options{
		DataDir:  dataDir,
		Endpoint: "https://api.example.com/report",
	}, "dave")
	assert.ErrorContains(t, err, "no task")
}

func TestSendOnceDisabledTask(t *testing.T) {
	dataDir := writeDataDir(t, testConfig, map[string]string{"alice.yaml": testProfile})
	err := SendOnce(context.Background(), Options{
		DataDir:  dataDir,
		Endpoint: "https://api.example.com/report",
	}, "carol")
	assert.ErrorContains(t, err, "disabled")
}
