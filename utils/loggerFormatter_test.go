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

package utils

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntry(message string, fields logrus.Fields) *logrus.Entry {
	entry := logrus.WithFields(fields)
	entry.Time = time.Date(2024, time.March, 12, 7, 0, 0, 0, time.UTC)
	entry.Level = logrus.InfoLevel
	entry.Message = message
	return entry
}

func TestLoggerFormatter(t *testing.T) {
	t.Parallel()
	formatter := LoggerFormatter{
		PrefixFields:  []string{"component"},
		DisableColors: true,
	}

	output, err := formatter.Format(makeEntry("task loaded", logrus.Fields{
		"component": "runner",
		"task":      "alice",
	}))
	require.NoError(t, err)
	assert.Equal(
		t,
		"2024-03-12T07:00:00Z [INFO] [runner] task loaded [task:alice]\n",
		string(output),
	)
}

func TestLoggerFormatterSortsExtraFields(t *testing.T) {
	t.Parallel()
	formatter := LoggerFormatter{
		PrefixFields:  []string{"component"},
		DisableColors: true,
	}

	output, err := formatter.Format(makeEntry("report submitted", logrus.Fields{
		"component": "runner",
		"task":      "alice",
		"archive":   "report_alice_20240312.log",
	}))
	require.NoError(t, err)
	assert.Equal(
		t,
		"2024-03-12T07:00:00Z [INFO] [runner] report submitted"+
			" [archive:report_alice_20240312.log] [task:alice]\n",
		string(output),
	)
}

func TestLoggerFormatterColors(t *testing.T) {
	t.Parallel()
	formatter := LoggerFormatter{PrefixFields: []string{"component"}}

	output, err := formatter.Format(makeEntry("starting", logrus.Fields{"component": "cmd"}))
	require.NoError(t, err)
	assert.Contains(t, string(output), "\x1b[36m[INFO]")
	assert.Contains(t, string(output), "\x1b[0m")
}
