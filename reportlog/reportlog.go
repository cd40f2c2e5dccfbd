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

// Package reportlog archives submitted reports as per-task per-day JSON
// files.
package reportlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Entry is the archived record of one submission.
type Entry struct {
	TaskID   string      `json:"task_id"`
	Payload  interface{} `json:"payload"`
	Response interface{} `json:"response"`
}

var archiveNameRegex = regexp.MustCompile(`^report_(.+)_(\d{8})\.log$`)

func archiveName(taskID string, date string) string {
	return fmt.Sprintf("report_%s_%s.log", taskID, date)
}

// Write archives the payload and response of a submission, creating the
// directory if needed. A same-day archive of the task is overwritten.
// It returns the path of the written file.
func Write(dir string, taskID string, date string, payload interface{}, response interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create the report directory %q: %w", dir, err)
	}

	content, err := json.MarshalIndent(Entry{
		TaskID:   taskID,
		Payload:  payload,
		Response: response,
	}, "", "    ")
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, archiveName(taskID, date))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("unable to write the report archive %q: %w", path, err)
	}

	return path, nil
}

// ArchiveInfo identifies one archived report.
type ArchiveInfo struct {
	TaskID string
	Date   string
	Path   string
}

// List enumerates the archived reports of a directory, ignoring foreign
// files. A missing directory yields an empty list.
func List(dir string) ([]ArchiveInfo, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read the report directory %q: %w", dir, err)
	}

	archives := []ArchiveInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := archiveNameRegex.FindStringSubmatch(entry.Name())
		if matches == nil {
			continue
		}
		archives = append(archives, ArchiveInfo{
			TaskID: matches[1],
			Date:   matches[2],
			Path:   filepath.Join(dir, entry.Name()),
		})
	}

	return archives, nil
}

// Read loads an archived report.
func Read(path string) (*Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(content, &entry); err != nil {
		return nil, fmt.Errorf("invalid report archive %q: %w", path, err)
	}
	return &entry, nil
}
