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

// Package runner wires the task configuration, the scheduler, the web API
// client and the report archive into the nrtool daemon.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nrtool/nrtool/clients/webapi"
	"github.com/nrtool/nrtool/reportlog"
	"github.com/nrtool/nrtool/scheduler"
	"github.com/nrtool/nrtool/tasks"
)

var log = logrus.WithField("component", "runner")

// The server clock offset is refreshed every day at this time.
var clockSyncTime = scheduler.TimeOfDay{Hour: 23, Minute: 0}

type Options struct {
	// DataDir holds tasks.yaml and the profiles.
	DataDir string
	// ReportDir receives the report archives; it defaults to
	// "<DataDir>/log".
	ReportDir    string
	Endpoint     string
	TestEndpoint string
	UserAgent    string
}

var DefaultOptions = Options{
	DataDir:   "/data",
	UserAgent: webapi.DefaultUserAgent,
}

type runner struct {
	options  Options
	client   *webapi.Client
	defaults map[string]interface{}

	// server clock - local clock, in seconds, updated atomically
	offsetSecs int64
}

func createRunner(options Options, defaults map[string]interface{}) (*runner, error) {
	if options.ReportDir == "" {
		options.ReportDir = filepath.Join(options.DataDir, "log")
	}

	client, err := webapi.CreateClient(webapi.Options{
		Endpoint:     options.Endpoint,
		TestEndpoint: options.TestEndpoint,
		UserAgent:    options.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	return &runner{
		options:  options,
		client:   client,
		defaults: defaults,
	}, nil
}

// Run is the nrtool daemon: it loads the task configuration and triggers
// every enabled task daily until ctx is done.
func Run(ctx context.Context, options Options) error {
	config, err := tasks.LoadConfig(options.DataDir)
	if err != nil {
		return err
	}
	enabled := config.EnabledTasks()
	if len(enabled) == 0 {
		return fmt.Errorf("no enabled task in %q", filepath.Join(options.DataDir, tasks.ConfigFileName))
	}

	runner, err := createRunner(options, config.Defaults)
	if err != nil {
		return err
	}

	jobs := scheduler.New()
	for _, task := range enabled {
		task := task
		log.WithFields(logrus.Fields{
			"task":    task.ID,
			"profile": task.ProfilePath,
			"uid":     task.UID,
			"time":    task.TriggerTime(),
			"jitter":  fmt.Sprintf("~%v<%v", task.JitterSigma, task.JitterBound),
		}).Info("task loaded")

		jobs.Add(scheduler.Job{
			Name:        task.ID,
			At:          task.TriggerTime(),
			JitterSigma: task.JitterSigma.Duration(),
			JitterBound: task.JitterBound.Duration(),
			Do: func(ctx context.Context) error {
				return runner.submitTask(ctx, task)
			},
		})
	}
	jobs.Add(scheduler.Job{
		Name: "clock_sync",
		At:   clockSyncTime,
		Do:   runner.syncClock,
	})

	// Seed the offset so it is known before the first daily sync.
	if err := runner.syncClock(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithField("error", err).Warn("initial server clock probe failed")
	}

	log.Info("waiting for the scheduler")
	return jobs.Run(ctx)
}

// SendOnce submits a single task immediately, without scheduling or
// jitter.
func SendOnce(ctx context.Context, options Options, taskID string) error {
	config, err := tasks.LoadConfig(options.DataDir)
	if err != nil {
		return err
	}

	for _, task := range config.Tasks {
		if task.ID != taskID {
			continue
		}
		if !task.Enabled() {
			return fmt.Errorf("task %q is disabled", taskID)
		}
		runner, err := createRunner(options, config.Defaults)
		if err != nil {
			return err
		}
		return runner.submitTask(ctx, task)
	}

	return fmt.Errorf("no task %q in %q", taskID, filepath.Join(options.DataDir, tasks.ConfigFileName))
}

func (runner *runner) submitTask(ctx context.Context, task tasks.Task) error {
	fields, err := tasks.LoadProfile(task.ProfilePath, runner.defaults)
	if err != nil {
		return err
	}

	submission, err := runner.client.SubmitReport(ctx, webapi.Identity{
		UID:    task.UID,
		Cookie: task.Cookie,
	}, fields)
	if err != nil {
		return err
	}

	path, err := reportlog.Write(
		runner.options.ReportDir,
		task.ID,
		submission.Date,
		submission.Payload,
		submission.Response,
	)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"task":         task.ID,
		"archive":      path,
		"clock_offset": runner.ServerTimeOffset(),
	}).Info("report submitted")
	return nil
}

func (runner *runner) syncClock(ctx context.Context) error {
	serverTime, err := runner.client.FetchServerTime(ctx)
	if err != nil {
		return err
	}

	offset := serverTime.Unix() - time.Now().Unix()
	atomic.StoreInt64(&runner.offsetSecs, offset)
	log.WithField("offset", time.Duration(offset)*time.Second).Info("server clock offset updated")
	return nil
}

// ServerTimeOffset returns the last measured `server clock - local clock`
// offset.
func (runner *runner) ServerTimeOffset() time.Duration {
	return time.Duration(atomic.LoadInt64(&runner.offsetSecs)) * time.Second
}
