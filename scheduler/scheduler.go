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

package scheduler

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var log = logrus.WithField("component", "scheduler")

// Jitter below this threshold is ignored: the delay would not meaningfully
// spread the submissions.
const minJitter = 5 * time.Second

// A Job runs every day at its trigger time, optionally delayed by a
// bounded Rayleigh-distributed jitter.
type Job struct {
	Name        string
	At          TimeOfDay
	JitterSigma time.Duration
	JitterBound time.Duration
	Do          func(ctx context.Context) error
}

// Scheduler triggers its jobs daily until its context ends. A failing job
// is logged and stays scheduled for the next day.
type Scheduler struct {
	jobs []Job

	// rng is shared by every job goroutine, rngMu serializes the sampling.
	rngMu sync.Mutex
	rng   *rand.Rand

	// test seams
	now   func() time.Time
	sleep func(ctx context.Context, duration time.Duration) error
}

func New() *Scheduler {
	return &Scheduler{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
		sleep: sleepFor,
	}
}

func (scheduler *Scheduler) Add(job Job) {
	scheduler.jobs = append(scheduler.jobs, job)
}

// Run triggers the jobs until ctx is done, each in its own goroutine.
func (scheduler *Scheduler) Run(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, job := range scheduler.jobs {
		job := job
		group.Go(func() error {
			return scheduler.runJob(ctx, job)
		})
	}
	return group.Wait()
}

func (scheduler *Scheduler) runJob(ctx context.Context, job Job) error {
	jobLog := log.WithField("job", job.Name)
	for {
		occurrence := job.At.Next(scheduler.now())
		jobLog.WithField("at", occurrence.Format(time.RFC3339)).Debug("waiting for the next trigger")
		if err := scheduler.sleep(ctx, occurrence.Sub(scheduler.now())); err != nil {
			return err
		}

		if delay := scheduler.jitterDelay(&job); delay > 0 {
			jobLog.WithField("delay", delay).Info("trigger delayed by jitter")
			if err := scheduler.sleep(ctx, delay); err != nil {
				return err
			}
		}

		if err := job.Do(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			jobLog.WithFields(logrus.Fields{
				"error": err,
			}).Error("job failed, it stays scheduled for the next day")
		}
	}
}

func (scheduler *Scheduler) jitterDelay(job *Job) time.Duration {
	if job.JitterSigma <= minJitter || job.JitterBound <= minJitter {
		return 0
	}
	scheduler.rngMu.Lock()
	defer scheduler.rngMu.Unlock()
	return boundedRayleigh(scheduler.rng, job.JitterSigma, job.JitterBound)
}

func sleepFor(ctx context.Context, duration time.Duration) error {
	if duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
