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
	"math"
	"math/rand"
	"time"
)

// boundedRayleigh samples a Rayleigh-distributed duration with the given
// sigma, resampling until the sample falls below bound, and truncates the
// result to whole seconds.
func boundedRayleigh(rng *rand.Rand, sigma time.Duration, bound time.Duration) time.Duration {
	if sigma <= 0 || bound <= 0 {
		return 0
	}

	sigmaSecs := sigma.Seconds()
	boundSecs := bound.Seconds()
	for {
		u := rng.Float64()
		if u == 0 {
			continue
		}
		sample := sigmaSecs * math.Sqrt(-2*math.Log(u))
		if sample < boundSecs {
			return time.Duration(math.Floor(sample)) * time.Second
		}
	}
}
