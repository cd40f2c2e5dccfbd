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

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nrtool/nrtool/services/runner"
)

const (
	dataDirKey      = "data_dir"
	reportDirKey    = "report_dir"
	endpointKey     = "endpoint"
	testEndpointKey = "test_endpoint"
	userAgentKey    = "user_agent"
)

// populateDataFlags declares the data directory flag of a command.
func populateDataFlags(cmd *cobra.Command, cfg *viper.Viper) {
	cfg.SetDefault(dataDirKey, runner.DefaultOptions.DataDir)
	_ = cfg.BindEnv(dataDirKey, "NRTOOL_DATA_PATH")
	cmd.Flags().String(
		dataDirKey,
		cfg.GetString(dataDirKey),
		"The directory holding tasks.yaml and the profiles",
	)
}

// populateClientFlags declares the web API and report archive flags of a
// command.
func populateClientFlags(cmd *cobra.Command, cfg *viper.Viper) {
	cfg.SetDefault(endpointKey, runner.DefaultOptions.Endpoint)
	_ = cfg.BindEnv(endpointKey, "NRTOOL_API_ENDPOINT")
	cmd.Flags().String(
		endpointKey,
		cfg.GetString(endpointKey),
		"The web API endpoint receiving the report submissions",
	)

	cfg.SetDefault(testEndpointKey, runner.DefaultOptions.TestEndpoint)
	_ = cfg.BindEnv(testEndpointKey, "NRTOOL_API_TEST_ENDPOINT")
	cmd.Flags().String(
		testEndpointKey,
		cfg.GetString(testEndpointKey),
		"The endpoint probed for the server time (defaults to the API endpoint)",
	)

	cfg.SetDefault(userAgentKey, runner.DefaultOptions.UserAgent)
	_ = cfg.BindEnv(userAgentKey, "NRTOOL_USER_AGENT")
	cmd.Flags().String(
		userAgentKey,
		cfg.GetString(userAgentKey),
		"The User-Agent header sent to the web API",
	)

	cfg.SetDefault(reportDirKey, runner.DefaultOptions.ReportDir)
	_ = cfg.BindEnv(reportDirKey, "NRTOOL_LOG_PATH")
	cmd.Flags().String(
		reportDirKey,
		cfg.GetString(reportDirKey),
		"The directory receiving the report archives (defaults to <data_dir>/log)",
	)
}

func runnerOptions(cfg *viper.Viper) runner.Options {
	return runner.Options{
		DataDir:      cfg.GetString(dataDirKey),
		ReportDir:    cfg.GetString(reportDirKey),
		Endpoint:     cfg.GetString(endpointKey),
		TestEndpoint: cfg.GetString(testEndpointKey),
		UserAgent:    cfg.GetString(userAgentKey),
	}
}
