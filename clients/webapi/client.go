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

package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "webapi")

// DefaultUserAgent matches the mobile browser the upstream form API
// expects.
const DefaultUserAgent = "Mozilla/5.0 (Linux; Android 6.0; Nexus 5 Build/MRA58N) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/80.0.3987.132 Mobile Safari/532.12"

// The upstream API requires this fixed form identifier on every
// submission.
const formID = "8749065"

const (
	// Submissions are attempted up to 10 times, 10s apart, on transport
	// errors.
	submitRetryCount = 9
	submitRetryWait  = 10 * time.Second

	// Server time probes are attempted up to 10 times, 20s apart.
	timeRetryCount = 9
	timeRetryWait  = 20 * time.Second
)

type Options struct {
	// Endpoint receives the form submissions.
	Endpoint string
	// TestEndpoint is probed for the server time; it defaults to
	// Endpoint.
	TestEndpoint string
	UserAgent    string
	Debug        bool
}

var DefaultOptions = Options{
	UserAgent: DefaultUserAgent,
}

// Identity carries the account a report is submitted for.
type Identity struct {
	UID    string
	Cookie string
}

// Submission is the outcome of a successful report submission.
type Submission struct {
	// Date is the local submission date, "YYYYMMDD".
	Date     string
	Payload  map[string]string
	Response map[string]interface{}
}

// Client submits report forms to the web API.
type Client struct {
	submit       *resty.Client
	probe        *resty.Client
	endpoint     string
	testEndpoint string

	now func() time.Time // test seam
}

func transportErrorOnly(_response *resty.Response, err error) bool {
	return err != nil
}

func CreateClient(options Options) (*Client, error) {
	if options.Endpoint == "" {
		return nil, fmt.Errorf("no API endpoint configured")
	}
	testEndpoint := options.TestEndpoint
	if testEndpoint == "" {
		testEndpoint = options.Endpoint
	}
	userAgent := options.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	submit := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(submitRetryCount).
		SetRetryWaitTime(submitRetryWait).
		SetRetryMaxWaitTime(submitRetryWait).
		AddRetryCondition(transportErrorOnly).
		SetDebug(options.Debug)

	probe := resty.New().
		SetHeader("User-Agent", userAgent).
		SetRetryCount(timeRetryCount).
		SetRetryWaitTime(timeRetryWait).
		SetRetryMaxWaitTime(timeRetryWait).
		AddRetryCondition(transportErrorOnly).
		SetDebug(options.Debug)

	return &Client{
		submit:       submit,
		probe:        probe,
		endpoint:     options.Endpoint,
		testEndpoint: testEndpoint,
		now:          time.Now,
	}, nil
}

// SubmitReport posts the form fields for the given identity and returns the
// sent payload together with the decoded response.
func (client *Client) SubmitReport(
	ctx context.Context,
	identity Identity,
	fields map[string]string,
) (*Submission, error) {
	now := client.now()
	date := now.Format("20060102")

	payload := make(map[string]string, len(fields)+4)
	for name, value := range fields {
		payload[name] = value
	}
	payload["uid"] = identity.UID
	payload["date"] = date
	payload["created"] = strconv.FormatInt(now.Unix(), 10)
	payload["id"] = formID

	form := url.Values{}
	for name, value := range payload {
		form.Set(name, value)
	}

	// The body is encoded by hand: resty's own form handling overwrites
	// the Content-Type and loses the charset the API expects.
	response, err := client.submit.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetHeader("DNT", "1").
		SetHeader("Cookie", identity.Cookie).
		SetHeader("X-Requested-With", "XMLHttpRequest").
		SetBody(form.Encode()).
		Post(client.endpoint)
	if err != nil {
		return nil, fmt.Errorf("unable to submit the report: %w", err)
	}
	if response.IsError() {
		return nil, fmt.Errorf(
			"report submission refused [%d]: %s",
			response.StatusCode(), response.String(),
		)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(response.Body(), &decoded); err != nil {
		return nil, fmt.Errorf("unexpected response %q: %w", response.String(), err)
	}
	log.WithField("response", decoded).Debug("report submitted")

	return &Submission{
		Date:     date,
		Payload:  payload,
		Response: decoded,
	}, nil
}

// FetchServerTime probes the test endpoint and returns the server clock
// read from the HTTP `Date` response header.
func (client *Client) FetchServerTime(ctx context.Context) (time.Time, error) {
	response, err := client.probe.R().
		SetContext(ctx).
		Get(client.testEndpoint)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to probe the server time: %w", err)
	}

	header := response.Header().Get("Date")
	if header == "" {
		return time.Time{}, fmt.Errorf("the server time probe returned no `Date` header")
	}
	serverTime, err := http.ParseTime(header)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse the server `Date` header %q: %w", header, err)
	}

	return serverTime, nil
}
