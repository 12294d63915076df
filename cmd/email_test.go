/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateEmailContent(t *testing.T) {
	b := createTestBundle(t)

	config := SendEmailConfig{Folder: b.Folder, To: "test@example.com", Types: []string{"top-artists", "most-skipped"}}
	actions, err := configureActions(config)
	if err != nil {
		t.Fatalf("configureActions error: %v", err)
	}

	subject, body, err := generateEmailContent(config, b, actions)
	if err != nil {
		t.Fatalf("generateEmailContent error: %v", err)
	}

	wantSubject := "Listening report for " + filepath.Base(b.Folder) + " since Sunday, December 31, 2023 at 11:00 PM"
	if subject != wantSubject {
		t.Errorf("Expected subject %q, got %q", wantSubject, subject)
	}
	for _, want := range []string{"<h2>Top artists for", "<td>Band</td>", "<h2>Most skipped tracks for", "<td>Other &amp; Co</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("Email body missing %q. Got:\n%s", want, body)
		}
	}
	if strings.Contains(body, "Other & Co") {
		t.Errorf("Email body should escape HTML")
	}
}

func TestGenerateEmailContentNoListens(t *testing.T) {
	b := createTestBundle(t)

	config := SendEmailConfig{Folder: b.Folder, Types: []string{"top-podcasts"}, Params: []map[string]string{{"min": "5"}}}
	actions, err := configureActions(config)
	if err != nil {
		t.Fatalf("configureActions error: %v", err)
	}
	_, body, err := generateEmailContent(config, b, actions)
	if err != nil {
		t.Fatalf("generateEmailContent error: %v", err)
	}
	if !strings.Contains(body, "No listens found.") {
		t.Errorf("Expected no listens message. Got:\n%s", body)
	}
}

func TestSendEmailDryRun(t *testing.T) {
	dir := createTestExport(t)

	var out bytes.Buffer
	config := SendEmailConfig{
		Folder: dir,
		From:   "from@example.com",
		To:     "test@example.com",
		Types:  defaultEmailAnalyses,
		Params: parseParams(nil, len(defaultEmailAnalyses)),
		DryRun: true,
	}
	if err := sendEmail(&out, config); err != nil {
		t.Fatalf("sendEmail error: %v", err)
	}
	output := out.String()
	if !strings.Contains(output, "Would have sent email") || !strings.Contains(output, "<h2>Summary for") {
		t.Errorf("Unexpected dry run output:\n%s", output)
	}
}

func TestSendEmailRequiresAPIKey(t *testing.T) {
	dir := createTestExport(t)

	var out bytes.Buffer
	err := sendEmail(&out, SendEmailConfig{Folder: dir, To: "test@example.com", Types: []string{"summary"}})
	if err == nil || !strings.Contains(err.Error(), "sendgrid_api_key") {
		t.Errorf("Expected missing sendgrid_api_key error, got %v", err)
	}
}

func TestConfigureActions(t *testing.T) {
	tests := []struct {
		name    string
		types   []string
		params  []string
		wantErr bool
	}{
		{"defaults", defaultEmailAnalyses, nil, false},
		{"with params", []string{"top-tracks", "top-days"}, []string{"n=5", "n=3,min=1"}, false},
		{"unknown analysis", []string{"forgotten"}, nil, true},
		{"bad param", []string{"top-tracks"}, []string{"n=lots"}, true},
		{"not configurable", []string{"summary"}, []string{"n=5"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := SendEmailConfig{Types: tc.types, Params: parseParams(tc.params, len(tc.types))}
			actions, err := configureActions(config)
			if (err != nil) != tc.wantErr {
				t.Fatalf("configureActions() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err == nil && len(actions) != len(tc.types) {
				t.Errorf("Expected %d actions, got %d", len(tc.types), len(actions))
			}
		})
	}
}

func TestParseParams(t *testing.T) {
	params := parseParams([]string{"n=20,min=5", "", "bogus"}, 4)
	if len(params) != 4 {
		t.Fatalf("Expected 4 param maps, got %d", len(params))
	}
	if params[0]["n"] != "20" || params[0]["min"] != "5" {
		t.Errorf("Unexpected first params %v", params[0])
	}
	if len(params[1]) != 0 || len(params[2]) != 0 || params[3] != nil {
		t.Errorf("Unexpected remaining params %v", params[1:])
	}
}
