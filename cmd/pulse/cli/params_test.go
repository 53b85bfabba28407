// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type sampleParams struct {
	JSONOutput
	Pages    int           `flag:"pages,p" desc:"pages to load" default:"1"`
	Comment  int64         `flag:"comment" desc:"comment ID"`
	Interval time.Duration `flag:"interval" default:"30s"`
	Tags     []string      `flag:"tag" default:"a,b"`
	Name     string        `flag:"name" default:"user0"`
}

func TestBindFlags_DefaultsAndParsing(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)

	if params.Pages != 1 || params.Interval != 30*time.Second || params.Name != "user0" || len(params.Tags) != 2 {
		t.Errorf("defaults not applied: %+v", params)
	}

	if err := flagSet.Parse([]string{"-p", "3", "--comment", "12", "--json", "--interval", "1m", "--tag", "x"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Pages != 3 || params.Comment != 12 || !params.OutputJSON || params.Interval != time.Minute {
		t.Errorf("parsed params = %+v", params)
	}
	if len(params.Tags) != 1 || params.Tags[0] != "x" {
		t.Errorf("tags = %v", params.Tags)
	}
}

type binderParams struct {
	Connection ConnectionParams
	Verbose    bool `flag:"verbose"`
}

func TestBindFlags_FlagBinder(t *testing.T) {
	var params binderParams
	flagSet := FlagsFromParams("binder", &params)
	for _, name := range []string{"config", "env", "base-url", "user", "password-file", "verbose"} {
		if flagSet.Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if err := flagSet.Parse([]string{"--user", "user3"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Connection.User != "user3" {
		t.Errorf("User = %q", params.Connection.User)
	}
}

func TestBindFlags_Errors(t *testing.T) {
	if err := BindFlags(sampleParams{}, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("non-pointer params accepted")
	}

	type badDefault struct {
		Pages int `flag:"pages" default:"many"`
	}
	if err := BindFlags(&badDefault{}, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("unparseable default accepted")
	}

	type unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	if err := BindFlags(&unsupported{}, pflag.NewFlagSet("x", pflag.ContinueOnError)); err == nil {
		t.Error("unsupported type accepted")
	}
}
