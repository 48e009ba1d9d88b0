package main

import (
	"strings"
	"testing"

	"github.com/atomicstack/winadmin/internal/app"
	"github.com/atomicstack/winadmin/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Bridge:       app.BridgeSSH,
			SSHAddr:      "jump.corp.example:22",
			OutputPolicy: "issued",
			Width:        80,
			Height:       24,
			ShowFooter:   true,
			Verbose:      true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"bridge":        "ssh",
			"ssh-addr":      "jump.corp.example:22",
			"output-policy": "issued",
			"width":         "80",
			"height":        "24",
			"footer":        "true",
			"verbose":       "true",
		},
		Args: []string{"--bridge", "ssh", "--ssh-addr", "jump.corp.example:22", "--output-policy", "issued"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["bridge"] != "ssh" {
		t.Fatalf("expected bridge flag %q, got %v", "ssh", flagsValue["bridge"])
	}
	if flagsValue["output-policy"] != "issued" {
		t.Fatalf("expected output-policy issued, got %v", flagsValue["output-policy"])
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["height"] != "24" {
		t.Fatalf("expected height 24, got %v", flagsValue["height"])
	}
	if flagsValue["footer"] != "true" {
		t.Fatalf("expected footer flag true, got %v", flagsValue["footer"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["verbose"] != "true" {
		t.Fatalf("expected verbose flag true, got %v", flagsValue["verbose"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestRunOnceRejectsUnknownCommand(t *testing.T) {
	cfg := config.Config{
		App:        app.Config{Bridge: app.BridgeHost},
		Positional: []string{"format_c"},
	}
	var out strings.Builder
	if code := runOnce(cfg, strings.NewReader(""), &out); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestRunOnceDeclinedShutdownExitsCleanly(t *testing.T) {
	cfg := config.Config{
		App:        app.Config{Bridge: app.BridgeHost},
		Positional: []string{"issue_shutdown"},
	}
	var out strings.Builder
	if code := runOnce(cfg, strings.NewReader("n\n"), &out); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "Are you sure you want to SHUTDOWN the remote machine? [y/N]") {
		t.Fatalf("expected confirmation prompt, got %q", out.String())
	}
}
