package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestGetIsSingleton(t *testing.T) {
	a := Get(DebugLevel)
	b := Get(ErrorLevel)
	if a != b {
		t.Fatal("Get must return the same instance")
	}
	if !a.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("first level should win")
	}
}

func TestNewRespectsLevel(t *testing.T) {
	l := New(WarnLevel)
	if l.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
	if !l.Desugar().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatal("error should be enabled at warn level")
	}
}

func TestValidLevel(t *testing.T) {
	if !ValidLevel("Info") || ValidLevel("trace") {
		t.Fatal("unexpected ValidLevel result")
	}
}
