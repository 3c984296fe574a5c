package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestLoggerVerboseToggle(t *testing.T) {
	logger := GetLogger()
	defer logger.SetVerbose(false)

	if logger.IsVerbose() {
		t.Error("Logger should start with verbose disabled")
	}

	logger.SetVerbose(true)
	if !logger.IsVerbose() {
		t.Error("Logger should report verbose after SetVerbose(true)")
	}

	logger.SetVerbose(false)
	if logger.IsVerbose() {
		t.Error("Logger should report quiet after SetVerbose(false)")
	}
}

func TestGetLoggerReturnsSameInstance(t *testing.T) {
	if GetLogger() != GetLogger() {
		t.Error("GetLogger should return the same instance on every call")
	}
}

func TestComponentLogger(t *testing.T) {
	logger := GetLogger()
	defer logger.SetVerbose(false)

	logger.SetVerbose(false)
	if ComponentLogger("[sync] ") != nil {
		t.Error("ComponentLogger should return nil when verbose is off")
	}

	logger.SetVerbose(true)
	component := ComponentLogger("[sync] ")
	if component == nil {
		t.Fatal("ComponentLogger should return a logger when verbose is on")
	}
	if !strings.HasPrefix(component.Prefix(), "[sync]") {
		t.Errorf("ComponentLogger prefix = %q, want it to start with [sync]", component.Prefix())
	}
}

func TestLogOperationPassesThroughResult(t *testing.T) {
	if err := LogOperation("no-op", func() error { return nil }); err != nil {
		t.Errorf("LogOperation should return nil for successful operations, got %v", err)
	}

	wantErr := errors.New("boom")
	if err := LogOperation("failing", func() error { return wantErr }); err != wantErr {
		t.Errorf("LogOperation should return the operation's error, got %v", err)
	}
}
