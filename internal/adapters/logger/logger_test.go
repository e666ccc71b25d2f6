package logger_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.trai.ch/pakt/internal/adapters/logger"
)

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer

	lg := logger.New()
	lg.(*logger.Logger).SetOutput(&buf)
	lg.Info("refreshed repository")

	out := buf.String()
	if !strings.Contains(out, "refreshed repository") {
		t.Errorf("Expected output to contain message, got: %s", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("Expected output to contain 'INFO', got: %s", out)
	}
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer

	lg := logger.New()
	lg.(*logger.Logger).SetOutput(&buf)
	lg.Warn("index entry dropped")

	out := buf.String()
	if !strings.Contains(out, "index entry dropped") {
		t.Errorf("Expected output to contain message, got: %s", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("Expected output to contain 'WARN', got: %s", out)
	}
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer

	lg := logger.New()
	lg.(*logger.Logger).SetOutput(&buf)
	lg.Error(os.ErrPermission)

	out := buf.String()
	if !strings.Contains(out, "permission denied") {
		t.Errorf("Expected output to contain the error, got: %s", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("Expected output to contain 'ERROR', got: %s", out)
	}
}
