package logging

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := logger
	logger = log.New(&buf, "", 0)
	t.Cleanup(func() { logger = old })
	return &buf
}

func TestLevelsAndDisable(t *testing.T) {
	buf := capture(t)

	Infof("starting on port %d", 27080)
	Warn("slow response")
	Disable()
	Error("must not appear")
	Enable()
	Error("back again")

	out := buf.String()
	for _, want := range []string{"INFO starting on port 27080", "WARN slow response", "ERROR back again"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "must not appear") {
		t.Fatal("disabled logger must stay silent")
	}
}

func TestRequestIDPrefix(t *testing.T) {
	buf := capture(t)

	ctx := WithRequestID(context.Background(), "ab12cd34")
	l := WithContext(ctx)
	l.Infof("model=%s", "gpt-4")
	l.Error("boom")

	out := buf.String()
	if !strings.Contains(out, "INFO [ab12cd34] model=gpt-4") {
		t.Fatalf("missing formatted prefix:\n%s", out)
	}
	if !strings.Contains(out, "ERROR [ab12cd34] boom") {
		t.Fatalf("missing prefix:\n%s", out)
	}
}

func TestNoRequestID(t *testing.T) {
	buf := capture(t)

	WithContext(context.Background()).Info("plain")
	if !strings.Contains(buf.String(), "INFO plain") {
		t.Fatalf("got %q", buf.String())
	}
	if strings.Contains(buf.String(), "[") {
		t.Fatal("no id means no bracket prefix")
	}
}
