package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
	flushed  bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func (f *fakeConn) FlushWithContext(context.Context) error {
	f.flushed = true
	return nil
}

func TestPublisher_PrefixesSubjectAndEncodesJSON(t *testing.T) {
	fc := &fakeConn{}
	p := &Publisher{nc: fc, prefix: "plants"}

	err := p.Publish(context.Background(), "predictions.created", map[string]string{"id": "r1"})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(fc.subjects) != 1 || fc.subjects[0] != "plants.predictions.created" {
		t.Fatalf("unexpected subjects: %v", fc.subjects)
	}

	var got map[string]string
	if err := json.Unmarshal(fc.payloads[0], &got); err != nil || got["id"] != "r1" {
		t.Fatalf("unexpected payload %s (%v)", fc.payloads[0], err)
	}

	p.Close(context.Background())
	if !fc.flushed {
		t.Fatalf("expected flush on close")
	}
}

func TestPublisher_NoPrefixAndErrors(t *testing.T) {
	boom := errors.New("boom")
	p := &Publisher{nc: &fakeConn{err: boom}}

	if got := p.Subject("predictions.feedback"); got != "predictions.feedback" {
		t.Fatalf("Subject = %q", got)
	}
	if err := p.Publish(context.Background(), "predictions.feedback", struct{}{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if err := p.Publish(context.Background(), "x", make(chan int)); err == nil {
		t.Fatalf("expected marshal error")
	}
}
