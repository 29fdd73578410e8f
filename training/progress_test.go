package training

import (
	"strings"
	"testing"
)

func TestProgressBarRendersCounts(t *testing.T) {
	var buf strings.Builder
	pb := NewProgressBar("epoch 1", 10, &buf)

	pb.Update(5, map[string]float64{"loss": 0.25})
	out := buf.String()

	if !strings.Contains(out, "epoch 1") {
		t.Error("output missing description")
	}
	if !strings.Contains(out, "5/10") {
		t.Errorf("output missing step count: %q", out)
	}
	if !strings.Contains(out, "loss=0.2500") {
		t.Errorf("output missing metric: %q", out)
	}
	if !strings.Contains(out, "\r") {
		t.Error("output should redraw in place with a carriage return")
	}
}

func TestProgressBarFinish(t *testing.T) {
	var buf strings.Builder
	pb := NewProgressBar("embedding", 4, &buf)
	pb.Finish()

	out := buf.String()
	if !strings.Contains(out, "100%") {
		t.Errorf("finished bar should read 100%%: %q", out)
	}
	if !strings.Contains(out, "4/4") {
		t.Errorf("finished bar should read 4/4: %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("Finish should terminate the line")
	}
}

func TestProgressBarZeroTotal(t *testing.T) {
	var buf strings.Builder
	pb := NewProgressBar("empty", 0, &buf)
	pb.Update(0, nil)
	if !strings.Contains(buf.String(), "0/0") {
		t.Errorf("zero-total bar output: %q", buf.String())
	}
}
