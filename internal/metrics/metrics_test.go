package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestImageOpsCounts(t *testing.T) {
	before := testutil.ToFloat64(ImageOps.WithLabelValues("store", Outcome(true)))
	ImageOps.WithLabelValues("store", Outcome(true)).Inc()
	after := testutil.ToFloat64(ImageOps.WithLabelValues("store", Outcome(true)))
	if after-before != 1 {
		t.Fatalf("counter moved by %v", after-before)
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(true) != "ok" || Outcome(false) != "failed" {
		t.Fatalf("unexpected outcome labels")
	}
}
