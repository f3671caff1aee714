package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAdmission(t *testing.T) {
	before := testutil.ToFloat64(Admissions.WithLabelValues(OutcomeFull))
	ObserveAdmission(OutcomeFull)
	ObserveAdmission(OutcomeFull)
	if got := testutil.ToFloat64(Admissions.WithLabelValues(OutcomeFull)); got != before+2 {
		t.Fatalf("full admissions = %v, want %v", got, before+2)
	}
}
