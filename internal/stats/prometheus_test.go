package stats

import "testing"

func TestRegistryGathersAllCounters(t *testing.T) {
	c := New()
	c.FramesCompleted.Add(5)

	reg := NewRegistry(c)
	families, err := reg.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 6 {
		t.Fatalf("got %d metric families, want 6", len(families))
	}

	var found bool
	for _, f := range families {
		if f.GetName() == "vtxgs_frames_completed_total" {
			found = true
			if got := f.GetMetric()[0].GetGauge().GetValue(); got != 5 {
				t.Fatalf("frames_completed_total = %v, want 5", got)
			}
		}
	}
	if !found {
		t.Fatal("expected vtxgs_frames_completed_total in gathered families")
	}
}
