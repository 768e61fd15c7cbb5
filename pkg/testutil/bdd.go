package testutil

import "testing"

// Given, When and Then label nested subtests so a failure reads as a scenario.
func Given(t *testing.T, desc string, fn func(t *testing.T)) { t.Helper(); step(t, "Given", desc, fn) }
func When(t *testing.T, desc string, fn func(t *testing.T))  { t.Helper(); step(t, "When", desc, fn) }
func Then(t *testing.T, desc string, fn func(t *testing.T))  { t.Helper(); step(t, "Then", desc, fn) }

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) {
	t.Helper()
	if !t.Run(keyword+" "+desc, fn) {
		t.Logf("scenario step failed: %s %s", keyword, desc)
	}
}
