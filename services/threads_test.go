package services

import "testing"

func TestDirectThreadIDIsSymmetric(t *testing.T) {
	prop := uint(42)
	a := DirectThreadID(7, 3, &prop)
	b := DirectThreadID(3, 7, &prop)
	if a != b {
		t.Fatalf("thread id must not depend on direction: %q vs %q", a, b)
	}
}

func TestDirectThreadIDScopedByProperty(t *testing.T) {
	p1, p2 := uint(1), uint(2)
	if DirectThreadID(3, 7, &p1) == DirectThreadID(3, 7, &p2) {
		t.Fatalf("different properties must yield different threads")
	}
	if DirectThreadID(3, 7, nil) == DirectThreadID(3, 7, &p1) {
		t.Fatalf("property-scoped thread must differ from the general one")
	}
}

func TestDirectThreadIDDistinctPairs(t *testing.T) {
	// u1-u27 vs u12-u7 style collisions
	if DirectThreadID(1, 27, nil) == DirectThreadID(12, 7, nil) {
		t.Fatalf("distinct pairs collided")
	}
}

func TestNormalizeBody(t *testing.T) {
	if NormalizeBody("  hola  ") != "hola" {
		t.Fatalf("body should be trimmed")
	}
	if NormalizeBody("   ") != "" {
		t.Fatalf("whitespace-only body should normalize to empty")
	}
}
