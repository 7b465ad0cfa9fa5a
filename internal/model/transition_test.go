package model

import "testing"

func TestTransitionTypeOf(t *testing.T) {
	tests := []struct {
		from, to Level
		want     TransitionType
	}{
		{0, 0, TransitionR},
		{0, 1, TransitionU},
		{0, 2, TransitionU},
		{1, 0, TransitionD},
		{3, 0, TransitionD},
		{1, 3, TransitionL},
		{2, 3, TransitionL},
		{1, 1, TransitionL},
	}

	for _, tt := range tests {
		if got := TransitionTypeOf(tt.from, tt.to); got != tt.want {
			t.Fatalf("TransitionTypeOf(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTransitionTypeString(t *testing.T) {
	if TransitionR.String() != "R" || TransitionU.String() != "U" ||
		TransitionD.String() != "D" || TransitionL.String() != "L" {
		t.Fatal("unexpected transition type rendering")
	}
}
