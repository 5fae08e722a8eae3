package math

import (
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestMulVec4Translate(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.MulVec4(Vec4{1, 2, 3, 1})
	want := Vec4{11, 22, 33, 1}
	if got != want {
		t.Errorf("MulVec4: got %v, want %v", got, want)
	}
}

func TestMulVec4Direction(t *testing.T) {
	// w = 0 ignores translation
	m := Translate(10, 20, 30)
	got := m.MulVec4(Vec4{1, 2, 3, 0})
	want := Vec4{1, 2, 3, 0}
	if got != want {
		t.Errorf("MulVec4 direction: got %v, want %v", got, want)
	}
}

func TestOrthoCorners(t *testing.T) {
	m := Ortho(0, 800, 0, 600, -1, 1)

	bl := m.MulVec4(Vec4{0, 0, 0, 1})
	if abs(bl[0]+1) > 1e-6 || abs(bl[1]+1) > 1e-6 {
		t.Errorf("Ortho bottom-left: got %v, want (-1, -1)", bl)
	}
	tr := m.MulVec4(Vec4{800, 600, 0, 1})
	if abs(tr[0]-1) > 1e-6 || abs(tr[1]-1) > 1e-6 {
		t.Errorf("Ortho top-right: got %v, want (1, 1)", tr)
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	// Scale then translate: T * S applied to (1,1) => (2+5, 2+5)
	m := Translate(5, 5, 0).Mul(Scale(2, 2, 1))
	got := m.MulVec4(Vec4{1, 1, 0, 1})
	want := Vec4{7, 7, 0, 1}
	if got != want {
		t.Errorf("T*S: got %v, want %v", got, want)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
