package encoder

import "testing"

func TestSwapDirectionRoundTrip(t *testing.T) {
	var enc CarFlagEncoder
	cases := []int32{
		enc.Encode(true, false, 50),
		enc.Encode(false, true, 30),
		enc.Encode(true, true, 90),
		enc.Encode(false, false, 0),
	}
	for _, f := range cases {
		got := enc.SwapDirection(enc.SwapDirection(f))
		if got != f {
			t.Errorf("SwapDirection(SwapDirection(%d)) = %d, want %d", f, got, f)
		}
	}
}

func TestSwapDirectionSwapsBitsNotSpeed(t *testing.T) {
	var enc CarFlagEncoder
	f := enc.Encode(true, false, 72)
	swapped := enc.SwapDirection(f)
	if enc.Forward(swapped) {
		t.Error("forward bit should be cleared after swap")
	}
	if !enc.Backward(swapped) {
		t.Error("backward bit should be set after swap")
	}
	if enc.Speed(swapped) != 72 {
		t.Errorf("Speed after swap = %v, want 72", enc.Speed(swapped))
	}
}

func TestFlagsDefault(t *testing.T) {
	var enc CarFlagEncoder
	oneWay := enc.FlagsDefault(false)
	if !enc.Forward(oneWay) || enc.Backward(oneWay) {
		t.Error("one-way default should be forward only")
	}
	both := enc.FlagsDefault(true)
	if !enc.Forward(both) || !enc.Backward(both) {
		t.Error("bidirectional default should permit both directions")
	}
}

func TestSpeedRoundTrip(t *testing.T) {
	var enc CarFlagEncoder
	for _, speed := range []uint8{0, 1, 30, 50, 130, 255} {
		f := enc.Encode(true, true, speed)
		if got := enc.Speed(f); got != float64(speed) {
			t.Errorf("Speed(Encode(_,_,%d)) = %v, want %v", speed, got, speed)
		}
	}
}
