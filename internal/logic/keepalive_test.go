package logic

import "testing"

func TestKeepAliveFiresEveryPeriodPlusOne(t *testing.T) {
	for _, period := range []int{0, 1, 3, 334} {
		k := NewKeepAlive(period)
		var fired []int
		for i := 1; i <= 3*(period+1); i++ {
			if k.ShouldCheck() {
				fired = append(fired, i)
			}
		}
		if len(fired) != 3 {
			t.Fatalf("period %d: expected 3 checks, got %d (%v)", period, len(fired), fired)
		}
		for n, call := range fired {
			if want := (n + 1) * (period + 1); call != want {
				t.Errorf("period %d: check %d on call %d, want call %d", period, n, call, want)
			}
		}
	}
}

func TestKeepAliveResetsAfterFiring(t *testing.T) {
	k := NewKeepAlive(2)
	k.ShouldCheck()
	k.ShouldCheck()
	if !k.ShouldCheck() {
		t.Fatal("expected check on third call")
	}
	if k.remaining != 2 {
		t.Errorf("expected remaining reset to period 2, got %d", k.remaining)
	}
}

func TestKeepAliveReset(t *testing.T) {
	k := NewKeepAlive(2)
	k.ShouldCheck()
	k.ShouldCheck()
	k.Reset()
	if k.ShouldCheck() || k.ShouldCheck() {
		t.Error("reset should restart the full countdown")
	}
	if !k.ShouldCheck() {
		t.Error("expected check after countdown")
	}
}
