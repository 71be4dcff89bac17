package input

import (
	"testing"

	"fogrunner/pkg/engine/world"
)

func TestHeld_PrimaryPriority(t *testing.T) {
	tests := []struct {
		name string
		held Held
		want world.Direction
	}{
		{"nothing", Held{}, world.None},
		{"up beats all", Held{Up: true, Down: true, Left: true, Right: true}, world.Up},
		{"down beats left", Held{Down: true, Left: true}, world.Down},
		{"left beats right", Held{Left: true, Right: true}, world.Left},
		{"right alone", Held{Right: true}, world.Right},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.held.Primary(); got != tt.want {
				t.Errorf("%v.Primary() = %v, want %v", tt.held, got, tt.want)
			}
		})
	}
}

func TestHeldFromCodes(t *testing.T) {
	got := HeldFromCodes([]string{"arrow_up", "d", "escape", "unbound"})
	want := Held{Up: true, Right: true}
	if got != want {
		t.Errorf("HeldFromCodes(...) = %+v, want %+v", got, want)
	}
}

func TestMapToIntent(t *testing.T) {
	intent := MapToIntent(NewDebouncedInput(RawInput{Device: DeviceKeyboard, Code: "f9"}))
	if intent.Action != ActionDumpLayout {
		t.Errorf("MapToIntent(f9) = %v, want %v", ActionName(intent.Action), ActionName(ActionDumpLayout))
	}
	if got := MapToIntent(DebouncedInput{Code: "nope"}); got.Action != ActionNone {
		t.Errorf("MapToIntent(nope) = %v, want None", ActionName(got.Action))
	}
}

func TestParseScript(t *testing.T) {
	steps, err := ParseScript("ux120, -x30,lrx2")
	if err != nil {
		t.Fatalf("ParseScript() error = %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("ParseScript() len = %d, want 3", len(steps))
	}
	if steps[0].Held != HeldOf(world.Up) || steps[0].Ticks != 120 {
		t.Errorf("step 0 = %+v, want up x120", steps[0])
	}
	if steps[1].Held.Any() || steps[1].Ticks != 30 {
		t.Errorf("step 1 = %+v, want nothing x30", steps[1])
	}
	if steps[2].Held != HeldOf(world.Left, world.Right) {
		t.Errorf("step 2 = %+v, want left+right", steps[2])
	}
}

func TestParseScript_Errors(t *testing.T) {
	for _, script := range []string{"u", "ux-1", "zx3", "uxabc"} {
		if _, err := ParseScript(script); err == nil {
			t.Errorf("ParseScript(%q) error = nil, want error", script)
		}
	}
}

func TestBuySlot(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"1", 0},
		{"2", 1},
		{"3", 2},
		{"r", -1},
		{"enter", -1},
	}
	for _, tt := range tests {
		a := MapToIntent(DebouncedInput{Code: tt.code}).Action
		if got := BuySlot(a); got != tt.want {
			t.Errorf("BuySlot(%s) = %d, want %d", ActionName(a), got, tt.want)
		}
	}
}
