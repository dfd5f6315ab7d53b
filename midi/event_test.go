package midi

import "testing"

func TestDecode(t *testing.T) {
	ch := DefaultChannels()

	cases := []struct {
		name    string
		status  uint8
		control uint8
		value   uint8
		want    Event
		ok      bool
	}{
		{"knob turn", 0xB0, 5, 64, Event{Kind: EventTurn, Control: 5, Value: 64}, true},
		{"knob turn max", 0xB0, 15, 127, Event{Kind: EventTurn, Control: 15, Value: 127}, true},
		{"button press", 0xB1, 2, 127, Event{Kind: EventPress, Control: 2}, true},
		{"button release", 0xB1, 2, 0, Event{Kind: EventRelease, Control: 2}, true},
		{"button mid value ignored", 0xB1, 2, 50, Event{}, false},
		{"note on ignored", 0x90, 5, 64, Event{}, false},
		{"unknown channel ignored", 0xB5, 5, 64, Event{}, false},
		{"control out of range", 0xB0, 16, 64, Event{}, false},
	}
	for _, tc := range cases {
		got, ok := ch.Decode(tc.status, tc.control, tc.value)
		if ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("%s: event = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestDecodeCustomChannels(t *testing.T) {
	ch := Channels{Knob: 4, Button: 7, LED: 4}

	if ev, ok := ch.Decode(0xB4, 3, 100); !ok || ev.Kind != EventTurn {
		t.Fatalf("Decode(0xB4) = %+v, %v; want a turn", ev, ok)
	}
	if ev, ok := ch.Decode(0xB7, 3, 127); !ok || ev.Kind != EventPress {
		t.Fatalf("Decode(0xB7) = %+v, %v; want a press", ev, ok)
	}
	if _, ok := ch.Decode(0xB0, 3, 100); ok {
		t.Fatal("factory knob channel decoded under a custom mapping")
	}
}

func TestEventString(t *testing.T) {
	if s := (Event{Kind: EventTurn, Control: 4, Value: 99}).String(); s != "turn(4=99)" {
		t.Fatalf("String() = %q", s)
	}
	if s := (Event{Kind: EventPress, Control: 9}).String(); s != "press(9)" {
		t.Fatalf("String() = %q", s)
	}
}
