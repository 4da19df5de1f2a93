package locale

import "testing"

func TestEnglish(t *testing.T) {
	p := New("en")
	if got := p.Sprintf(MsgPoisoned); got != "You are poisoned by FakeWater!" {
		t.Fatalf("got %q", got)
	}
	if got := p.Sprintf(MsgFlooded, 3); got != "Tagged 3 fake water blocks." {
		t.Fatalf("got %q", got)
	}
}

func TestTraditionalChinese(t *testing.T) {
	p := New("zh-Hant")
	if got := p.Sprintf(MsgFlooded, 3); got != "已標記 3 個假水方塊。" {
		t.Fatalf("got %q", got)
	}
}

func TestUnknownTagFallsBack(t *testing.T) {
	for _, tag := range []string{"fr", "not a tag", ""} {
		if got := New(tag).Sprintf(MsgPlayersOnly); got != MsgPlayersOnly {
			t.Errorf("%q: got %q", tag, got)
		}
	}
}
