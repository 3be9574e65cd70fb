package netinfo

import "testing"

func testNamer() *Namer {
	return NewNamer(map[string]string{
		"0.0.0.0/0":  "Internet",
		"10.0.0.0/8": "Internal Network (Class A)",
	})
}

func TestFriendlyName_WellKnown(t *testing.T) {
	n := testNamer()
	if got := n.FriendlyName("0.0.0.0/0"); got != "Internet (0.0.0.0/0)" {
		t.Errorf("got %q; want \"Internet (0.0.0.0/0)\"", got)
	}
	if got := n.FriendlyName("10.0.0.0/8"); got != "Internal Network (Class A) (10.0.0.0/8)" {
		t.Errorf("got %q; want \"Internal Network (Class A) (10.0.0.0/8)\"", got)
	}
}

func TestFriendlyName_PrivateClassification(t *testing.T) {
	n := testNamer()
	for _, cidr := range []string{"192.168.1.0/24", "172.16.0.0/12", "10.20.30.0/24"} {
		want := "Private Network (" + cidr + ")"
		// 10.20.30.0/24 is inside 10.0.0.0/8 but not an exact table match,
		// so it must fall through to classification.
		if got := n.FriendlyName(cidr); got != want {
			t.Errorf("FriendlyName(%q): got %q; want %q", cidr, got, want)
		}
	}
}

func TestFriendlyName_PublicClassification(t *testing.T) {
	n := testNamer()
	if got := n.FriendlyName("203.0.113.5/32"); got != "Public Network (203.0.113.5/32)" {
		t.Errorf("got %q; want \"Public Network (203.0.113.5/32)\"", got)
	}
}

func TestFriendlyName_InvalidPassthrough(t *testing.T) {
	n := testNamer()
	for _, input := range []string{"not-a-cidr", "", "300.1.2.3/8", "10.0.0.0"} {
		if got := n.FriendlyName(input); got != input {
			t.Errorf("FriendlyName(%q): got %q; want input unchanged", input, got)
		}
	}
}

// TestFriendlyName_NoTable verifies classification works without a
// well-known table configured.
func TestFriendlyName_NoTable(t *testing.T) {
	n := NewNamer(nil)
	if got := n.FriendlyName("192.168.0.0/16"); got != "Private Network (192.168.0.0/16)" {
		t.Errorf("got %q; want \"Private Network (192.168.0.0/16)\"", got)
	}
}

func TestParsePrefix_Valid(t *testing.T) {
	info, ok := ParsePrefix("192.168.1.0/24")
	if !ok {
		t.Fatal("ParsePrefix returned ok=false for a valid prefix")
	}
	if info.Network != "192.168.1.0/24" {
		t.Errorf("network: got %q; want \"192.168.1.0/24\"", info.Network)
	}
	if info.Bits != 24 {
		t.Errorf("bits: got %d; want 24", info.Bits)
	}
	if info.NumAddresses != 256 {
		t.Errorf("num addresses: got %d; want 256", info.NumAddresses)
	}
	if !info.Private {
		t.Error("want private=true for 192.168.1.0/24")
	}
}

func TestParsePrefix_Invalid(t *testing.T) {
	if _, ok := ParsePrefix("garbage"); ok {
		t.Error("ParsePrefix returned ok=true for invalid input")
	}
}
