package affiliate

import (
	"testing"
)

// canonicalURLs holds one representative outbound URL per network. Each must
// classify to exactly its own network and no other.
var canonicalURLs = map[Network]string{
	NetworkBol:          "https://www.bol.com/nl/p/koptelefoon/9300000012345678/",
	NetworkTradeTracker: "https://tc.tradetracker.net/?c=12345&m=678&a=90&r=&u=",
	NetworkDaisycon:     "https://www.daisycon.io/deeplink/?url=https://shop.example.nl/product",
	NetworkAwin:         "https://www.awin1.com/cread.php?awinmid=1234&awinaffid=5678",
	NetworkPayPro:       "https://shop.paypro.nl/checkout/12345",
	NetworkPlugPay:      "https://order.plugandpay.nl/checkout/product-x",
}

func TestDetect(t *testing.T) {
	for want, rawURL := range canonicalURLs {
		t.Run(string(want), func(t *testing.T) {
			got, ok := Detect(rawURL)
			if !ok {
				t.Fatalf("Detect(%q) = no match, want %s", rawURL, want)
			}
			if got != want {
				t.Errorf("Detect(%q) = %s, want %s", rawURL, got, want)
			}
		})
	}
}

// Each canonical URL must match only its own pattern list, otherwise the
// first-match enumeration order would silently misattribute clicks.
func TestDetectExclusive(t *testing.T) {
	for want, rawURL := range canonicalURLs {
		for other, patterns := range networkPatterns {
			if other == want {
				continue
			}
			for _, re := range patterns {
				if re.MatchString(rawURL) {
					t.Errorf("URL for %s also matches %s pattern %q", want, other, re.String())
				}
			}
		}
	}
}

func TestDetectNoMatch(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
	}{
		{"unrelated host", "https://www.example.com/product/123"},
		{"empty", ""},
		{"relative path", "/nl/p/product/123"},
		{"missing scheme", "www.bol.com/nl/p/product"},
		{"garbage", "ht!tp://%%%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := Detect(tt.rawURL); ok {
				t.Errorf("Detect(%q) = %s, want no match", tt.rawURL, got)
			}
		})
	}
}

func TestNetworksOrder(t *testing.T) {
	want := []Network{NetworkBol, NetworkTradeTracker, NetworkDaisycon, NetworkAwin, NetworkPayPro, NetworkPlugPay}
	got := Networks()
	if len(got) != len(want) {
		t.Fatalf("Networks() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Networks()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestValid(t *testing.T) {
	for _, n := range Networks() {
		if !Valid(n) {
			t.Errorf("Valid(%s) = false, want true", n)
		}
	}
	if Valid("amazon") {
		t.Error("Valid(amazon) = true, want false")
	}
	if Valid("") {
		t.Error(`Valid("") = true, want false`)
	}
}
