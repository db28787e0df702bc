package affiliate

import (
	"net/url"
	"regexp"
)

// Network identifies one of the supported affiliate partner programs.
type Network string

const (
	NetworkBol          Network = "bol"
	NetworkTradeTracker Network = "tradetracker"
	NetworkDaisycon     Network = "daisycon"
	NetworkAwin         Network = "awin"
	NetworkPayPro       Network = "paypro"
	NetworkPlugPay      Network = "plugpay"
)

// networkOrder is the fixed enumeration order used by detection and by
// config/stat listings. Detection returns the first network whose pattern
// list matches, so the order is part of the classification contract.
var networkOrder = []Network{
	NetworkBol,
	NetworkTradeTracker,
	NetworkDaisycon,
	NetworkAwin,
	NetworkPayPro,
	NetworkPlugPay,
}

// Networks returns all supported networks in enumeration order.
func Networks() []Network {
	out := make([]Network, len(networkOrder))
	copy(out, networkOrder)
	return out
}

// Valid reports whether n is one of the supported networks.
func Valid(n Network) bool {
	_, ok := displayNames[n]
	return ok
}

var displayNames = map[Network]string{
	NetworkBol:          "Bol.com Partner",
	NetworkTradeTracker: "TradeTracker",
	NetworkDaisycon:     "Daisycon",
	NetworkAwin:         "Awin",
	NetworkPayPro:       "PayPro",
	NetworkPlugPay:      "Plug&Pay",
}

// DisplayName returns the human-readable name for a network.
func DisplayName(n Network) string {
	return displayNames[n]
}

// networkPatterns maps each network to the URL patterns it owns. Patterns
// are hostname-anchored where possible; redirect domains that belong to a
// network by business convention are matched as substrings of the full URL.
var networkPatterns = map[Network][]*regexp.Regexp{
	NetworkBol: {
		regexp.MustCompile(`^https?://(www\.)?bol\.com/`),
		regexp.MustCompile(`^https?://partner\.bol\.com/`),
	},
	NetworkTradeTracker: {
		regexp.MustCompile(`tradetracker\.(com|net)`),
		regexp.MustCompile(`^https?://tc\.tradetracker\.net/`),
	},
	NetworkDaisycon: {
		regexp.MustCompile(`daisycon\.(com|io)`),
		regexp.MustCompile(`ds1\.nl`),
	},
	NetworkAwin: {
		regexp.MustCompile(`awin1\.com`),
		regexp.MustCompile(`awin\.com`),
		regexp.MustCompile(`zenaps\.com`),
	},
	NetworkPayPro: {
		regexp.MustCompile(`paypro\.nl`),
		regexp.MustCompile(`payproconnect\.nl`),
	},
	NetworkPlugPay: {
		regexp.MustCompile(`plugandpay\.nl`),
		regexp.MustCompile(`checkout\.plugpay\.`),
	},
}

// Detect classifies a raw outbound URL to the network it belongs to.
// Classification is a pure function of the URL and the static pattern table:
// whether the network is configured or enabled is a separate concern.
// Malformed or relative URLs yield no match, never an error.
func Detect(rawURL string) (Network, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}

	for _, n := range networkOrder {
		for _, re := range networkPatterns[n] {
			if re.MatchString(rawURL) {
				return n, true
			}
		}
	}
	return "", false
}
