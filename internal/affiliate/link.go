package affiliate

import (
	"fmt"
	"net/url"
	"strings"
)

// bolClickBase is the partner.bol.com click wrapper. The parameter layout is
// a compatibility contract with the Bol.com partner program and must not be
// reordered.
const bolClickBase = "https://partner.bol.com/click/click?p=2&t=url&s=%s&f=TXL&url=%s"

// trackingParams maps each non-bol network to the query parameter its
// tracking system reads. Bol.com is the exception: it uses a wrapper URL
// instead of a parameter on the destination.
var trackingParams = map[Network]string{
	NetworkTradeTracker: "tt",
	NetworkDaisycon:     "dc",
	NetworkAwin:         "awc",
	NetworkPayPro:       "aff",
	NetworkPlugPay:      "ref",
}

// Generate rewrites rawURL into a trackable affiliate link for the given
// network. Rewriting is strictly additive: an empty URL, an empty affiliate
// id, an unknown network, or a URL that does not parse as absolute all
// return the input unchanged. Generate never returns an error.
func Generate(rawURL string, network Network, affiliateID string) string {
	if rawURL == "" || affiliateID == "" {
		return rawURL
	}

	if network == NetworkBol {
		return fmt.Sprintf(bolClickBase, url.QueryEscape(affiliateID), url.QueryEscape(rawURL))
	}

	param, ok := trackingParams[network]
	if !ok {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}

	// Replaces the parameter if present, appends otherwise. Path, fragment
	// and all other parameters are preserved.
	q := u.Query()
	q.Set(param, affiliateID)
	u.RawQuery = q.Encode()
	return u.String()
}

// Info is the (network, affiliate id) pair extracted from an already
// rewritten link.
type Info struct {
	NetworkID   Network `json:"networkId"`
	AffiliateID string  `json:"affiliateId"`
}

// Extract detects whether a URL already carries one of the network-specific
// tracking markers and returns the pair if so. It recognizes exactly the
// parameter vocabulary of Generate: the `s` parameter on a partner.bol.com
// host, and the per-network parameters on any host.
func Extract(rawURL string) (*Info, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}

	q := u.Query()

	if strings.EqualFold(u.Hostname(), "partner.bol.com") {
		if id := q.Get("s"); id != "" {
			return &Info{NetworkID: NetworkBol, AffiliateID: id}, true
		}
	}

	for _, n := range networkOrder {
		param, ok := trackingParams[n]
		if !ok {
			continue
		}
		if id := q.Get(param); id != "" {
			return &Info{NetworkID: n, AffiliateID: id}, true
		}
	}
	return nil, false
}
