package extract

import (
	"net"

	"kestrel/internal/domain"
)

// Classifier decides whether an IPv4 candidate is private, public or
// excluded. All network ranges are built once in NewClassifier; instances
// are immutable and safe for concurrent use.
type Classifier struct {
	private  []*net.IPNet
	reserved *net.IPNet
}

func NewClassifier() *Classifier {
	return &Classifier{
		private: []*net.IPNet{
			mustParseCIDR("10.0.0.0/8"),
			mustParseCIDR("172.16.0.0/12"),
			mustParseCIDR("192.168.0.0/16"),
		},
		reserved: mustParseCIDR("240.0.0.0/4"),
	}
}

// Classify is total over arbitrary strings: anything that does not parse as
// an IPv4 address comes back as ClassInvalid instead of failing. The scanner
// grammar should never hand us such a string, but defend anyway.
//
// Loopback (127.0.0.0/8) and link-local (169.254.0.0/16) are neither
// excluded nor private, so they classify as public.
func (c *Classifier) Classify(candidate string) domain.AddressClass {
	ip := net.ParseIP(candidate)
	if ip == nil {
		return domain.ClassInvalid
	}
	v4 := ip.To4()
	if v4 == nil {
		return domain.ClassInvalid
	}

	if v4.IsUnspecified() || v4.IsMulticast() || c.reserved.Contains(v4) {
		return domain.ClassInvalid
	}

	for _, network := range c.private {
		if network.Contains(v4) {
			return domain.ClassPrivate
		}
	}

	return domain.ClassPublic
}

func mustParseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(err)
	}
	return network
}
