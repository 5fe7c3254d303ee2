package geolite

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// Resolver looks up ISO country codes in a GeoLite2-Country database. A nil
// Resolver is valid and resolves nothing, so callers can pass one through
// unconditionally.
type Resolver struct {
	db *geoip2.Reader
}

func Open(path string) (*Resolver, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open GeoLite database %s: %w", path, err)
	}
	return &Resolver{db: db}, nil
}

// CountryCode returns the ISO code for the address, or "" when the resolver
// is nil, the address does not parse, or the database has no entry for it.
func (r *Resolver) CountryCode(address string) string {
	if r == nil || r.db == nil {
		return ""
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return ""
	}

	record, err := r.db.Country(ip)
	if err != nil {
		return ""
	}

	return record.Country.IsoCode
}

func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
