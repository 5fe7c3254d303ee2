package domain

// AddressClass is the classification outcome for one IPv4 candidate.
type AddressClass int

const (
	// ClassInvalid marks candidates that are excluded entirely: malformed
	// strings, the unspecified address, reserved space (240.0.0.0/4) and
	// multicast. They appear in neither result set.
	ClassInvalid AddressClass = iota

	// ClassPrivate marks addresses inside 10.0.0.0/8, 172.16.0.0/12 or
	// 192.168.0.0/16.
	ClassPrivate

	// ClassPublic marks every other valid IPv4 address. Loopback and
	// link-local deliberately fall in here.
	ClassPublic
)

func (c AddressClass) String() string {
	switch c {
	case ClassPrivate:
		return "private"
	case ClassPublic:
		return "public"
	default:
		return "invalid"
	}
}

// AddressRecord is the document persisted for one extracted address.
type AddressRecord struct {
	// IP holds the IPv4 address string exactly as it appeared in the log.
	IP string `bson:"ip" json:"ip"`

	// Country is the ISO country code resolved via GeoLite, when a
	// database is configured. Empty otherwise and omitted from the
	// stored document.
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// ExtractionResult is the outcome of one full-file scan. Both slices are
// deduplicated and sorted lexicographically by string value.
type ExtractionResult struct {
	Private []string
	Public  []string
}
