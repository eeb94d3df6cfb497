package cbor

// TagNumber is a CBOR tag number type.
type TagNumber uint64

// Well-known tag numbers from the IANA "CBOR Tags" registry.
// The codec attaches no behavior to them.
const (
	TagDateTimeString  TagNumber = 0
	TagEpochDateTime   TagNumber = 1
	TagPositiveBignum  TagNumber = 2
	TagNegativeBignum  TagNumber = 3
	TagDecimalFraction TagNumber = 4
	TagBigfloat        TagNumber = 5

	TagExpectedBase64URL TagNumber = 21
	TagExpectedBase64    TagNumber = 22
	TagExpectedBase16    TagNumber = 23
	TagEncodedData       TagNumber = 24

	TagURI          TagNumber = 32
	TagBase64URL    TagNumber = 33
	TagBase64       TagNumber = 34
	TagRegexp       TagNumber = 35
	TagMIMEMessage  TagNumber = 36
	TagSelfDescribe TagNumber = 55799

	// RFC 9164
	TagIPv4Address TagNumber = 52
	TagIPv6Address TagNumber = 54
)
