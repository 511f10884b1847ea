package ber

// ParseUint reads primitive INTEGER content as an unsigned big-endian
// number. The sign bit is not interpreted. A single leading 0x00 may
// extend the content to nine octets.
func ParseUint(content []byte) (uint64, error) {
	if len(content) == 0 {
		return 0, NewDecodeError(0, "integer must have at least 1 byte", ErrInvalidInteger)
	}
	if len(content) > 9 || (len(content) == 9 && content[0] != 0x00) {
		return 0, NewDecodeError(0, "integer too large for uint64", ErrInvalidInteger)
	}

	var v uint64
	for _, b := range content {
		v = v<<8 | uint64(b)
	}
	return v, nil
}
