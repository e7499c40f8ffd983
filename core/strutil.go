package core

// itoa converts an integer to a string without using fmt package
// This is a lightweight alternative for embedded systems
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}

// FormatField renders v as exactly width zero-padded decimal digits.
// Only the least significant width digits are kept. Fields never go
// negative, so negative values render as zero.
func FormatField(v int32, width int) string {
	var buf [10]byte
	if width > len(buf) {
		width = len(buf)
	}
	if v < 0 {
		v = 0
	}
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[:width])
}

// padRight pads s with spaces to width characters, truncating if longer
func padRight(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	buf := make([]byte, width)
	copy(buf, s)
	for i := len(s); i < width; i++ {
		buf[i] = ' '
	}
	return string(buf)
}
