package wl

import "encoding/binary"

// Messages are a fixed 8-byte header (sender object id, then size<<16 |
// opcode, both little endian) followed by the argument block. Strings
// carry a length that includes the NUL terminator; strings and arrays
// are padded to 32-bit boundaries. File descriptors travel out-of-band
// as SCM_RIGHTS control data, in argument order across the stream.

const headerSize = 8

func appendUint32(dst []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, v)
}

func appendInt32(dst []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(v))
}

func appendString(dst []byte, s string) []byte {
	n := len(s) + 1 // include the NUL
	dst = appendUint32(dst, uint32(n))
	dst = append(dst, s...)
	dst = append(dst, 0)
	return appendPadding(dst, n)
}

func appendArray(dst []byte, b []byte) []byte {
	dst = appendUint32(dst, uint32(len(b)))
	dst = append(dst, b...)
	return appendPadding(dst, len(b))
}

func appendPadding(dst []byte, n int) []byte {
	for n%4 != 0 {
		dst = append(dst, 0)
		n++
	}
	return dst
}

// reader decodes one event's argument block. Decoding past the end sets
// err and returns zero values; the connection treats a set err as a
// protocol violation when dispatch returns.
type reader struct {
	data []byte
	conn *Conn
	err  error
}

func (r *reader) Uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if len(r.data) < 4 {
		r.err = errShortEvent
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data)
	r.data = r.data[4:]
	return v
}

func (r *reader) Int32() int32 { return int32(r.Uint32()) }

func (r *reader) Fixed() Fixed { return Fixed(r.Uint32()) }

func (r *reader) String() string {
	n := int(r.Uint32())
	if r.err != nil {
		return ""
	}
	if n == 0 {
		return "" // null string
	}
	padded := (n + 3) &^ 3
	if len(r.data) < padded {
		r.err = errShortEvent
		return ""
	}
	s := string(r.data[:n-1]) // drop the NUL
	r.data = r.data[padded:]
	return s
}

func (r *reader) Array() []byte {
	n := int(r.Uint32())
	if r.err != nil {
		return nil
	}
	padded := (n + 3) &^ 3
	if len(r.data) < padded {
		r.err = errShortEvent
		return nil
	}
	b := r.data[:n]
	r.data = r.data[padded:]
	return b
}

// Uint32Array decodes an array argument as native-endian uint32s, the
// layout of wl_keyboard.enter's pressed-key list.
func (r *reader) Uint32Array() []uint32 {
	b := r.Array()
	out := make([]uint32, 0, len(b)/4)
	for len(b) >= 4 {
		out = append(out, binary.LittleEndian.Uint32(b))
		b = b[4:]
	}
	return out
}

// FD takes the next queued file descriptor. The caller owns it.
func (r *reader) FD() int {
	if r.err != nil {
		return -1
	}
	if len(r.conn.inFds) == 0 {
		r.err = errNoFd
		return -1
	}
	fd := r.conn.inFds[0]
	r.conn.inFds = r.conn.inFds[1:]
	return fd
}
