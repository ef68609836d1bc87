// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oscwire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Message is a single decoded OSC message: a path and the typed argument
// values in Args, each holding a string, int32, or float32. The type
// signature ("s"/"i"/"f" per character) is not stored; TypeTags derives
// it from Args.
type Message struct {
	Path string
	Args []any
}

// TypeTags returns the type-tag string for m's arguments, e.g. "sssiii"
// for the announce message. Never includes the leading comma — that is
// added by Encode.
func (m Message) TypeTags() string {
	var b strings.Builder
	for _, arg := range m.Args {
		switch arg.(type) {
		case string:
			b.WriteByte('s')
		case int32:
			b.WriteByte('i')
		case float32:
			b.WriteByte('f')
		default:
			panic(fmt.Sprintf("oscwire: unsupported argument type %T", arg))
		}
	}
	return b.String()
}

// pad4 returns the number of padding bytes needed to bring n up to the
// next multiple of 4 (OSC's alignment requirement for every field).
func pad4(n int) int {
	r := n % 4
	if r == 0 {
		return 0
	}
	return 4 - r
}

// writePaddedString appends s followed by a NUL terminator and enough
// further NUL bytes to reach a 4-byte boundary, the OSC string encoding.
func writePaddedString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	for i := 0; i < pad4(len(s)+1); i++ {
		buf = append(buf, 0)
	}
	return buf
}

// Encode serializes m into an OSC message datagram.
func Encode(m Message) ([]byte, error) {
	if m.Path == "" || m.Path[0] != '/' {
		return nil, fmt.Errorf("oscwire: path %q must be non-empty and start with '/'", m.Path)
	}

	buf := make([]byte, 0, 64)
	buf = writePaddedString(buf, m.Path)
	buf = writePaddedString(buf, ","+m.TypeTags())

	for _, arg := range m.Args {
		switch v := arg.(type) {
		case string:
			buf = writePaddedString(buf, v)
		case int32:
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], uint32(v))
			buf = append(buf, tmp[:]...)
		case float32:
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
			buf = append(buf, tmp[:]...)
		default:
			return nil, fmt.Errorf("oscwire: unsupported argument type %T", arg)
		}
	}
	return buf, nil
}

// readPaddedString reads a NUL-terminated, 4-byte-aligned OSC string
// starting at offset. Returns the string, the offset immediately past its
// padding, and an error if the data is truncated or unterminated.
func readPaddedString(data []byte, offset int) (string, int, error) {
	if offset >= len(data) {
		return "", 0, fmt.Errorf("oscwire: truncated message reading string at offset %d", offset)
	}
	terminator := -1
	for i := offset; i < len(data); i++ {
		if data[i] == 0 {
			terminator = i
			break
		}
	}
	if terminator == -1 {
		return "", 0, fmt.Errorf("oscwire: unterminated string starting at offset %d", offset)
	}
	s := string(data[offset:terminator])
	next := terminator + 1 + pad4(len(s)+1)
	if next > len(data) {
		return "", 0, fmt.Errorf("oscwire: truncated padding for string %q", s)
	}
	return s, next, nil
}

// Decode parses a single OSC message from a raw datagram.
func Decode(data []byte) (Message, error) {
	path, offset, err := readPaddedString(data, 0)
	if err != nil {
		return Message{}, fmt.Errorf("oscwire: decoding path: %w", err)
	}
	if path == "" || path[0] != '/' {
		return Message{}, fmt.Errorf("oscwire: invalid path %q", path)
	}

	tags, offset, err := readPaddedString(data, offset)
	if err != nil {
		return Message{}, fmt.Errorf("oscwire: decoding type tags: %w", err)
	}
	if !strings.HasPrefix(tags, ",") {
		return Message{}, fmt.Errorf("oscwire: type-tag string %q missing leading comma", tags)
	}
	tags = tags[1:]

	msg := Message{Path: path, Args: make([]any, 0, len(tags))}
	for _, tag := range tags {
		switch tag {
		case 's':
			var s string
			s, offset, err = readPaddedString(data, offset)
			if err != nil {
				return Message{}, fmt.Errorf("oscwire: decoding string argument: %w", err)
			}
			msg.Args = append(msg.Args, s)
		case 'i':
			if offset+4 > len(data) {
				return Message{}, fmt.Errorf("oscwire: truncated message reading int32 argument")
			}
			msg.Args = append(msg.Args, int32(binary.BigEndian.Uint32(data[offset:offset+4])))
			offset += 4
		case 'f':
			if offset+4 > len(data) {
				return Message{}, fmt.Errorf("oscwire: truncated message reading float32 argument")
			}
			bits := binary.BigEndian.Uint32(data[offset : offset+4])
			msg.Args = append(msg.Args, math.Float32frombits(bits))
			offset += 4
		default:
			return Message{}, fmt.Errorf("oscwire: unsupported type tag %q", tag)
		}
	}
	return msg, nil
}

// String returns a human-readable rendering of m, useful for log lines.
func (m Message) String() string {
	var b strings.Builder
	b.WriteString(m.Path)
	for _, arg := range m.Args {
		fmt.Fprintf(&b, " %v", arg)
	}
	return b.String()
}
