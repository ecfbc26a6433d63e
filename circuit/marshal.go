package circuit

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MarshalSanitized serializes the circuit's sanitized gate tree into a
// flat byte string, the payload of the "sanitized circuit" wire
// message spec.md §6 describes. It walks the tree depth-first,
// writing each node's shape (leaf or internal), operation, and
// garbled table before recursing into its children.
func (c *Circuit) MarshalSanitized() []byte {
	var buf bytes.Buffer
	writeSanitizedGate(&buf, c.Sanitize())
	return buf.Bytes()
}

func writeSanitizedGate(buf *bytes.Buffer, g *SanitizedGate) {
	if g.IsLeaf() {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	buf.WriteByte(byte(g.Op))
	writeUint32(buf, uint32(len(g.Table)))
	for _, entry := range g.Table {
		if entry == nil {
			buf.WriteByte(0)
			continue
		}
		buf.WriteByte(1)
		writeUint32(buf, uint32(len(entry)))
		buf.Write(entry)
	}
	if !g.IsLeaf() {
		writeSanitizedGate(buf, g.Left)
		writeSanitizedGate(buf, g.Right)
	}
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

// UnmarshalSanitizedGate parses the byte form MarshalSanitized
// produces, the evaluator's counterpart.
func UnmarshalSanitizedGate(data []byte) (*SanitizedGate, error) {
	r := &byteReader{data: data}
	g, err := readSanitizedGate(r)
	if err != nil {
		return nil, fmt.Errorf("circuit: unmarshal sanitized circuit: %w", err)
	}
	if r.pos != len(r.data) {
		return nil, fmt.Errorf("circuit: unmarshal sanitized circuit: %d trailing bytes", len(r.data)-r.pos)
	}
	return g, nil
}

type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("unexpected end of data")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("unexpected end of data")
	}
	v := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

func (r *byteReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, fmt.Errorf("unexpected end of data")
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func readSanitizedGate(r *byteReader) (*SanitizedGate, error) {
	leafByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	opByte, err := r.readByte()
	if err != nil {
		return nil, err
	}
	count, err := r.readUint32()
	if err != nil {
		return nil, err
	}

	table := make([][]byte, count)
	for i := range table {
		present, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if present == 0 {
			continue
		}
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		entry, err := r.readBytes(int(n))
		if err != nil {
			return nil, err
		}
		table[i] = append([]byte(nil), entry...)
	}

	g := &SanitizedGate{Op: Op(opByte), Table: table}
	if leafByte == 0 {
		g.Left, err = readSanitizedGate(r)
		if err != nil {
			return nil, err
		}
		g.Right, err = readSanitizedGate(r)
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}
