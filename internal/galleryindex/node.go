package galleryindex

import (
	"encoding/binary"
	"fmt"
)

// nodeReader walks a node buffer with bounds checking.
type nodeReader struct {
	data []byte
	off  int
}

func (r *nodeReader) need(n int) error {
	if r.off+n > len(r.data) {
		return fmt.Errorf("index node: truncated at offset %d", r.off)
	}
	return nil
}

func (r *nodeReader) uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *nodeReader) uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v, nil
}

func (r *nodeReader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// parseNode decodes the node wire format: a key vector, a data-reference
// vector and a fixed fan-out of subnode addresses.
func parseNode(data []byte) (*Node, error) {
	r := &nodeReader{data: data}

	keyCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, 0, keyCount)
	for i := uint32(0); i < keyCount; i++ {
		size, err := r.uint32()
		if err != nil {
			return nil, err
		}
		if size == 0 || size >= 32 {
			return nil, fmt.Errorf("index node: key size %d outside 1..31", size)
		}
		raw, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		key := make([]byte, size)
		copy(key, raw)
		keys = append(keys, key)
	}

	dataCount, err := r.uint32()
	if err != nil {
		return nil, err
	}
	refs := make([]DataRef, 0, dataCount)
	for i := uint32(0); i < dataCount; i++ {
		offset, err := r.uint64()
		if err != nil {
			return nil, err
		}
		length, err := r.uint32()
		if err != nil {
			return nil, err
		}
		refs = append(refs, DataRef{Offset: offset, Length: int(int32(length))})
	}

	subnodes := make([]uint64, 0, subnodeCount)
	for i := 0; i < subnodeCount; i++ {
		address, err := r.uint64()
		if err != nil {
			return nil, err
		}
		subnodes = append(subnodes, address)
	}

	return &Node{Keys: keys, Data: refs, Subnodes: subnodes}, nil
}
