// Copyright (c) 2026 milhouse-go contributors
// SPDX-License-Identifier: Apache-2.0
// This file is part of the milhouse library.

package milhouse

import (
	"encoding/binary"
)

const offsetSize = 4

// MarshalFixed encodes values whose element type has a fixed SSZ size as
// the concatenation of their individual encodings, with no length prefix
// (spec §6's fixed-size vector/list encoding).
func MarshalFixed[T FixedSSZValue](values []T) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	size := values[0].SSZFixedSize()
	buf := make([]byte, 0, size*len(values))
	for _, v := range values {
		var err error
		buf, err = v.MarshalSSZTo(buf)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// UnmarshalListFixed decodes a variable-length list of fixed-size elements:
// num_items = len(data) / elemSize, bounds-checked against n (spec §6).
func UnmarshalListFixed[T FixedSSZValue](data []byte, elemSize int, n uint64, decode func([]byte) (T, error)) ([]T, error) {
	if elemSize <= 0 || len(data)%elemSize != 0 {
		return nil, ErrInvalidSSZLength
	}
	count := uint64(len(data) / elemSize)
	if count > n {
		return nil, ErrInvalidSSZLength
	}
	values := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := decode(data[i*uint64(elemSize) : (i+1)*uint64(elemSize)])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// UnmarshalVectorFixed decodes exactly n fixed-size elements, failing with
// ErrWrongVectorLength if the byte length doesn't correspond to exactly n.
func UnmarshalVectorFixed[T FixedSSZValue](data []byte, elemSize int, n uint64, decode func([]byte) (T, error)) ([]T, error) {
	if elemSize <= 0 || uint64(len(data)) != uint64(elemSize)*n {
		return nil, ErrWrongVectorLength
	}
	values := make([]T, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := decode(data[i*uint64(elemSize) : (i+1)*uint64(elemSize)])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// MarshalVariable encodes values whose element type has variable SSZ size
// as a header of 4-byte little-endian offsets (one per element) followed by
// their concatenated bodies (spec §6).
func MarshalVariable[T VariableSSZValue](values []T) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}

	headerSize := offsetSize * len(values)
	bodies := make([][]byte, len(values))
	bodySize := 0
	for i, v := range values {
		body, err := v.MarshalSSZTo(nil)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
		bodySize += len(body)
	}

	buf := make([]byte, 0, headerSize+bodySize)
	offset := uint32(headerSize)
	for _, body := range bodies {
		var off [offsetSize]byte
		binary.LittleEndian.PutUint32(off[:], offset)
		buf = append(buf, off[:]...)
		offset += uint32(len(body))
	}
	for _, body := range bodies {
		buf = append(buf, body...)
	}
	return buf, nil
}

// UnmarshalListVariable decodes a variable-length list of variable-size
// elements. The first offset doubles as the element count signal
// (num_items = first_offset / 4), per spec §6; the first offset is checked
// for 4-byte alignment and the derived count against n, and every offset
// for monotonicity and against the data length.
func UnmarshalListVariable[T VariableSSZValue](data []byte, n uint64, decode func([]byte) (T, error)) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < offsetSize {
		return nil, ErrInvalidSSZLength
	}

	firstOffset := binary.LittleEndian.Uint32(data[:offsetSize])
	if firstOffset == 0 || firstOffset%offsetSize != 0 {
		return nil, ErrInvalidSSZOffset
	}
	count := uint64(firstOffset) / offsetSize
	if count > n {
		return nil, ErrInvalidSSZLength
	}
	if uint64(len(data)) < count*offsetSize {
		return nil, ErrInvalidSSZLength
	}

	offsets := make([]uint32, count)
	offsets[0] = firstOffset
	for i := uint64(1); i < count; i++ {
		off := binary.LittleEndian.Uint32(data[i*offsetSize : (i+1)*offsetSize])
		if off < offsets[i-1] || uint64(off) > uint64(len(data)) {
			return nil, ErrInvalidSSZOffset
		}
		offsets[i] = off
	}
	if uint64(offsets[count-1]) > uint64(len(data)) {
		return nil, ErrInvalidSSZOffset
	}

	values := make([]T, 0, count)
	for i := uint64(0); i < count; i++ {
		start := offsets[i]
		var end uint32
		if i+1 < count {
			end = offsets[i+1]
		} else {
			end = uint32(len(data))
		}
		if end < start {
			return nil, ErrInvalidSSZOffset
		}
		v, err := decode(data[start:end])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// listValues drains l into a plain slice, in index order, for handing to the
// free MarshalFixed/MarshalVariable encoders below.
func listValues[T Value](l *List[T]) ([]T, error) {
	it, err := l.Iter()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, l.Len())
	for {
		_, v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out, nil
}

// MarshalListFixedSSZ encodes a List of fixed-size elements per spec §6.
func MarshalListFixedSSZ[T interface {
	Value
	FixedSSZValue
}](l *List[T]) ([]byte, error) {
	vs, err := listValues(l)
	if err != nil {
		return nil, err
	}
	return MarshalFixed(vs)
}

// MarshalListVariableSSZ encodes a List of variable-size elements per spec §6.
func MarshalListVariableSSZ[T interface {
	Value
	VariableSSZValue
}](l *List[T]) ([]byte, error) {
	vs, err := listValues(l)
	if err != nil {
		return nil, err
	}
	return MarshalVariable(vs)
}
