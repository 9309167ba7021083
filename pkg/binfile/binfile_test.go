// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package binfile

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/config"
	"github.com/consensys/go-flats/pkg/lattice"
	"github.com/consensys/go-flats/pkg/matroid"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/field"
	bls12_377 "github.com/consensys/go-flats/pkg/util/field/bls12-377"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Q = field.Rational

var codecs = []Codec{CodecNone, CodecLz4, CodecZstd}

func Test_Header_01(t *testing.T) {
	header := NewHeader(CodecLz4)
	data, err := header.MarshalBinary()
	require.NoError(t, err)
	assert.True(t, IsBinaryFile(data))
	//
	var decoded Header
	require.NoError(t, decoded.UnmarshalBinary(bytesBuffer(data)))
	assert.Equal(t, header, decoded)
	assert.True(t, decoded.IsCompatible())
	//
	codec, err := decoded.Codec()
	require.NoError(t, err)
	assert.Equal(t, CodecLz4, codec)
}

func Test_Header_02(t *testing.T) {
	assert.False(t, IsBinaryFile([]byte("latf")))
	assert.False(t, IsBinaryFile([]byte("zkbinary")))
	// Truncated headers
	header := NewHeader(CodecNone)
	data, err := header.MarshalBinary()
	require.NoError(t, err)
	//
	for n := range len(data) {
		var decoded Header
		err := decoded.UnmarshalBinary(bytesBuffer(data[:n]))
		assert.ErrorIs(t, err, ErrMalformed, "length %d", n)
	}
}

func Test_Codec_01(t *testing.T) {
	for _, name := range []string{config.CompressionNone, config.CompressionLz4, config.CompressionZstd} {
		codec, err := ParseCodec(name)
		require.NoError(t, err)
		assert.Equal(t, name, codec.String())
	}
	//
	_, err := ParseCodec("gzip")
	assert.Error(t, err)
}

func Test_Codec_02(t *testing.T) {
	var (
		empty      []byte
		repetitive = bytes.Repeat([]byte("flats"), 1000)
		random     = []byte{0x3a, 0x91, 0x07, 0xee, 0x5c}
	)
	//
	for _, codec := range codecs {
		for _, data := range [][]byte{empty, repetitive, random} {
			block, err := codec.compress(data)
			require.NoError(t, err)
			//
			decoded, err := codec.decompress(block)
			require.NoError(t, err)
			assert.Equal(t, len(data), len(decoded))
			assert.True(t, bytes.Equal(data, decoded))
		}
	}
}

func Test_Codec_03(t *testing.T) {
	// Compressible data is actually compressed
	data := bytes.Repeat([]byte("flats"), 1000)
	//
	for _, codec := range []Codec{CodecLz4, CodecZstd} {
		block, err := codec.compress(data)
		require.NoError(t, err)
		assert.Less(t, len(block), len(data))
		// Corrupt the compressed size
		binary.LittleEndian.PutUint32(block[4:], uint32(len(block)))
		_, err = codec.decompress(block)
		assert.ErrorIs(t, err, ErrMalformed)
	}
	//
	_, err := CodecZstd.decompress([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_BinFile_01(t *testing.T) {
	// Braid arrangement A3 round trips with every codec
	arr := mustArrangement(t, 3, []int64{1, -1, 0, 0}, []int64{1, 0, -1, 0}, []int64{0, 1, -1, 0})
	l := build(t, arr)
	//
	for _, codec := range codecs {
		data, err := Marshal(l, codec)
		require.NoError(t, err)
		//
		decoded, err := Unmarshal[Q](data, lattice.WithSanityCheck(true))
		require.NoError(t, err)
		checkEqual(t, l, decoded)
		checkPoincare(t, l, decoded)
	}
}

func Test_BinFile_02(t *testing.T) {
	// Non-central arrangement with rational coefficients and duplicates
	arr, err := arrangement.FromRows(2,
		[]Q{field.NewRational(1, 2), field.Zero[Q](), field.NewRational(-1, 3)},
		[]Q{field.One[Q](), field.Zero[Q](), field.NewRational(-2, 3)},
		[]Q{field.Zero[Q](), field.One[Q](), field.Zero[Q]()},
		[]Q{field.One[Q](), field.One[Q](), field.NewRational(5, 7)},
	)
	require.NoError(t, err)
	//
	l := build(t, arr)
	data, err := Marshal(l, CodecZstd)
	require.NoError(t, err)
	//
	decoded, err := Unmarshal[Q](data, lattice.WithSanityCheck(true))
	require.NoError(t, err)
	checkEqual(t, l, decoded)
	checkPoincare(t, l, decoded)
	//
	for i := range arr.Len() {
		assert.True(t, arr.Hyperplane(i).Equals(decoded.Arrangement().Hyperplane(i)))
	}
}

func Test_BinFile_03(t *testing.T) {
	// Lattices over a prime field
	arr, err := arrangement.FromInt64s[bls12_377.Element](3,
		[]int64{1, 0, 0, 0}, []int64{0, 1, 0, -1}, []int64{1, 1, 1, 0}, []int64{-1, 2, 0, 3})
	require.NoError(t, err)
	//
	l := build(t, arr)
	data, err := Marshal(l, CodecLz4)
	require.NoError(t, err)
	//
	decoded, err := Unmarshal[bls12_377.Element](data, lattice.WithSanityCheck(true))
	require.NoError(t, err)
	checkEqual(t, l, decoded)
	checkPoincare(t, l, decoded)
}

func Test_BinFile_04(t *testing.T) {
	// Lattices without coordinates
	l, err := lattice.FromMatroid[Q](matroid.NewUniform(3, 5))
	require.NoError(t, err)
	//
	data, err := Marshal(l, CodecNone)
	require.NoError(t, err)
	//
	decoded, err := Unmarshal[Q](data)
	require.NoError(t, err)
	assert.Nil(t, decoded.Arrangement())
	checkEqual(t, l, decoded)
	checkPoincare(t, l, decoded)
}

func Test_BinFile_05(t *testing.T) {
	// Incompatible versions
	l := build(t, mustArrangement(t, 2, []int64{1, 0, 0}, []int64{0, 1, 0}))
	data, err := Marshal(l, CodecNone)
	require.NoError(t, err)
	// Bump major version
	newer := bytes.Clone(data)
	binary.BigEndian.PutUint16(newer[8:], BINFILE_MAJOR_VERSION+1)
	_, err = Unmarshal[Q](newer)
	assert.ErrorIs(t, err, ErrIncompatible)
	// Bump minor version
	newer = bytes.Clone(data)
	binary.BigEndian.PutUint16(newer[10:], BINFILE_MINOR_VERSION+1)
	_, err = Unmarshal[Q](newer)
	assert.ErrorIs(t, err, ErrIncompatible)
	// Wrong identifier
	other := bytes.Clone(data)
	copy(other, "zkbinary")
	_, err = Unmarshal[Q](other)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func Test_BinFile_06(t *testing.T) {
	// Malformed files
	l := build(t, mustArrangement(t, 2, []int64{1, 0, 0}, []int64{0, 1, 0}))
	data, err := Marshal(l, CodecNone)
	require.NoError(t, err)
	// Truncated body
	_, err = Unmarshal[Q](data[:len(data)-1])
	assert.ErrorIs(t, err, ErrMalformed)
	// Unknown codec
	unknown := bytes.Clone(data)
	unknown[16] = 7
	_, err = Unmarshal[Q](unknown)
	assert.ErrorIs(t, err, ErrMalformed)
	// Garbage body
	header := NewHeader(CodecNone)
	garbage, err := header.MarshalBinary()
	require.NoError(t, err)
	block, err := CodecNone.compress([]byte("not a lattice"))
	require.NoError(t, err)
	_, err = Unmarshal[Q](append(garbage, block...))
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_BinFile_07(t *testing.T) {
	// Lazy lattices cannot be saved
	l := lattice.Lazy(mustArrangement(t, 1, []int64{1, 0}))
	_, err := Marshal(l, CodecNone)
	assert.ErrorIs(t, err, lattice.ErrLazy)
}

func Test_BinFile_08(t *testing.T) {
	// Save and load through the file system
	var (
		path = filepath.Join(t.TempDir(), "a3.flats")
		arr  = mustArrangement(t, 3, []int64{1, -1, 0, 0}, []int64{1, 0, -1, 0}, []int64{0, 1, -1, 0})
		l    = build(t, arr)
		cfg  = config.Default()
	)
	//
	for _, name := range []string{config.CompressionNone, config.CompressionLz4, config.CompressionZstd} {
		cfg.Compression = name
		require.NoError(t, Save(path, l, cfg))
		//
		loaded, err := Load[Q](path)
		require.NoError(t, err)
		checkEqual(t, l, loaded)
	}
	//
	cfg.Compression = "gzip"
	assert.Error(t, Save(path, l, cfg))
	//
	_, err := Load[Q](filepath.Join(t.TempDir(), "missing.flats"))
	assert.Error(t, err)
}

func Test_BinFile_09(t *testing.T) {
	// Decoded documents are validated
	doc := &Document{Size: 2, Covers: [][2]uint{{0, 1}}, Labels: [][]uint{{}, {0}}}
	l, err := Decode[Q](doc)
	require.NoError(t, err)
	assert.Equal(t, uint(2), l.Size())
	// Label count mismatch
	_, err = Decode[Q](&Document{Size: 2, Covers: [][2]uint{{0, 1}}, Labels: [][]uint{{}}})
	assert.ErrorIs(t, err, ErrMalformed)
	// Cover out of range
	_, err = Decode[Q](&Document{Size: 2, Covers: [][2]uint{{0, 2}}, Labels: [][]uint{{}, {0}}})
	assert.ErrorIs(t, err, ErrMalformed)
	// Bad coefficient
	_, err = Decode[Q](&Document{Coordinates: true, Dimension: 1, Hyperplanes: [][]string{{"x", "0"}},
		Size: 1, Labels: [][]uint{{}}})
	assert.ErrorIs(t, err, ErrMalformed)
	// Labels must increase along covers
	_, err = Decode[Q](&Document{Size: 2, Covers: [][2]uint{{0, 1}}, Labels: [][]uint{{0}, {0}}})
	assert.ErrorIs(t, err, lattice.ErrSanity)
}

// ============================================================================
// Test Helpers
// ============================================================================

func bytesBuffer(data []byte) *bytes.Buffer {
	return bytes.NewBuffer(bytes.Clone(data))
}

func mustArrangement(t *testing.T, dim uint, rows ...[]int64) *arrangement.Arrangement[Q] {
	arr, err := arrangement.FromInt64s[Q](dim, rows...)
	require.NoError(t, err)
	//
	return arr
}

func build[F field.Element[F]](t *testing.T, arr *arrangement.Arrangement[F]) *lattice.Lattice[F] {
	l, err := lattice.FromArrangement(arr, lattice.WithSanityCheck(true))
	require.NoError(t, err)
	//
	return l
}

func checkEqual[F field.Element[F]](t *testing.T, expected, actual *lattice.Lattice[F]) {
	require.Equal(t, expected.Size(), actual.Size())
	assert.Equal(t, expected.Rank(), actual.Rank())
	//
	lp, err := expected.Poset()
	require.NoError(t, err)
	rp, err := actual.Poset()
	require.NoError(t, err)
	assert.Equal(t, lp.CoverRelations(), rp.CoverRelations())
	//
	for x := range expected.Size() {
		assert.True(t, bit.Equal(expected.Label(x), actual.Label(x)), "element %d", x)
	}
}

func checkPoincare[F field.Element[F]](t *testing.T, expected, actual *lattice.Lattice[F]) {
	lp, err := expected.PoincarePolynomial()
	require.NoError(t, err)
	rp, err := actual.PoincarePolynomial()
	require.NoError(t, err)
	assert.True(t, lp.Equals(rp), "expected %s, got %s", lp, rp)
}
