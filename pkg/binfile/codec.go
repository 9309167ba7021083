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
	"encoding/binary"
	"sync"

	"github.com/consensys/go-flats/pkg/config"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Codec identifies the compression applied to the body of a binary file.
type Codec uint8

const (
	// CodecNone stores the body as is.
	CodecNone Codec = 0
	// CodecLz4 compresses the body with LZ4 block compression.
	CodecLz4 Codec = 1
	// CodecZstd compresses the body with zstd.
	CodecZstd Codec = 2
)

// ParseCodec returns the codec with a given configuration name.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case config.CompressionNone:
		return CodecNone, nil
	case config.CompressionLz4:
		return CodecLz4, nil
	case config.CompressionZstd:
		return CodecZstd, nil
	}
	//
	return CodecNone, errors.Errorf("unknown codec %q", name)
}

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return config.CompressionNone
	case CodecLz4:
		return config.CompressionLz4
	case CodecZstd:
		return config.CompressionZstd
	}
	//
	return "unknown"
}

var (
	zstdEncoders sync.Pool
	zstdDecoders sync.Pool
)

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoders.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	//
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

func getZstdDecoder() (*zstd.Decoder, error) {
	if v := zstdDecoders.Get(); v != nil {
		return v.(*zstd.Decoder), nil
	}
	//
	return zstd.NewReader(nil)
}

// A block is laid out as [uncompressed size][compressed size][data], where a
// compressed size of zero indicates the data is stored as is.
const blockHeaderSize = 8

// Compress a body into a single block.  Data which does not shrink is stored
// as is.
func (c Codec) compress(data []byte) ([]byte, error) {
	var (
		compressed []byte
		err        error
	)
	//
	if c > CodecZstd {
		return nil, errors.Errorf("unknown codec %d", c)
	}
	//
	switch {
	case len(data) == 0 || c == CodecNone:
	case c == CodecLz4:
		compressed = make([]byte, lz4.CompressBlockBound(len(data)))
		//
		var n int
		if n, err = lz4.CompressBlock(data, compressed, nil); err == nil {
			compressed = compressed[:n]
		}
	default:
		var enc *zstd.Encoder
		//
		if enc, err = getZstdEncoder(); err == nil {
			compressed = enc.EncodeAll(data, nil)
			zstdEncoders.Put(enc)
		}
	}
	//
	if err != nil {
		return nil, err
	} else if len(compressed) == 0 || len(compressed) >= len(data) {
		compressed = nil
	}
	//
	block := make([]byte, blockHeaderSize, blockHeaderSize+max(len(data), len(compressed)))
	binary.LittleEndian.PutUint32(block[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(block[4:], uint32(len(compressed)))
	//
	if compressed == nil {
		return append(block, data...), nil
	}
	//
	return append(block, compressed...), nil
}

// Decompress a block produced by compress.
func (c Codec) decompress(block []byte) ([]byte, error) {
	if len(block) < blockHeaderSize {
		return nil, errors.Wrap(ErrMalformed, "block too small for header")
	}
	//
	var (
		size       = binary.LittleEndian.Uint32(block[0:])
		compressed = binary.LittleEndian.Uint32(block[4:])
		data       = block[blockHeaderSize:]
	)
	//
	if compressed == 0 {
		if uint32(len(data)) != size {
			return nil, errors.Wrapf(ErrMalformed, "block holds %d bytes, expected %d", len(data), size)
		}
		//
		return data, nil
	} else if uint32(len(data)) != compressed {
		return nil, errors.Wrapf(ErrMalformed, "block holds %d bytes, expected %d", len(data), compressed)
	}
	//
	result := make([]byte, size)
	//
	switch c {
	case CodecLz4:
		n, err := lz4.UncompressBlock(data, result)
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
		//
		result = result[:n]
	case CodecZstd:
		dec, err := getZstdDecoder()
		if err != nil {
			return nil, err
		}
		//
		result, err = dec.DecodeAll(data, result[:0])
		zstdDecoders.Put(dec)
		//
		if err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	default:
		return nil, errors.Wrapf(ErrMalformed, "compressed block with codec %s", c)
	}
	//
	if uint32(len(result)) != size {
		return nil, errors.Wrapf(ErrMalformed, "decompressed %d bytes, expected %d", len(result), size)
	}
	//
	return result, nil
}
