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
	"encoding/gob"
	"os"

	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-flats/pkg/arrangement"
	"github.com/consensys/go-flats/pkg/config"
	"github.com/consensys/go-flats/pkg/lattice"
	"github.com/consensys/go-flats/pkg/poset"
	"github.com/consensys/go-flats/pkg/util/collection/bit"
	"github.com/consensys/go-flats/pkg/util/field"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Document is the body of a lattice file.  Coefficients are held in their
// exact textual form, so that lattices over any field round trip.
type Document struct {
	// Indicates whether the lattice carries an arrangement.
	Coordinates bool
	// Dimension of the ambient space.
	Dimension uint
	// Each hyperplane as an equation [a | c].
	Hyperplanes [][]string
	// Number of elements.
	Size uint
	// Cover relations between elements.
	Covers [][2]uint
	// Label of each element.
	Labels [][]uint
}

// Encode extracts the document for a given (eager) lattice.
func Encode[F field.Element[F]](l *lattice.Lattice[F]) (*Document, error) {
	p, err := l.Poset()
	if err != nil {
		return nil, err
	}
	//
	doc := &Document{Size: p.Size(), Covers: p.CoverRelations()}
	//
	for _, label := range l.LabelsOfFlats() {
		doc.Labels = append(doc.Labels, bit.Indices(label))
	}
	//
	if arr := l.Arrangement(); arr != nil {
		doc.Coordinates = true
		doc.Dimension = arr.Dim()
		//
		for _, row := range arr.Matrix() {
			text := make([]string, len(row))
			//
			for j, c := range row {
				text[j] = c.Text(10)
			}
			//
			doc.Hyperplanes = append(doc.Hyperplanes, text)
		}
	}
	//
	return doc, nil
}

// Decode reconstructs the lattice described by a given document.
func Decode[F field.Element[F]](doc *Document, opts ...lattice.Option) (*lattice.Lattice[F], error) {
	var arr *arrangement.Arrangement[F]
	//
	if doc.Coordinates {
		rows := make([][]F, len(doc.Hyperplanes))
		//
		for i, text := range doc.Hyperplanes {
			rows[i] = make([]F, len(text))
			//
			for j, s := range text {
				c, err := field.Parse[F](s)
				if err != nil {
					return nil, errors.Wrapf(ErrMalformed, "hyperplane %d: %s", i, err)
				}
				//
				rows[i][j] = c
			}
		}
		//
		var err error
		if arr, err = arrangement.FromRows(doc.Dimension, rows...); err != nil {
			return nil, errors.Wrap(ErrMalformed, err.Error())
		}
	}
	//
	if uint(len(doc.Labels)) != doc.Size {
		return nil, errors.Wrapf(ErrMalformed, "%d labels for %d elements", len(doc.Labels), doc.Size)
	}
	//
	for _, c := range doc.Covers {
		if c[0] >= doc.Size || c[1] >= doc.Size {
			return nil, errors.Wrapf(ErrMalformed, "cover %d < %d out of range", c[0], c[1])
		}
	}
	//
	p, err := poset.New(doc.Size, doc.Covers)
	if err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	//
	labels := make([]*bitset.BitSet, doc.Size)
	//
	for i, indices := range doc.Labels {
		labels[i] = bit.Of(indices...)
	}
	//
	return lattice.New(arr, p, labels, opts...)
}

// Marshal encodes a lattice as a binary file whose body is compressed with a
// given codec.
func Marshal[F field.Element[F]](l *lattice.Lattice[F], codec Codec) ([]byte, error) {
	var (
		header = NewHeader(codec)
		body   bytes.Buffer
	)
	//
	doc, err := Encode(l)
	if err != nil {
		return nil, err
	} else if err := gob.NewEncoder(&body).Encode(doc); err != nil {
		return nil, err
	}
	//
	block, err := codec.compress(body.Bytes())
	if err != nil {
		return nil, err
	}
	//
	data, err := header.MarshalBinary()
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("encoded lattice of %d elements (%d bytes, %d compressed with %s)", doc.Size, body.Len(),
		len(block), codec)
	//
	return append(data, block...), nil
}

// Unmarshal decodes a lattice from a binary file.
func Unmarshal[F field.Element[F]](data []byte, opts ...lattice.Option) (*lattice.Lattice[F], error) {
	var (
		header Header
		buffer = bytes.NewBuffer(data)
		doc    Document
	)
	//
	if err := header.UnmarshalBinary(buffer); err != nil {
		return nil, err
	} else if !header.IsCompatible() {
		return nil, errors.Wrapf(ErrIncompatible, "file was %q v%d.%d, but expected v%d.%d",
			header.Identifier[:], header.MajorVersion, header.MinorVersion, BINFILE_MAJOR_VERSION,
			BINFILE_MINOR_VERSION)
	}
	//
	codec, err := header.Codec()
	if err != nil {
		return nil, err
	}
	//
	body, err := codec.decompress(buffer.Bytes())
	if err != nil {
		return nil, err
	} else if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&doc); err != nil {
		return nil, errors.Wrap(ErrMalformed, err.Error())
	}
	//
	return Decode[F](&doc, opts...)
}

// Save writes a lattice to a given file, compressing with the codec named in a
// given configuration.
func Save[F field.Element[F]](path string, l *lattice.Lattice[F], cfg config.Config) error {
	codec, err := ParseCodec(cfg.Compression)
	if err != nil {
		return err
	}
	//
	data, err := Marshal(l, codec)
	if err != nil {
		return err
	}
	//
	return os.WriteFile(path, data, 0644)
}

// Load reads a lattice from a given file.
func Load[F field.Element[F]](path string, opts ...lattice.Option) (*lattice.Lattice[F], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	//
	return Unmarshal[F](data, opts...)
}
