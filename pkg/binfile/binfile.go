package binfile

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ============================================================================
// Binary File Format
// ============================================================================

// ErrMalformed indicates a binary file which could not be decoded.
var ErrMalformed = errors.New("malformed binary file")

// ErrIncompatible indicates a binary file produced by an unsupported version,
// or which is not a lattice file at all.
var ErrIncompatible = errors.New("incompatible binary file")

// Header provides a structured header for the binary file format.  In
// particular, it supports versioning and embedded (binary) metadata.  The
// metadata of a lattice file holds the codec used to compress its body.
type Header struct {
	Identifier   [8]byte
	MajorVersion uint16
	MinorVersion uint16
	MetaData     []byte
}

// NewHeader constructs a header for the currently supported version, recording
// a given codec.
func NewHeader(codec Codec) Header {
	return Header{LATFLATS, BINFILE_MAJOR_VERSION, BINFILE_MINOR_VERSION, []byte{byte(codec)}}
}

// MarshalBinary converts the file header into a sequence of bytes.
func (p *Header) MarshalBinary() ([]byte, error) {
	var (
		buffer     bytes.Buffer
		majorBytes [2]byte
		minorBytes [2]byte
		metaLength [4]byte
	)
	// Marshall version numbers
	binary.BigEndian.PutUint16(majorBytes[:], p.MajorVersion)
	binary.BigEndian.PutUint16(minorBytes[:], p.MinorVersion)
	binary.BigEndian.PutUint32(metaLength[:], uint32(len(p.MetaData)))
	// Write identifier
	buffer.Write(p.Identifier[:])
	// Write major version
	buffer.Write(majorBytes[:])
	// Write minor version
	buffer.Write(minorBytes[:])
	// Write metadata length
	buffer.Write(metaLength[:])
	// Write metadata itself
	buffer.Write(p.MetaData)
	// Done
	return buffer.Bytes(), nil
}

// UnmarshalBinary reads a header from a given buffer, leaving the buffer
// positioned at the start of the body.
func (p *Header) UnmarshalBinary(buffer *bytes.Buffer) error {
	var (
		majorBytes      [2]byte
		minorBytes      [2]byte
		metaLengthBytes [4]byte
	)
	// Read identifier
	if _, err := io.ReadFull(buffer, p.Identifier[:]); err != nil {
		return errors.Wrap(ErrMalformed, "truncated identifier")
	}
	// Read major version
	if _, err := io.ReadFull(buffer, majorBytes[:]); err != nil {
		return errors.Wrap(ErrMalformed, "truncated major version")
	}
	// Read minor version
	if _, err := io.ReadFull(buffer, minorBytes[:]); err != nil {
		return errors.Wrap(ErrMalformed, "truncated minor version")
	}
	// Read metadata length
	if _, err := io.ReadFull(buffer, metaLengthBytes[:]); err != nil {
		return errors.Wrap(ErrMalformed, "truncated metadata length")
	}
	//
	metaLength := binary.BigEndian.Uint32(metaLengthBytes[:])
	//
	if uint64(metaLength) > uint64(buffer.Len()) {
		return errors.Wrapf(ErrMalformed, "metadata of %d bytes exceeds file", metaLength)
	}
	// Read metadata itself
	metaBytes := make([]byte, metaLength)
	if _, err := io.ReadFull(buffer, metaBytes); err != nil {
		return errors.Wrap(ErrMalformed, "truncated metadata")
	}
	// Finally assign everything over
	p.MajorVersion = binary.BigEndian.Uint16(majorBytes[:])
	p.MinorVersion = binary.BigEndian.Uint16(minorBytes[:])
	p.MetaData = metaBytes
	// Done
	return nil
}

// IsCompatible determines whether a given binary file is compatible with this
// version of the library.
func (p *Header) IsCompatible() bool {
	//
	return p.Identifier == LATFLATS &&
		p.MajorVersion == BINFILE_MAJOR_VERSION &&
		p.MinorVersion <= BINFILE_MINOR_VERSION
}

// Codec returns the codec recorded in the metadata of this header.
func (p *Header) Codec() (Codec, error) {
	if len(p.MetaData) != 1 {
		return CodecNone, errors.Wrapf(ErrMalformed, "metadata has %d bytes", len(p.MetaData))
	}
	//
	codec := Codec(p.MetaData[0])
	//
	if codec > CodecZstd {
		return CodecNone, errors.Wrapf(ErrMalformed, "unknown codec %d", codec)
	}
	//
	return codec, nil
}

// BINFILE_MAJOR_VERSION gives the major version of the binary file format.  No
// matter what version, we should always have the LATFLATS identifier first,
// followed by the remainder of the header.  What follows after that, however,
// is determined by the major version.
const BINFILE_MAJOR_VERSION uint16 = 1

// BINFILE_MINOR_VERSION gives the minor version of the binary file format.  The
// expected interpretation is that older versions are compatible with newer
// ones, but not vice-versa.
const BINFILE_MINOR_VERSION uint16 = 0

// LATFLATS is used as the file identifier for binary file types.  This just
// helps us identify actual binary files from corrupted files.
var LATFLATS [8]byte = [8]byte{'l', 'a', 't', 'f', 'l', 'a', 't', 's'}

// IsBinaryFile performs a quick check whether a given sequence of bytes starts
// with the lattice file identifier.
func IsBinaryFile(data []byte) bool {
	var (
		latflats [8]byte
		buffer   *bytes.Buffer = bytes.NewBuffer(data)
	)
	//
	if _, err := io.ReadFull(buffer, latflats[:]); err != nil {
		return false
	}
	// Check whether header identified
	return latflats == LATFLATS
}
