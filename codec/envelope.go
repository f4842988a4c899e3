package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/AmrMurad1/recipe-store/shared"
	"github.com/klauspost/compress/s2"
	"github.com/pkg/errors"
	"github.com/spaolacci/murmur3"
)

// Seal wraps body in a header carrying the record kind, format version and a
// checksum of the stored payload. The payload is s2 compressed.
func Seal(kind uint8, body []byte) []byte {
	payload := s2.Encode(nil, body)

	header := shared.Header{
		Magic:      shared.MagicNumber,
		Version:    shared.FormatVersion,
		Kind:       kind,
		Flags:      shared.FlagCompressed,
		PayloadLen: uint32(len(payload)),
		Checksum:   murmur3.Sum32(payload),
	}

	buf := bytes.NewBuffer(make([]byte, 0, shared.HeaderSize+len(payload)))
	binary.Write(buf, binary.LittleEndian, &header)
	buf.Write(payload)
	return buf.Bytes()
}

// Unseal validates data and returns the original body. A well formed
// envelope of another kind yields ErrBadFileType; anything else that does not
// check out yields ErrCorruptFile.
func Unseal(kind uint8, data []byte) ([]byte, error) {
	if len(data) < shared.HeaderSize {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "truncated header (%d bytes)", len(data))
	}

	var header shared.Header
	if err := binary.Read(bytes.NewReader(data[:shared.HeaderSize]), binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(shared.ErrCorruptFile, err.Error())
	}

	if header.Magic != shared.MagicNumber {
		return nil, errors.Wrap(shared.ErrCorruptFile, "magic number mismatch")
	}
	if header.Version == 0 || header.Version > shared.FormatVersion {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "unsupported format version %d", header.Version)
	}

	payload := data[shared.HeaderSize:]
	if uint32(len(payload)) != header.PayloadLen {
		return nil, errors.Wrapf(shared.ErrCorruptFile, "payload is %d bytes, header says %d",
			len(payload), header.PayloadLen)
	}
	if murmur3.Sum32(payload) != header.Checksum {
		return nil, errors.Wrap(shared.ErrCorruptFile, "checksum mismatch")
	}

	if header.Kind != kind {
		return nil, errors.Wrapf(shared.ErrBadFileType, "record kind %d, want %d", header.Kind, kind)
	}

	if header.Flags&shared.FlagCompressed == 0 {
		return payload, nil
	}

	body, err := s2.Decode(nil, payload)
	if err != nil {
		return nil, errors.Wrap(shared.ErrCorruptFile, err.Error())
	}
	return body, nil
}
