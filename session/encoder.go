package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// CurrentSchemaVersion is written by Encode and is the only version Decode accepts.
const CurrentSchemaVersion uint8 = 1

var errFieldTooLong = errors.New("session field too long")

// Encode serializes s in the current schema version.
func Encode(s *Session) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte(CurrentSchemaVersion)

	if err := writeShort(&buf, s.UserID); err != nil {
		return nil, fmt.Errorf("userID: %w", err)
	}
	if err := writeShort(&buf, s.LegacyUserID); err != nil {
		return nil, fmt.Errorf("legacyUserID: %w", err)
	}
	for _, tok := range []string{s.AccessToken, s.RefreshToken, s.IDToken} {
		if err := writeLong(&buf, tok); err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
	}
	for _, v := range []int64{s.TokenExpiresAt, s.CreatedAt, s.ExpiresAt} {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Decode parses a blob written by Encode.
func Decode(data []byte) (*Session, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != CurrentSchemaVersion {
		return nil, fmt.Errorf("unsupported session schema version %d", version)
	}

	s := &Session{SchemaVersion: version}
	if s.UserID, err = readShort(reader); err != nil {
		return nil, err
	}
	if s.LegacyUserID, err = readShort(reader); err != nil {
		return nil, err
	}
	if s.AccessToken, err = readLong(reader); err != nil {
		return nil, err
	}
	if s.RefreshToken, err = readLong(reader); err != nil {
		return nil, err
	}
	if s.IDToken, err = readLong(reader); err != nil {
		return nil, err
	}

	for _, dst := range []*int64{&s.TokenExpiresAt, &s.CreatedAt, &s.ExpiresAt} {
		if err := binary.Read(reader, binary.BigEndian, dst); err != nil {
			return nil, err
		}
	}
	if reader.Len() != 0 {
		return nil, errors.New("trailing bytes after session")
	}
	return s, nil
}

func writeShort(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint8 {
		return errFieldTooLong
	}
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
	return nil
}

func writeLong(buf *bytes.Buffer, s string) error {
	if len(s) > math.MaxUint16 {
		return errFieldTooLong
	}
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(s)))
	buf.Write(n[:])
	buf.WriteString(s)
	return nil
}

func readShort(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	return readN(r, int(n))
}

func readLong(r *bytes.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	return readN(r, int(n))
}

func readN(r *bytes.Reader, n int) (string, error) {
	if n > r.Len() {
		return "", io.ErrUnexpectedEOF
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
