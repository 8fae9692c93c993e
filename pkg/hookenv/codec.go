package hookenv

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// EncodeSession serializes a Session the same way pkg/envdiff encodes
// a Diff (msgpack -> zlib -> base64), so it fits in a single
// environment variable (__MVX_SESSION) without embedded shell-special
// characters.
func EncodeSession(s Session) (string, error) {
	raw, err := msgpack.Marshal(toWire(s))
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return "", fmt.Errorf("init zlib writer: %w", err)
	}
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("compress session: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("flush compressed session: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeSession reverses EncodeSession. An empty token decodes to the
// zero Session (no previous session recorded), not an error.
func DecodeSession(token string) (Session, error) {
	if token == "" {
		return Session{}, nil
	}

	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Session{}, fmt.Errorf("decode session base64: %w", err)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Session{}, fmt.Errorf("init zlib reader: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return Session{}, fmt.Errorf("decompress session: %w", err)
	}

	var w wireSession
	if err := msgpack.Unmarshal(raw, &w); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	return fromWire(w), nil
}
