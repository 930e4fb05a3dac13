package model

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator returns a fresh task id.
type IDGenerator func() string

type IDFormat string

const (
	IDFormatULID IDFormat = "ulid"
	IDFormatUUID IDFormat = "uuid"
)

func (f IDFormat) IsValid() bool {
	switch f {
	case IDFormatULID, IDFormatUUID:
		return true
	default:
		return false
	}
}

func GeneratorFor(f IDFormat) (IDGenerator, error) {
	switch f {
	case IDFormatULID, "":
		return NewULID, nil
	case IDFormatUUID:
		return NewUUID, nil
	default:
		return nil, fmt.Errorf("model: unknown id format %q", f)
	}
}

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var timeNow = func() time.Time { return time.Now().UTC() }

func NewULID() string {
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(ulid.Timestamp(timeNow()), entropy)
	if err != nil {
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToLower(id.String())
}

func NewUUID() string {
	return uuid.NewString()
}
