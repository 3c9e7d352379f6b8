package shared

import (
	"crypto/rand"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

func NewID(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

type Role string

const (
	RoleReader Role = "reader"
	RoleAuthor Role = "author"
	RoleAdmin  Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

type AvatarKind int

const (
	AvatarNone AvatarKind = iota
	AvatarLocalFile
	AvatarExternalURL
)

// Avatar is a tagged reference to a profile picture: nothing at all, a
// filename under the local upload directory, or an absolute external URL.
type Avatar struct {
	kind AvatarKind
	ref  string
}

func NoAvatar() Avatar {
	return Avatar{}
}

func LocalFile(name string) Avatar {
	if name == "" {
		return Avatar{}
	}
	return Avatar{kind: AvatarLocalFile, ref: name}
}

func ExternalURL(url string) Avatar {
	if url == "" {
		return Avatar{}
	}
	return Avatar{kind: AvatarExternalURL, ref: url}
}

func (a Avatar) Kind() AvatarKind {
	return a.kind
}

func (a Avatar) IsZero() bool {
	return a.kind == AvatarNone
}

// Ref returns the filename or URL, empty for NoAvatar.
func (a Avatar) Ref() string {
	return a.ref
}

func (a Avatar) Value() (driver.Value, error) {
	return a.ref, nil
}

func (a Avatar) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.ref)
}

func (a *Avatar) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = ParseAvatar(s)
	return nil
}

func (a *Avatar) Scan(value any) error {
	if value == nil {
		*a = Avatar{}
		return nil
	}

	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return fmt.Errorf("cannot scan %T into Avatar", value)
	}

	*a = ParseAvatar(s)
	return nil
}

// ParseAvatar classifies a stored avatar reference. Absolute http/https
// references are external, anything else is a local upload filename.
func ParseAvatar(s string) Avatar {
	switch {
	case s == "":
		return Avatar{}
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return Avatar{kind: AvatarExternalURL, ref: s}
	default:
		return Avatar{kind: AvatarLocalFile, ref: s}
	}
}
