package authstate

import "encoding/json"

// Type identifies the active credential scheme.
type Type string

const (
	// TypeNone means no credentials are set.
	TypeNone Type = ""

	// TypeBasic means a username/password pair formatted as a Basic header.
	TypeBasic Type = "basic"

	// TypeBearer means an opaque token formatted as a Bearer header.
	TypeBearer Type = "bearer"
)

// Session is the authentication state triple. The zero value is the
// unauthenticated state.
//
// Invariants: Header is non-empty iff Type != TypeNone, and Username is
// non-empty only when Type == TypeBasic. The triple is always written
// atomically through a single signal update, so readers never observe a
// partial state.
type Session struct {
	// Type is the active credential scheme.
	Type Type

	// Header is the formatted Authorization header value,
	// e.g. "Basic YWxpY2U6c2VjcmV0" or "Bearer abc123".
	Header string

	// Username is the basic-auth username; empty for bearer and none.
	Username string
}

// sessionWire is the persisted JSON shape. Absent fields are explicit nulls.
type sessionWire struct {
	AuthType            *string `json:"authType"`
	AuthorizationHeader *string `json:"authorizationHeader"`
	Username            *string `json:"username"`
}

// MarshalJSON implements json.Marshaler using the persisted layout:
//
//	{"authType":"basic","authorizationHeader":"Basic ...","username":"alice"}
//
// with null for every absent field.
func (s Session) MarshalJSON() ([]byte, error) {
	var wire sessionWire
	if s.Type != TypeNone {
		authType := string(s.Type)
		wire.AuthType = &authType
		header := s.Header
		wire.AuthorizationHeader = &header
	}
	if s.Type == TypeBasic {
		username := s.Username
		wire.Username = &username
	}
	return json.Marshal(wire)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Session) UnmarshalJSON(data []byte) error {
	var wire sessionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*s = Session{}
	if wire.AuthType != nil {
		s.Type = Type(*wire.AuthType)
	}
	if wire.AuthorizationHeader != nil {
		s.Header = *wire.AuthorizationHeader
	}
	if wire.Username != nil {
		s.Username = *wire.Username
	}
	return nil
}

// valid reports whether the triple satisfies the store invariants. Persisted
// entries that fail it are discarded on load.
func (s Session) valid() bool {
	switch s.Type {
	case TypeNone:
		return s.Header == "" && s.Username == ""
	case TypeBasic:
		return s.Header != ""
	case TypeBearer:
		return s.Header != "" && s.Username == ""
	default:
		return false
	}
}
