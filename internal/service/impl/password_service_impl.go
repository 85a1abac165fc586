package impl

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"employee-portal/internal/config"
	"employee-portal/internal/service"
)

const argon2idPrefix = "$argon2id$"

var errMalformedHash = errors.New("malformed argon2id hash")

type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB (e.g., 64*1024 = 64MB)
	Threads uint8
	KeyLen  uint32
	SaltLen uint32
}

var defaultArgon2Params = Argon2Params{
	Time:    3,
	Memory:  64 * 1024, // 64 MiB
	Threads: 1,
	KeyLen:  32,
	SaltLen: 16,
}

// NewPasswordService returns the service for a PASSWORD_SCHEME value.
func NewPasswordService(scheme string) (service.PasswordService, error) {
	switch scheme {
	case "", config.PasswordSchemePlaintext:
		return PlaintextPasswordService{}, nil
	case config.PasswordSchemeArgon2id:
		return NewPasswordServiceArgon2id(), nil
	}
	return nil, fmt.Errorf("unknown password scheme %q", scheme)
}

// PlaintextPasswordService stores secrets as given and compares them
// verbatim. Stored argon2id hashes still verify so a deployment can switch
// schemes back without locking users out.
type PlaintextPasswordService struct{}

func (PlaintextPasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	return password, nil
}

func (PlaintextPasswordService) Verify(password, stored string) (rehashNeeded bool, ok bool) {
	if strings.HasPrefix(stored, argon2idPrefix) {
		ok, _ = verifyArgon2id(password, stored)
		return false, ok
	}
	return false, subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

type PasswordServiceImpl struct {
	cur Argon2Params // current policy used for new hashes
}

func NewPasswordServiceArgon2id() *PasswordServiceImpl {
	return &PasswordServiceImpl{cur: defaultArgon2Params}
}

// Hash encodes the derived key in the PHC string format
// $argon2id$v=19$m=..,t=..,p=..$salt$key.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.cur.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.cur.Time, p.cur.Memory, p.cur.Threads, p.cur.KeyLen)
	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2idPrefix, argon2.Version,
		p.cur.Memory, p.cur.Time, p.cur.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify accepts argon2id hashes and legacy plaintext secrets. A legacy
// match, or a hash made under an older policy, asks for a rehash.
func (p *PasswordServiceImpl) Verify(password, stored string) (rehashNeeded bool, ok bool) {
	if !strings.HasPrefix(stored, argon2idPrefix) {
		ok = stored != "" && subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
		return ok, ok
	}
	ok, params := verifyArgon2id(password, stored)
	if !ok {
		return false, false
	}
	return params != p.cur, true
}

func verifyArgon2id(password, stored string) (bool, Argon2Params) {
	params, salt, key, err := decodeArgon2id(stored)
	if err != nil {
		return false, Argon2Params{}
	}
	calculated := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Threads, params.KeyLen)
	return subtle.ConstantTimeCompare(calculated, key) == 1, params
}

func decodeArgon2id(stored string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	var params Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &params.Threads); err != nil {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errMalformedHash
	}
	params.SaltLen = uint32(len(salt))
	params.KeyLen = uint32(len(key))
	return params, salt, key, nil
}
