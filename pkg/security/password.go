package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/smartpark-rw/sims-backend/pkg/config"
)

// ErrMalformedHash signals an encoded hash that does not parse as Argon2id.
var ErrMalformedHash = errors.New("malformed argon2id hash")

const hashPrefix = "$argon2id$v=19$"

type argonParams struct {
	memoryKB uint32
	passes   uint32
	threads  uint8
	saltLen  uint32
	keyLen   uint32
}

// HashPassword derives an Argon2id hash and encodes it in the standard
// $argon2id$ form so the parameters travel with the hash.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	p := boundedParams(cfg)
	salt := make([]byte, p.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, p.passes, p.memoryKB, p.threads, p.keyLen)

	var b strings.Builder
	b.WriteString(hashPrefix)
	fmt.Fprintf(&b, "m=%d,t=%d,p=%d$", p.memoryKB, p.passes, p.threads)
	b.WriteString(base64.RawStdEncoding.EncodeToString(salt))
	b.WriteByte('$')
	b.WriteString(base64.RawStdEncoding.EncodeToString(key))
	return b.String(), nil
}

// VerifyPassword re-derives the key with the parameters stored in the
// encoded hash and compares in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	p, salt, want, err := parseHash(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.passes, p.memoryKB, p.threads, p.keyLen)
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// boundedParams clamps the configured tuning into sane operational ranges.
func boundedParams(cfg config.PasswordConfig) argonParams {
	return argonParams{
		memoryKB: uint32(bound(cfg.ArgonMemoryKB, 8, 512*1024)),
		passes:   uint32(bound(cfg.ArgonTime, 1, 10)),
		threads:  uint8(bound(cfg.ArgonParallelism, 1, 255)),
		saltLen:  uint32(bound(cfg.ArgonSaltLen, 8, 64)),
		keyLen:   uint32(bound(cfg.ArgonKeyLen, 16, 64)),
	}
}

func parseHash(encoded string) (argonParams, []byte, []byte, error) {
	fail := func() (argonParams, []byte, []byte, error) {
		return argonParams{}, nil, nil, ErrMalformedHash
	}

	if !strings.HasPrefix(encoded, hashPrefix) {
		return fail()
	}
	rest := strings.Split(strings.TrimPrefix(encoded, hashPrefix), "$")
	if len(rest) != 3 {
		return fail()
	}

	var p argonParams
	for _, field := range strings.Split(rest[0], ",") {
		name, value, ok := strings.Cut(field, "=")
		if !ok {
			return fail()
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fail()
		}
		switch name {
		case "m":
			p.memoryKB = uint32(n)
		case "t":
			p.passes = uint32(n)
		case "p":
			if n > 255 {
				return fail()
			}
			p.threads = uint8(n)
		}
	}

	salt, err := base64.RawStdEncoding.DecodeString(rest[1])
	if err != nil {
		return fail()
	}
	key, err := base64.RawStdEncoding.DecodeString(rest[2])
	if err != nil {
		return fail()
	}
	p.saltLen = uint32(len(salt))
	p.keyLen = uint32(len(key))
	return p, salt, key, nil
}

func bound(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
