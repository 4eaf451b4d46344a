package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

// argon2idPrefix - префикс хешей предыдущей версии сервиса
const argon2idPrefix = "$argon2id$"

// errInvalidArgon2Hash возвращается для PHC строк, которые не удалось разобрать
var errInvalidArgon2Hash = oops.Code("PASSWORD_INVALID_HASH").Errorf("invalid argon2id hash")

// verifyArgon2id проверяет пароль по PHC строке вида
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
func verifyArgon2id(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, errInvalidArgon2Hash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, oops.Code("PASSWORD_INVALID_HASH").Wrap(err)
	}
	if version != argon2.Version {
		return false, oops.Code("PASSWORD_INVALID_HASH").Errorf("unsupported argon2 version %d", version)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, oops.Code("PASSWORD_INVALID_HASH").Wrap(err)
	}
	if threads == 0 || threads > 255 || iterations == 0 {
		return false, oops.Code("PASSWORD_INVALID_HASH").Errorf("invalid argon2 parameters t=%d p=%d", iterations, threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, oops.Code("PASSWORD_INVALID_HASH").Wrap(err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, oops.Code("PASSWORD_INVALID_HASH").Wrap(err)
	}
	if len(expected) == 0 || len(expected) > 1024 {
		return false, oops.Code("PASSWORD_INVALID_HASH").Errorf("invalid key length %d", len(expected))
	}

	computed := argon2.IDKey([]byte(password), salt, iterations, memory, uint8(threads), uint32(len(expected)))
	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}
