package crypto

import (
	"crypto/des" //nolint:gosec
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// KeySize is the required media key length in bytes.
const KeySize = 8

// DecryptMediaURL decrypts an encrypted media reference into a clear-text
// base URL. The upstream scheme is DES in ECB mode with PKCS#7 padding over
// a base64 ciphertext, with an 8-character ASCII key as raw key material.
// Callers are expected to degrade a failed decryption to an empty URL.
func DecryptMediaURL(key, encrypted string) (string, error) {
	if len(key) != KeySize {
		return "", fmt.Errorf("media key must be %d bytes, got %d", KeySize, len(key))
	}

	if len(encrypted) == 0 {
		return "", errors.New("empty ciphertext")
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encrypted)
	if nil != err {
		return "", fmt.Errorf("decode base64 ciphertext: %v", err)
	}

	block, err := des.NewCipher([]byte(key)) //nolint:gosec
	if nil != err {
		return "", fmt.Errorf("create DES cipher: %v", err)
	}

	bs := block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return "", fmt.Errorf("ciphertext length %d is not a multiple of block size %d", len(ciphertext), bs)
	}

	clear := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += bs {
		block.Decrypt(clear[i:i+bs], ciphertext[i:i+bs])
	}

	clear, err = unpadPKCS7(clear, bs)
	if nil != err {
		return "", fmt.Errorf("remove PKCS#7 padding: %v", err)
	}

	if !utf8.Valid(clear) {
		return "", errors.New("decrypted payload is not valid UTF-8")
	}

	return string(clear), nil
}

func unpadPKCS7(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty payload")
	}

	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding length %d", n)
	}

	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, errors.New("inconsistent padding bytes")
		}
	}

	return b[:len(b)-n], nil
}

var imageResolutionRe = regexp.MustCompile(`-\d+x\d+\.(jpg|webp)`)

// HighResImageURL rewrites a low-resolution cover link (e.g. 150x150) to
// its 500x500 variant. Unrecognized links are returned unchanged.
func HighResImageURL(imageURL string) string {
	if len(imageURL) == 0 {
		return ""
	}

	return imageResolutionRe.ReplaceAllString(imageURL, "-500x500.jpg")
}
