package identifier

// Package identifier builds run-unique, human-traceable record identifiers
// from the source file name, the leading header tokens and a random token.

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Separator joins the parts of an identifier.
const Separator = "_"

// HeaderTokenCount is how many leading description tokens are kept.
const HeaderTokenCount = 2

// TokenSource supplies one fresh 128-bit random token per call, rendered as
// 32 lowercase hex characters.
type TokenSource interface {
	Token() (string, error)
}

// UUIDSource draws version 4 UUIDs from crypto/rand via google/uuid.
type UUIDSource struct{}

// Token returns a random UUID without dashes.
func (UUIDSource) Token() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate random token: %w", err)
	}
	return strings.ReplaceAll(u.String(), "-", ""), nil
}

// BaseName strips the directory and the last extension from path.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HeaderTokens returns at most the first two whitespace-separated tokens of description.
func HeaderTokens(description string) []string {
	fields := strings.Fields(description)
	if len(fields) > HeaderTokenCount {
		fields = fields[:HeaderTokenCount]
	}
	return fields
}

// Synthesize returns "<base>_<tok1>_<tok2>_<token>". Missing header tokens are
// left out together with their separator. Uniqueness rests on the token
// source; nothing is checked here.
func Synthesize(sourceFile, description string, src TokenSource) (string, error) {
	token, err := src.Token()
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, HeaderTokenCount+2)
	if base := BaseName(sourceFile); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, HeaderTokens(description)...)
	parts = append(parts, token)
	return strings.Join(parts, Separator), nil
}
