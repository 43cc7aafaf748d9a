package classify

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/zap"
)

// OverrideStore holds manual classifications loaded from an overrides
// file. The store is read-only after load; editing the file requires a
// restart. Lookup tries the exact feed URL first, then its domain.
type OverrideStore struct {
	byKey map[string]string
}

// LoadOverrides parses a manual override file of "key = value" lines.
// Blank lines and # comments are skipped. Malformed lines are logged and
// skipped; a later duplicate key replaces an earlier one. A missing or
// unreadable file yields an empty store, never an error.
func LoadOverrides(path string, kind Kind, logger *zap.Logger) *OverrideStore {
	s := &OverrideStore{byKey: map[string]string{}}
	if path == "" {
		return s
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("override file not found", zap.String("path", path))
		} else {
			logger.Warn("reading override file", zap.String("path", path), zap.Error(err))
		}
		return s
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rawKey, rawValue, found := strings.Cut(line, "=")
		if !found {
			logger.Warn("invalid override line, expected 'key = value'",
				zap.String("path", path), zap.Int("line", lineNo))
			continue
		}
		key := strings.TrimSpace(rawKey)
		value := strings.TrimSpace(rawValue)

		storeKey, storeValue, ok := normalizeOverride(kind, key, value, path, lineNo, logger)
		if !ok {
			continue
		}

		if prev, dup := s.byKey[storeKey]; dup && prev != storeValue {
			logger.Debug("override replaced by later entry",
				zap.String("key", storeKey), zap.String("previous", prev), zap.String("value", storeValue))
		}
		s.byKey[storeKey] = storeValue
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("scanning override file", zap.String("path", path), zap.Error(err))
	}

	logger.Info("loaded manual overrides",
		zap.String("kind", string(kind)), zap.String("path", path), zap.Int("count", len(s.byKey)))
	return s
}

func normalizeOverride(kind Kind, key, value, path string, lineNo int, logger *zap.Logger) (string, string, bool) {
	switch kind {
	case KindType:
		v := strings.ToLower(value)
		if v != TypeComic && v != TypeNews {
			logger.Warn("invalid feed type in override, must be comic or news",
				zap.String("path", path), zap.Int("line", lineNo), zap.String("value", value))
			return "", "", false
		}
		if !strings.HasPrefix(key, "http://") && !strings.HasPrefix(key, "https://") {
			logger.Warn("invalid URL in override, must start with http:// or https://",
				zap.String("path", path), zap.Int("line", lineNo), zap.String("key", key))
			return "", "", false
		}
		return key, v, true
	default:
		if value == "" {
			logger.Warn("empty language in override",
				zap.String("path", path), zap.Int("line", lineNo), zap.String("key", key))
			return "", "", false
		}
		storeKey := NormalizeDomain(key)
		if strings.HasPrefix(key, "http") {
			storeKey = Domain(key)
		}
		if storeKey == "" {
			logger.Warn("invalid domain in override",
				zap.String("path", path), zap.Int("line", lineNo), zap.String("key", key))
			return "", "", false
		}
		return storeKey, Capitalize(value), true
	}
}

// Lookup returns the override for a feed, trying the exact URL and then
// its normalized domain.
func (s *OverrideStore) Lookup(feedURL string) (string, bool) {
	if v, ok := s.byKey[feedURL]; ok {
		return v, true
	}
	if d := Domain(feedURL); d != "" {
		if v, ok := s.byKey[d]; ok {
			return v, true
		}
	}
	return "", false
}

// Len reports how many overrides are loaded.
func (s *OverrideStore) Len() int {
	return len(s.byKey)
}
