package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MigrationPair names the up and down files of one schema change.
type MigrationPair struct {
	Version  uint64
	UpPath   string
	DownPath string
}

// CreateMigration writes an empty .up.sql/.down.sql pair into dir,
// numbered one past the highest version already present. The sequential
// %06d prefix matches the existing clients and manufacturer_profile
// migrations.
func CreateMigration(dir, name string) (*MigrationPair, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q contains no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version, err := nextVersion(dir)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("%06d_%s", version, slug)
	pair := &MigrationPair{
		Version:  version,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	upBody := fmt.Sprintf("-- %s\n\n", slug)
	if err := os.WriteFile(pair.UpPath, []byte(upBody), 0o644); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}

	downBody := fmt.Sprintf("-- revert %s\n\n", slug)
	if err := os.WriteFile(pair.DownPath, []byte(downBody), 0o644); err != nil {
		_ = os.Remove(pair.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}

	return pair, nil
}

// nextVersion scans dir for the highest numeric prefix and returns the
// one after it. An empty directory starts at 1.
func nextVersion(dir string) (uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var highest uint64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		prefix, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 64)
		if err != nil {
			continue
		}
		if v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

// sanitizeName lowercases a human-readable name into a snake_case slug.
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// ListMigrations returns the sorted base names of the migrations in dir.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make([]string, 0, len(entries)/2)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		names = append(names, base)
	}
	sort.Strings(names)
	return names, nil
}
