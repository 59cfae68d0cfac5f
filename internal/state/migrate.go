package state

import "fmt"

// migrations[v] upgrades a raw document from version v to v+1 in place.
var migrations = map[int]func(doc map[string]any) error{
	0: migrateV0,
}

// Migrate upgrades a raw snapshot document to CurrentVersion. Documents
// without a version field are treated as version 0.
func Migrate(doc map[string]any) error {
	version, err := versionOf(doc)
	if err != nil {
		return err
	}
	if version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	for v := version; v < CurrentVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, v)
		}
		if err := step(doc); err != nil {
			return fmt.Errorf("migrate v%d: %w", v, err)
		}
		doc["version"] = float64(v + 1)
	}
	return nil
}

func versionOf(doc map[string]any) (int, error) {
	raw, ok := doc["version"]
	if !ok || raw == nil {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) || f < 0 {
		return 0, fmt.Errorf("%w: bad version %v", ErrMalformed, raw)
	}
	return int(f), nil
}

// migrateV0 handles the unversioned browser-era blob: the embedded user may
// lack availableRoles, and stored credentials must not survive.
func migrateV0(doc map[string]any) error {
	user, ok := doc["user"].(map[string]any)
	if !ok {
		return nil
	}

	delete(user, "password")

	roles, _ := user["availableRoles"].([]any)
	if len(roles) == 0 {
		role, ok := user["role"]
		if !ok {
			return fmt.Errorf("%w: user without role", ErrMalformed)
		}
		user["availableRoles"] = []any{role}
	}
	return nil
}
