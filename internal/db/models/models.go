package models

// All returns every model the daemon migrates.
func All() []any {
	return []any{
		&Setting{},
		&Role{},
		&Capability{},
		&RoleCapability{},
		&User{},
	}
}
