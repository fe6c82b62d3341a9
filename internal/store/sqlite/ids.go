package sqlite

import "github.com/google/uuid"

// newID mints a fresh opaque task/tag identifier in canonical hyphenated
// UUID form. Parent/child linkage lives purely in the parent_id column;
// the id itself carries no structure.
func newID() string { return uuid.NewString() }
