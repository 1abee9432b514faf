package models

// Secret is one stored credential. At most one row exists per
// (OwnerID, Service) pair; all access is scoped to the owning account.
type Secret struct {
	OwnerID string
	Service string
	Secret  string
}
