package cache

// Key names the well-known slots shared between independently routed
// screens. The cache is the only channel between those screens, and a
// mistyped key silently reads as absent, so the names live here as a
// closed set rather than ad hoc strings at call sites.
type Key string

const (
	// KeyUser holds the logged-in user's role-discriminating identity.
	KeyUser Key = "User"
	// KeyLabID holds the active lab identifier handed off from the
	// course list to the lab runner.
	KeyLabID Key = "labID"
	// KeySelectedLabTemplate holds the template a teacher picked for
	// assignment and point allocation.
	KeySelectedLabTemplate Key = "selectedLabTemplate"
	// KeyLabTemplate holds the authoring snapshot captured on submit.
	KeyLabTemplate Key = "LabTemplate"
)
