package corpus

import "fmt"

// FailurePolicy decides which per-file failures a build skips quietly. A
// failed file is always left out and the build always continues; failures
// the policy does not silence are reported.
type FailurePolicy int

const (
	// SkipFailed skips a file on any failure without reporting it.
	SkipFailed FailurePolicy = iota

	// SkipUnmapped skips files with unmapped tokens quietly. Every other
	// failure is reported.
	SkipUnmapped
)

var policyNames = map[FailurePolicy]string{
	SkipFailed:   "skip-all",
	SkipUnmapped: "skip-unmapped",
}

// String returns the configuration name of p.
func (p FailurePolicy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("FailurePolicy(%d)", int(p))
}

// ParsePolicy maps a configuration name to a policy.
func ParsePolicy(name string) (FailurePolicy, error) {
	for p, s := range policyNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownPolicy, name)
}

// Silences reports whether a failure of class c is skipped without being
// reported.
func (p FailurePolicy) Silences(c Class) bool {
	switch p {
	case SkipFailed:
		return true
	case SkipUnmapped:
		return c == ClassUnmapped
	default:
		return false
	}
}
