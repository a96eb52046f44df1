package guardian

// Suite names a command's ordered check list.
type Suite string

const (
	// SuiteRouters verifies router mounting only
	SuiteRouters Suite = "routers"
	// SuiteGuard is the dependency guardian
	SuiteGuard Suite = "guard"
	// SuiteReady is the deployment readiness check
	SuiteReady Suite = "ready"
	// SuiteFull runs every check
	SuiteFull Suite = "audit"
)

// Checks returns the checks of a suite in run order. withTests adds the
// test-suite run to SuiteFull; SuiteReady always runs it.
func Checks(s Suite, withTests bool) []Check {
	switch s {
	case SuiteRouters:
		return []Check{ParseHealth{}, RouterMounting{}}
	case SuiteGuard:
		return []Check{ParseHealth{}, LockSync{}, ImportAvailability{}, DevSeparation{}, VersionPinning{}}
	case SuiteReady:
		return []Check{ParseHealth{}, LockCommitted{}, ImportAvailability{}, Tests{}, DevSeparation{}}
	default:
		checks := []Check{
			ParseHealth{},
			RouterMounting{},
			LockSync{},
			LockCommitted{},
			LockCoverage{},
			ImportAvailability{},
			DevSeparation{},
			VersionPinning{},
		}
		if withTests {
			checks = append(checks, Tests{})
		}
		return checks
	}
}
