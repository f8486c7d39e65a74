package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-ledger/pkg/errors"
)

// CheckConstraint reports whether engineVersion satisfies the semver constraint a
// configuration file declares in its engine_version field, e.g. ">= 0.3, < 0.4" or "~0.3".
//
// An empty constraint or a "main" engine (development build) always passes.
func CheckConstraint(engineVersion, constraint string) error {
	constraint = strings.TrimSpace(constraint)
	engineVersion = strings.TrimPrefix(engineVersion, "v")

	if constraint == "" || engineVersion == "main" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine_version constraint %q", constraint)
	}

	v, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version %q", engineVersion)
	}

	if ok, reasons := c.Validate(v); !ok {
		msg := make([]string, 0, len(reasons))
		for _, r := range reasons {
			msg = append(msg, r.Error())
		}

		return errors.Newf(errors.ErrCodeVersionMismatch,
			"engine %s does not satisfy %q: %s", v.String(), constraint, strings.Join(msg, "; "))
	}

	return nil
}
