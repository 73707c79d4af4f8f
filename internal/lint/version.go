package lint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coreos/go-semver/semver"

	"github.com/alfredjeanlab/flowlint/internal/model"
)

const latestVersion = "latest"

var (
	// latest, optionally pinned to a release channel: "latest-beta".
	latestPattern = regexp.MustCompile(`^latest(?:-([0-9A-Za-z][0-9A-Za-z.]*))?$`)
	// ^1.2.3, ~1.2.3, >=1.2.3, <=1.2.3, >1.2.3, <1.2.3
	rangePattern = regexp.MustCompile(`^(?:\^|~|>=|<=|>|<)\d+\.\d+\.\d+$`)
)

// ClassifyVersion reports whether v uses an accepted version syntax and, if
// so, whether it selects a prerelease.
func ClassifyVersion(v string) (valid, prerelease bool) {
	if m := latestPattern.FindStringSubmatch(v); m != nil {
		return true, v != latestVersion
	}
	if rangePattern.MatchString(v) {
		return true, false
	}
	if strings.HasSuffix(v, "-") || strings.HasSuffix(v, "+") {
		return false, false
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return false, false
	}
	return true, sv.PreRelease != ""
}

// checkVersion validates the node's version tag. Graphs below
// model.SchemaVersionVersioned predate version tags, so an absent version is
// only reported for versioned graphs; a version that is present is always
// checked.
func (p *pass) checkVersion(n *model.Node) {
	if n.Version == "" {
		if p.graph.SchemaVersion < model.SchemaVersionVersioned {
			return
		}
		p.nodeIssue(model.SeverityWarning, model.CodeMissingNodeVersion, n.ID,
			fmt.Sprintf("Node %q has no version; the latest version will be used", n.ID))
		return
	}
	valid, prerelease := ClassifyVersion(n.Version)
	switch {
	case !valid:
		p.nodeIssue(model.SeverityError, model.CodeInvalidVersionSyntax, n.ID,
			fmt.Sprintf("Node %q has invalid version %q", n.ID, n.Version))
	case prerelease:
		p.nodeIssue(model.SeverityWarning, model.CodePrereleaseVersion, n.ID,
			fmt.Sprintf("Node %q uses prerelease version %q", n.ID, n.Version))
	}
}
