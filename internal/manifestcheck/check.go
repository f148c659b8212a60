// Package manifestcheck verifies that a pinned build requirement is mirrored
// verbatim in a TOML build manifest's build-system.requires list.
package manifestcheck

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/entrypoints/internal/log"
)

var (
	ErrRequirementsUnreadable = errors.New("could not read the requirements file")
	ErrRequirementMissing     = errors.New("requirement not found in the requirements file")
	ErrManifestUnreadable     = errors.New("could not read the build manifest")
	ErrManifestParse          = errors.New("could not parse the build manifest")
	ErrRequiresMissing        = errors.New("could not retrieve the build-system requires list")
	ErrMismatch               = errors.New("requirement is not mirrored in the build manifest")
)

// MismatchError reports a requirement absent from build-system.requires.
// Closest is the most similar listed requirement, empty if the list is empty.
type MismatchError struct {
	Requirement      string
	RequirementsFile string
	Manifest         string
	Closest          string
	Diff             string
}

func (e *MismatchError) Error() string {
	msg := fmt.Sprintf("requirement from %s %s is not mirrored in %s", e.RequirementsFile, e.Requirement, e.Manifest)
	if e.Closest != "" {
		msg += fmt.Sprintf(" (closest: %s, diff: %s)", e.Closest, e.Diff)
	}
	return msg
}

func (e *MismatchError) Unwrap() error { return ErrMismatch }

// Result is a successful check.
type Result struct {
	Requirement string
	Requires    []string
}

type buildManifest struct {
	BuildSystem *struct {
		Requires *[]string `toml:"requires"`
	} `toml:"build-system"`
}

// Check finds the first requirement line in requirementsPath that mentions pkg
// and verifies it is listed verbatim in manifestPath's build-system.requires.
func Check(manifestPath, requirementsPath, pkg string) (*Result, error) {
	requirement, err := findRequirement(requirementsPath, pkg)
	if err != nil {
		return nil, err
	}

	requires, err := readRequires(manifestPath)
	if err != nil {
		return nil, err
	}

	for _, r := range requires {
		if r == requirement {
			log.Debug(log.CatCLI, "requirement mirrored", "requirement", requirement, "manifest", manifestPath)
			return &Result{Requirement: requirement, Requires: requires}, nil
		}
	}

	mismatch := &MismatchError{
		Requirement:      requirement,
		RequirementsFile: requirementsPath,
		Manifest:         manifestPath,
	}
	if closest, ok := closestRequirement(requirement, pkg, requires); ok {
		mismatch.Closest = closest
		mismatch.Diff = charDiff(closest, requirement)
	}
	return nil, mismatch
}

// findRequirement returns the first non-comment line of path containing pkg.
func findRequirement(path, pkg string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRequirementsUnreadable, path, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, pkg) {
			return line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrRequirementsUnreadable, path, err)
	}
	return "", fmt.Errorf("%w: %q in %s", ErrRequirementMissing, pkg, path)
}

func readRequires(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestUnreadable, path, err)
	}

	var manifest buildManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifestParse, path, err)
	}
	if manifest.BuildSystem == nil || manifest.BuildSystem.Requires == nil {
		return nil, fmt.Errorf("%w from %s", ErrRequiresMissing, path)
	}
	return *manifest.BuildSystem.Requires, nil
}

// closestRequirement prefers a listed requirement naming pkg, then the one with
// the smallest edit distance to requirement.
func closestRequirement(requirement, pkg string, requires []string) (string, bool) {
	if len(requires) == 0 {
		return "", false
	}
	for _, r := range requires {
		if strings.Contains(r, pkg) {
			return r, true
		}
	}

	dmp := diffmatchpatch.New()
	best, bestDist := "", -1
	for _, r := range requires {
		dist := dmp.DiffLevenshtein(dmp.DiffMain(r, requirement, false))
		if bestDist < 0 || dist < bestDist {
			best, bestDist = r, dist
		}
	}
	return best, true
}

// charDiff renders the character diff from "from" to "to" as "[-removed-]{+added+}".
func charDiff(from, to string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(from, to, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		}
	}
	return b.String()
}
