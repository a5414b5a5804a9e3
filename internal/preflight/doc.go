// Package preflight provides readiness checks for the directories, roster and
// external programs podlinks depends on.
//
// The CLI "podlinks doctor" command runs RunAll and CheckSystemDeps and
// renders the outcome as a table; "podlinks run" uses the same checks to warn
// before starting a run that is bound to fail.
package preflight
