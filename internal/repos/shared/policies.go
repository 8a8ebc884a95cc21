package shared

// FailurePolicy specifies how workflows react when a repository fails.
type FailurePolicy int

const (
	// FailureContinue records the failure and moves on to the next repository.
	FailureContinue FailurePolicy = iota
	// FailureStop aborts the workflow at the first failed repository.
	FailureStop
)

// FailurePolicyFromBool converts the fail-fast flag into a policy.
func FailurePolicyFromBool(failFast bool) FailurePolicy {
	if failFast {
		return FailureStop
	}
	return FailureContinue
}

// ShouldStop reports whether the workflow must abort after a failure.
func (policy FailurePolicy) ShouldStop() bool {
	return policy == FailureStop
}

// DirtyWorktreePolicy describes what pull does with uncommitted changes.
type DirtyWorktreePolicy int

const (
	// DirtyWorktreeSkip leaves dirty repositories untouched and reports them as skipped.
	DirtyWorktreeSkip DirtyWorktreePolicy = iota
	// DirtyWorktreeStash stages and stashes changes before switching branches.
	DirtyWorktreeStash
)

// DirtyWorktreePolicyFromBool converts the stash flag into a policy value.
func DirtyWorktreePolicyFromBool(stashChanges bool) DirtyWorktreePolicy {
	if stashChanges {
		return DirtyWorktreeStash
	}
	return DirtyWorktreeSkip
}

// ShouldStash reports whether dirty changes are stashed rather than skipped.
func (policy DirtyWorktreePolicy) ShouldStash() bool {
	return policy == DirtyWorktreeStash
}

// RevisionScope selects what grep searches.
type RevisionScope int

const (
	// RevisionScopeWorkingTree searches the checked out files.
	RevisionScopeWorkingTree RevisionScope = iota
	// RevisionScopeHistory searches every commit reachable from any ref.
	RevisionScopeHistory
)

// RevisionScopeFromBool converts the history flag into a scope.
func RevisionScopeFromBool(searchHistory bool) RevisionScope {
	if searchHistory {
		return RevisionScopeHistory
	}
	return RevisionScopeWorkingTree
}

// IncludesHistory reports whether revisions must be listed before searching.
func (scope RevisionScope) IncludesHistory() bool {
	return scope == RevisionScopeHistory
}
