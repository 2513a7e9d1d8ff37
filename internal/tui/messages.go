package tui

import (
	"github.com/cj3636/gtaz/internal/gitops"
	"github.com/cj3636/gtaz/internal/repo"
)

// repoLoadedMsg carries a fresh repository snapshot with its header
// data. Produced on startup and on every refresh.
type repoLoadedMsg struct {
	snapshot repo.Repository
	branch   string
	history  []gitops.Commit
	err      error
}

// toolResultMsg carries the outcome of one tool run.
type toolResultMsg struct {
	res gitops.Result
}

// checkoutTargetsMsg carries the branch/tag list for the checkout
// picker.
type checkoutTargetsMsg struct {
	targets []string
	err     error
}

// checkoutDoneMsg reports a finished checkout.
type checkoutDoneMsg struct {
	res gitops.CheckoutResult
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	err error
}
