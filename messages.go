package main

import (
	"waveportal-tui/notify"
	"waveportal-tui/rpc"
	"waveportal-tui/wave"

	"github.com/ethereum/go-ethereum/common"
)

// -------------------- TEA MESSAGES --------------------
// All custom message types for The Elm Architecture

// clipboardCopiedMsg indicates clipboard copy completed
type clipboardCopiedMsg struct {
	what string
}

// clearClipboardFeedbackMsg clears the "Copied!" hint
type clearClipboardFeedbackMsg struct{}

// logInitMsg signals that log viewport should be initialized
type logInitMsg struct{}

// rpcConnectedMsg contains result of RPC connection attempt
type rpcConnectedMsg struct {
	client *rpc.Client
	err    error
}

// chainStatusMsg carries the latest block and contract code check
type chainStatusMsg struct {
	status rpc.ChainStatus
}

// stateMsg is a new snapshot from the wave store. ok is false once the
// subscription is closed.
type stateMsg struct {
	from  <-chan wave.State
	state wave.State
	ok    bool
}

// noticeMsg is a notification raised by the flow
type noticeMsg struct {
	notice notify.Notice
}

// toastExpiredMsg re-renders once a toast has timed out
type toastExpiredMsg struct{}

// intentDoneMsg reports the end of a flow intent
type intentDoneMsg struct {
	intent string
	err    error
}

// passphraseRequest asks the UI to unlock a keystore account
type passphraseRequest struct {
	account common.Address
	reply   chan passphraseReply
}

type passphraseReply struct {
	passphrase string
	err        error
}

// passphraseRequestMsg wraps a request coming from the wallet
type passphraseRequestMsg struct {
	req passphraseRequest
}
