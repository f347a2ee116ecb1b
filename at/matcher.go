package at

import (
	"runtime"
	"time"
)

// Outcome classifies how the device answered a command.
type Outcome int

const (
	OutcomeTimeout  Outcome = iota - 1 // no terminator before the deadline
	OutcomeOK                          // command successful
	OutcomeError                       // command error
	OutcomeConnect                     // IP connection has been completed
	OutcomeSendOK                      // send successful
	OutcomeBusy                        // device busy processing a previous command
	OutcomeSendFail                    // sending failed
	OutcomeClosed                      // IP connection has been closed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTimeout:
		return "timeout"
	case OutcomeOK:
		return "ok"
	case OutcomeError:
		return "error"
	case OutcomeConnect:
		return "connect"
	case OutcomeSendOK:
		return "send ok"
	case OutcomeBusy:
		return "busy"
	case OutcomeSendFail:
		return "send fail"
	case OutcomeClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminator pairs a byte sequence that ends a reply with the outcome it
// signals.
type Terminator struct {
	Pattern string
	Outcome Outcome
}

// DefaultTerminators is the table Match uses when it is given none. Order
// matters: when one byte completes two entries the earlier one wins.
var DefaultTerminators = []Terminator{
	{Pattern: Connect + CRLF, Outcome: OutcomeConnect},
	{Pattern: SendOK + CRLF, Outcome: OutcomeSendOK},
	{Pattern: SendFail, Outcome: OutcomeSendFail},
	{Pattern: Closed, Outcome: OutcomeClosed},
	{Pattern: Busy, Outcome: OutcomeBusy},
	{Pattern: "\n" + ERROR, Outcome: OutcomeError},
	{Pattern: "\n" + FAIL, Outcome: OutcomeError},
	{Pattern: "\n" + OK + CRLF, Outcome: OutcomeOK},
}

// Match consumes inbound bytes from src, advancing every terminator on every
// byte, until one of them is complete or the timeout elapses. It returns the
// outcome of the completed terminator or OutcomeTimeout. A zero timeout
// selects DefaultScanTimeout. Every inspected
// byte is consumed whatever the result; bytes after the completing one are
// left in src.
//
// Match progress lives only for the duration of the call, so nothing a
// previous call saw can leak into this one.
func Match(src Source, timeout time.Duration, terms ...Terminator) Outcome {
	if len(terms) == 0 {
		terms = DefaultTerminators
	}
	patterns := make([]*pattern, len(terms))
	for i, t := range terms {
		patterns[i] = newPattern(t.Pattern)
	}

	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c, ok := src.TryPop()
		if !ok {
			runtime.Gosched()
			continue
		}
		for i, p := range patterns {
			if p.step(c) {
				return terms[i].Outcome
			}
		}
	}
	return OutcomeTimeout
}
