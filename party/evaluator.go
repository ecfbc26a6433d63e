package party

import (
	"fmt"
	"net"
	"time"

	"github.com/twopc/gabes/circuit"
	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/label"
	"github.com/twopc/gabes/transport"
)

// Evaluator holds the evaluator's role state: the garbling
// configuration (it must match the garbler's, since it determines how
// garbled tables are read) and the evaluator's own input bits, keyed
// by identifier.
type Evaluator struct {
	Address string
	Cfg     config.Config
	Inputs  map[string]bool

	// DialRetry is the pause between connection attempts while
	// connecting to a garbler that hasn't started listening yet
	// (spec.md §4.8 step 1, "retry until success"). Defaults to 200ms.
	DialRetry time.Duration
}

// NewEvaluator constructs an Evaluator for the given address, garbling
// configuration, and the evaluator's own input bits.
func NewEvaluator(address string, cfg config.Config, inputs map[string]bool) *Evaluator {
	return &Evaluator{Address: address, Cfg: cfg, Inputs: inputs}
}

// Run dials Address, retrying until the garbler accepts, and drives
// the full evaluator protocol, returning the circuit's boolean output.
func (e *Evaluator) Run() (bool, error) {
	retry := e.DialRetry
	if retry <= 0 {
		retry = 200 * time.Millisecond
	}

	var conn net.Conn
	var err error
	for {
		conn, err = net.Dial("tcp", e.Address)
		if err == nil {
			break
		}
		time.Sleep(retry)
	}
	defer conn.Close()

	return e.runSession(transport.New(conn))
}

// runSession is Run's connection-agnostic body, split out for testing
// over an in-memory pipe.
func (e *Evaluator) runSession(conn *transport.Conn) (bool, error) {
	ids, err := conn.ReceiveIdentifiers()
	if err != nil {
		return false, fmt.Errorf("party: evaluator: receiving identifiers: %w", err)
	}
	if err := conn.SendAck(); err != nil {
		return false, fmt.Errorf("party: evaluator: acking identifiers: %w", err)
	}

	inputLabels := make([]label.Label, 0, len(ids))
	for _, id := range ids {
		bit, owned := e.Inputs[id]
		if owned {
			l, err := conn.EvaluatorOT(bit)
			if err != nil {
				return false, fmt.Errorf("party: evaluator: OT on wire %q: %w", id, err)
			}
			inputLabels = append(inputLabels, l)
			continue
		}
		l, err := conn.ReceiveLabel()
		if err != nil {
			return false, fmt.Errorf("party: evaluator: receiving label for wire %q: %w", id, err)
		}
		if err := conn.SendAck(); err != nil {
			return false, fmt.Errorf("party: evaluator: acking label for wire %q: %w", id, err)
		}
		inputLabels = append(inputLabels, l)
	}

	circuitData, err := conn.Receive()
	if err != nil {
		return false, fmt.Errorf("party: evaluator: receiving sanitized circuit: %w", err)
	}
	root, err := circuit.UnmarshalSanitizedGate(circuitData)
	if err != nil {
		return false, fmt.Errorf("party: evaluator: %w", err)
	}

	finalLabel, err := circuit.Reconstruct(e.Cfg, root, inputLabels)
	if err != nil {
		return false, fmt.Errorf("party: evaluator: reconstruct: %w", err)
	}

	if err := conn.SendLabel(finalLabel); err != nil {
		return false, fmt.Errorf("party: evaluator: sending final label: %w", err)
	}

	result, err := conn.ReceiveBool()
	if err != nil {
		return false, fmt.Errorf("party: evaluator: receiving result: %w", err)
	}
	return result, nil
}
