// Command gabes runs one side of a two-party garbled-circuit
// evaluation: a garbler that builds and sends the encrypted circuit,
// or an evaluator that reconstructs it via oblivious transfer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twopc/gabes/config"
	"github.com/twopc/gabes/party"
)

func main() {
	garbler := flag.Bool("g", false, "run as garbler")
	evaluator := flag.Bool("e", false, "run as evaluator")
	addr := flag.String("addr", "", "address, host:port (listen address for -g, dial address for -e)")
	circuitFile := flag.String("c", "", "circuit file (garbler only)")
	ids := flag.String("ids", "", "comma-separated input-wire identifiers this party owns")
	bits := flag.String("bits", "", "comma-separated 0/1 input bits, matching -ids in count and order")
	optFlag := flag.String("opt", "classical", "garbling optimization: classical|pp|grr3|freexor|flexor|halfgates")
	flag.Parse()

	if err := run(*garbler, *evaluator, *addr, *circuitFile, *ids, *bits, *optFlag); err != nil {
		log.Fatal(err)
	}
}

func run(garbler, evaluator bool, addr, circuitFile, idsFlag, bitsFlag, optFlag string) error {
	if garbler == evaluator {
		return fmt.Errorf("exactly one of -g or -e must be given")
	}
	if addr == "" {
		return fmt.Errorf("-addr is required")
	}

	opt, err := parseOptimization(optFlag)
	if err != nil {
		return err
	}

	ids, bits, err := parseInputs(idsFlag, bitsFlag)
	if err != nil {
		return err
	}
	inputs := make(map[string]bool, len(ids))
	for i, id := range ids {
		inputs[id] = bits[i]
	}

	if garbler {
		if circuitFile == "" {
			return fmt.Errorf("garbler requires -c <circuit file>")
		}
		source, err := os.ReadFile(circuitFile)
		if err != nil {
			return fmt.Errorf("reading circuit file: %w", err)
		}
		cfg, err := config.New(opt, config.DefaultNumBytes)
		if err != nil {
			return err
		}
		g, err := party.NewGarbler(addr, cfg, string(source), inputs)
		if err != nil {
			return err
		}
		result, err := g.Run()
		if err != nil {
			return err
		}
		fmt.Printf("result: %v\n", result)
		return nil
	}

	cfg, err := config.New(opt, config.DefaultNumBytes)
	if err != nil {
		return err
	}
	e := party.NewEvaluator(addr, cfg, inputs)
	result, err := e.Run()
	if err != nil {
		return err
	}
	fmt.Printf("result: %v\n", result)
	return nil
}

func parseOptimization(s string) (config.Optimization, error) {
	switch s {
	case "classical":
		return config.Classical, nil
	case "pp":
		return config.PointAndPermute, nil
	case "grr3":
		return config.GRR3, nil
	case "freexor":
		return config.FreeXOR, nil
	case "flexor":
		return config.FleXOR, nil
	case "halfgates":
		return config.HalfGates, nil
	default:
		return 0, fmt.Errorf("unknown -opt %q", s)
	}
}

func parseInputs(idsFlag, bitsFlag string) ([]string, []bool, error) {
	if idsFlag == "" && bitsFlag == "" {
		return nil, nil, nil
	}

	ids := strings.Split(idsFlag, ",")
	bitTokens := strings.Split(bitsFlag, ",")
	if len(ids) != len(bitTokens) {
		return nil, nil, fmt.Errorf(
			"-ids and -bits must name the same number of entries (%d vs %d)",
			len(ids), len(bitTokens))
	}

	bits := make([]bool, len(bitTokens))
	for i, tok := range bitTokens {
		switch strings.TrimSpace(tok) {
		case "0":
			bits[i] = false
		case "1":
			bits[i] = true
		default:
			return nil, nil, fmt.Errorf("-bits entry %q is not 0 or 1", tok)
		}
	}
	return ids, bits, nil
}
