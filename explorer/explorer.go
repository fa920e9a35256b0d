package explorer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/safe-interrupt/policies"
)

type Explorer struct {
	PolicyFile string
	TracesFile string

	QTable *policies.QTable
	Traces []*Trace

	// visits of every state across the traces
	StateMap map[string]int
}

// Create an explorer of q tables and trace
func NewExplorer(policyFile string, tracesFile string) (*Explorer, error) {
	e := &Explorer{
		PolicyFile: policyFile,
		TracesFile: tracesFile,
		QTable:     policies.NewQTable(),
		Traces:     make([]*Trace, 0),
		StateMap:   make(map[string]int),
	}

	err := e.QTable.Read(policyFile)
	if err != nil {
		return nil, err
	}
	e.Traces, err = readTraces(e.TracesFile)
	if err != nil {
		return nil, err
	}

	for _, t := range e.Traces {
		for i, s := range t.States {
			if i == 0 {
				e.StateMap[s] += 1
			}
			e.StateMap[t.NextStates[i]] += 1
		}
	}

	return e, nil
}

func readTraces(path string) ([]*Trace, error) {
	traces := make([]*Trace, 0)
	file, err := os.Open(path)
	if err != nil {
		return traces, fmt.Errorf("error reading file: %s", err)
	}
	defer file.Close()

	if !strings.HasSuffix(path, ".jsonl") {
		t := NewTrace()
		data, err := io.ReadAll(file)
		if err != nil {
			return traces, fmt.Errorf("error reading file: %s", err)
		}
		if err := json.Unmarshal(data, t); err != nil {
			return traces, fmt.Errorf("error parsing file: %s", err)
		}
		if !t.valid() {
			return traces, errors.New("number of states, actions, next states and rewards mismatched")
		}
		return append(traces, t), nil
	}

	scanner := bufio.NewScanner(file)
	maxTraceSize := 5 * 1024 * 1024
	scanner.Buffer(make([]byte, maxTraceSize), maxTraceSize)
	for scanner.Scan() {
		bs := scanner.Bytes()
		if len(strings.TrimSpace(string(bs))) == 0 {
			continue
		}
		t := NewTrace()
		if err := json.Unmarshal(bs, t); err != nil {
			return traces, fmt.Errorf("error reading file contents: %s", err)
		}
		if !t.valid() {
			return traces, errors.New("number of states, actions, next states and rewards mismatched")
		}
		traces = append(traces, t)
	}
	if err := scanner.Err(); err != nil {
		return traces, fmt.Errorf("failed to read traces: %s", err)
	}
	return traces, nil
}

// Example invocation - ./safe-interrupt explore results/policies/QLearning_0.json results/traces/QLearning_0.jsonl
func ExploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:  "explore [policy_output] [trace_output]",
		Long: "Explore the choices of a q-table and the traces",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := NewExplorer(args[0], args[1])
			if err != nil {
				return err
			}

			exp.Interact(os.Stdin, os.Stdout)
			return nil
		},
	}
}
