package explorer

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Runs the main interactive loop until the user quits or the input ends
func (e *Explorer) Interact(in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "%s", e.header())
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s", e.prompt())

		optionS, err := reader.ReadString('\n')
		if err != nil && optionS == "" {
			return
		}
		option, err := strconv.Atoi(strings.TrimSpace(optionS))
		if err != nil {
			fmt.Fprintln(out, "Invalid input! Try again")
			continue
		}
		fmt.Fprintln(out, "------------------------------------")
		switch option {
		case 1:
			fmt.Fprintf(out, "%s", e.getInitialStates())
		case 2:
			fmt.Fprintf(out, "Enter the state key: ")
			stateK, err := reader.ReadString('\n')
			if err != nil && stateK == "" {
				return
			}
			fmt.Fprintf(out, "%s", e.getQValues(strings.TrimSpace(stateK)))
		case 3:
			fmt.Fprintf(out, "Enter the state key: ")
			stateK, err := reader.ReadString('\n')
			if err != nil && stateK == "" {
				return
			}
			fmt.Fprintf(out, "%s", e.getFullState(strings.TrimSpace(stateK)))
		case 4:
			fmt.Fprintf(out, "Enter trace number (1-%d): ", len(e.Traces))
			traceNoS, err := reader.ReadString('\n')
			if err != nil && traceNoS == "" {
				return
			}
			traceNo, err := strconv.Atoi(strings.TrimSpace(traceNoS))
			if err != nil {
				fmt.Fprintln(out, "Invalid input! Not a number. Try again")
				continue
			}
			if traceNo < 1 || traceNo > len(e.Traces) {
				fmt.Fprintf(out, "Invalid input! Should be between (1-%d). Try again\n", len(e.Traces))
				continue
			}
			if !e.interactTrace(traceNo-1, reader, out) {
				return
			}
		case 5:
			fmt.Fprintf(out, "%s", e.summary())
		case 6:
			fmt.Fprintln(out, "Quitting! Thank you")
			return
		default:
			fmt.Fprintln(out, "Wrong choice! Try again!")
		}
	}
}

func (e *Explorer) getFullState(stateKey string) string {
	visits, ok := e.StateMap[stateKey]
	if !ok {
		return "No such state\n"
	}
	return fmt.Sprintf("State Key: %s\nVisits: %d\nState:\n%s", stateKey, visits, Describe(stateKey))
}

func (e *Explorer) getQValues(state string) string {
	values, ok := e.QTable.GetAll(state)
	if !ok {
		return "No such state in the q table\n"
	}
	if len(values) == 0 {
		return "No values in the q table for the corresponding state\n"
	}
	actions := make([]string, 0, len(values))
	for a := range values {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	out := "Q values are:\n"
	for _, a := range actions {
		out += fmt.Sprintf("%s: %f\n", a, values[a])
	}
	return out
}

func (e *Explorer) getInitialStates() string {
	initalStates := make(map[string]int)
	for _, t := range e.Traces {
		if t.Len() == 0 {
			continue
		}
		initalStates[t.States[0]] += 1
	}
	keys := make([]string, 0, len(initalStates))
	for k := range initalStates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := "Initial States are:\n"
	for _, k := range keys {
		out += fmt.Sprintf("%s: %d\n", k, initalStates[k])
	}
	return out
}

// summary counts how the traces ended
func (e *Explorer) summary() string {
	outcomes := make(map[string]int)
	total := 0.0
	for _, t := range e.Traces {
		outcomes[t.Outcome()] += 1
		total += t.Return()
	}
	out := fmt.Sprintf("Traces: %d, States: %d\n", len(e.Traces), len(e.StateMap))
	if len(e.Traces) > 0 {
		out += fmt.Sprintf("Mean return: %f\n", total/float64(len(e.Traces)))
	}
	for _, o := range []string{"goal", "penalty", "truncated", "horizon", "empty"} {
		if c, ok := outcomes[o]; ok {
			out += fmt.Sprintf("%s: %d\n", o, c)
		}
	}
	return out
}

func (e *Explorer) header() string {
	return `
Welcome to the q table explorer!
	`
}

func (e *Explorer) prompt() string {
	return `
------------------------------------
Select one of the following options:
1. Show initial state
2. Show QValues
3. Show full state
4. Explore a trace
5. Summary
6. Quit
Enter your choice: `
}

func (e *Explorer) tracePrompt() string {
	return `
---------------------------------------------
Step(s) QValues(d) Prev(p) Last(l) Quit(q): `
}

// interactTrace walks through a trace, it returns false when the input ended
func (e *Explorer) interactTrace(traceNo int, reader *bufio.Reader, out io.Writer) bool {
	stepCount := 0
	trace := e.Traces[traceNo]
	if trace.Len() == 0 {
		fmt.Fprintln(out, "Empty trace!")
		return true
	}
	fmt.Fprintln(out, "---------------------------------------------")
	for {
		step, _ := trace.Get(stepCount)
		fmt.Fprintf(out, "For step %d\nState: %s\nAction: %s\nNextState: %s\nReward: %f\n", stepCount+1, step.State, step.Action, step.NextState, step.Reward)
		fmt.Fprintf(out, "%s", e.tracePrompt())
		optionS, err := reader.ReadString('\n')
		if err != nil && optionS == "" {
			return false
		}
		fmt.Fprintln(out, "---------------------------------------------")
		switch strings.TrimSpace(optionS) {
		case "s":
			if stepCount == trace.Len()-1 {
				fmt.Fprintln(out, "No more steps!")
				continue
			}
			stepCount += 1
		case "d":
			fmt.Fprintf(out, "%s", e.getQValues(step.State))
		case "p":
			if stepCount == 0 {
				fmt.Fprintln(out, "No more steps!")
				continue
			}
			stepCount -= 1
		case "l":
			stepCount = trace.Len() - 1
		case "q":
			return true
		default:
			fmt.Fprintln(out, "Invalid option! Try again.")
		}
	}
}
