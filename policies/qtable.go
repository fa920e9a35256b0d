package policies

import (
	"encoding/json"
	"math"
	"os"
)

type QTable struct {
	table map[string]map[string]float64
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
	}
}

// Get the value of (state, action), initialising it to def if absent
func (q *QTable) Get(state, action string, def float64) float64 {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	if _, ok := q.table[state][action]; !ok {
		q.table[state][action] = def
	}
	return q.table[state][action]
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable) GetAll(state string) (map[string]float64, bool) {
	values, ok := q.table[state]
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out, true
}

// Max value of the state over the actions seen so far, def if the state is unknown
func (q *QTable) Max(state string, def float64) (string, float64) {
	values, ok := q.table[state]
	if !ok || len(values) == 0 {
		return "", def
	}
	maxAction := ""
	maxVal := math.Inf(-1)
	for a, val := range values {
		if val > maxVal || (val == maxVal && a < maxAction) {
			maxAction = a
			maxVal = val
		}
	}
	return maxAction, maxVal
}

// MaxAmong returns the best of the given actions, ties go to the earliest action in the slice
func (q *QTable) MaxAmong(state string, actions []string, def float64) (string, float64) {
	maxAction := ""
	maxVal := math.Inf(-1)
	for _, a := range actions {
		val := q.Get(state, a, def)
		if val > maxVal {
			maxAction = a
			maxVal = val
		}
	}
	return maxAction, maxVal
}

func (q *QTable) Len() int {
	return len(q.table)
}

// Record the table as json
func (q *QTable) Record(filePath string) error {
	bs, err := json.Marshal(q.table)
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, bs, 0644)
}

// Read a table previously stored with Record
func (q *QTable) Read(filePath string) error {
	bs, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	table := make(map[string]map[string]float64)
	if err := json.Unmarshal(bs, &table); err != nil {
		return err
	}
	q.table = table
	return nil
}
