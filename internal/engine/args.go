package engine

import (
	"strconv"
)

// argList accumulates engine flags in a stable order. Optional flags are
// appended only when configured, so the engine's own defaulting applies
// when a value is absent.
type argList struct {
	args []string
}

func (a *argList) flag(name, value string) {
	a.args = append(a.args, name, value)
}

func (a *argList) flagFloat(name string, value float64) {
	a.flag(name, strconv.FormatFloat(value, 'f', -1, 64))
}

func (a *argList) flagInt(name string, value int) {
	a.flag(name, strconv.Itoa(value))
}

func (a *argList) optFloat(name string, value *float64) {
	if value != nil {
		a.flagFloat(name, *value)
	}
}

func (a *argList) optInt(name string, value *int) {
	if value != nil {
		a.flagInt(name, *value)
	}
}

func (a *argList) optString(name, value string) {
	if value != "" {
		a.flag(name, value)
	}
}

func (a *argList) switchIf(name string, set bool) {
	if set {
		a.args = append(a.args, name)
	}
}
