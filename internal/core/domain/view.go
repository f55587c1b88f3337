package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownView = errors.New("unknown view")

type View string

const (
	ViewDashboard View = "dashboard"
	ViewInventory View = "inventory"
	ViewSimulator View = "simulator"
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewDashboard, ViewInventory, ViewSimulator:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// ViewState is the active screen together with the product carried into the
// simulator. Both fields are always read and written together.
type ViewState struct {
	Active   View     `json:"active"`
	Selected *Product `json:"selected,omitempty"`
}
