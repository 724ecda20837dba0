package types

import (
	"fmt"
	"strings"
)

// Direction selects which sweep builds the shrinkage path.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

var DirectionNameMap = map[string]Direction{
	"forward":  Forward,
	"fwd":      Forward,
	"backward": Backward,
	"bwd":      Backward,
}

var DirectionPrintNames = []string{"forward", "backward"}

func NewDirection(label string) (dir Direction, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return Forward, nil
	}
	if dir, ok = DirectionNameMap[label]; !ok {
		err = fmt.Errorf("unable to use direction named %q: %w", label, ErrInvalidArgument)
	}
	return
}

func (dir Direction) Valid() bool { return dir == Forward || dir == Backward }

func (dir Direction) String() string {
	if !dir.Valid() {
		return fmt.Sprintf("Direction(%d)", uint8(dir))
	}
	return DirectionPrintNames[dir]
}
