package elevutils

import "github.com/eiannone/keyboard"

type Action int

const (
	ActionNone Action = iota
	ActionRandomRequest
	ActionFaster
	ActionSlower
	ActionPrint
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRandomRequest:
		return "submit a random request"
	case ActionFaster:
		return "halve travel and door times"
	case ActionSlower:
		return "double travel and door times"
	case ActionPrint:
		return "print cars and requests"
	case ActionQuit:
		return "quit"
	default:
		return "undefined"
	}
}

type KeyBinding struct {
	Key    string
	Action Action
}

func KeyBindings() []KeyBinding {
	return []KeyBinding{
		{"r", ActionRandomRequest},
		{"+", ActionFaster},
		{"-", ActionSlower},
		{"p", ActionPrint},
		{"q", ActionQuit},
		{"Ctrl-C", ActionQuit},
	}
}

// KeyAction maps a key press from keyboard.GetSingleKey to an action.
func KeyAction(char rune, key keyboard.Key) Action {
	if key == keyboard.KeyCtrlC || key == keyboard.KeyEsc {
		return ActionQuit
	}
	switch char {
	case 'r', 'R':
		return ActionRandomRequest
	case '+', '=':
		return ActionFaster
	case '-', '_':
		return ActionSlower
	case 'p', 'P':
		return ActionPrint
	case 'q', 'Q':
		return ActionQuit
	}
	return ActionNone
}
