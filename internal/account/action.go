package account

// Action is the closed set of operations the account endpoint dispatches on.
type Action string

const (
	ActionLogin         Action = "login"
	ActionRegister      Action = "register"
	ActionGetOrders     Action = "get_orders"
	ActionGetAddress    Action = "get_address"
	ActionGetDetails    Action = "get_details"
	ActionUpdateDetails Action = "update_details"
)

// ParseAction maps a raw action parameter onto the closed enum. Unknown or
// missing values report ok=false and are answered with the invalid-action
// result.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionLogin, ActionRegister, ActionGetOrders, ActionGetAddress, ActionGetDetails, ActionUpdateDetails:
		return Action(raw), true
	default:
		return "", false
	}
}
